package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 1},
		{-0.5, 1},
		{1.5, 1},
		{0.25, 0.25},
		{1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sampleRatio(tt.input), "ratio %v", tt.input)
	}
}

func TestNewProvider_TagsSpansWithInstance(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := newProvider(exporter, Options{InstanceID: "node-a", Environment: "test"})
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "fetch")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	attrs := spans[0].Resource.Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, ServiceName, name.AsString())
	instance, ok := attrs.Value(semconv.ServiceInstanceIDKey)
	require.True(t, ok)
	assert.Equal(t, "node-a", instance.AsString())
}

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(Options{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, otel.GetTextMapPropagator())
}
