package service

import (
	"context"
	"path/filepath"
	"testing"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService(t *testing.T) {
	fx := newFixture(t, t.TempDir())
	svc := NewResourceService(fx.svc)
	ctx := context.Background()

	t.Run("categories in display order", func(t *testing.T) {
		cats := svc.ListCategories(ctx)
		require.Len(t, cats, 3)
		assert.Equal(t, resource.Healthcare, cats[0].Id)
		assert.Equal(t, "hc", cats[0].Code)
	})

	t.Run("filter options come from the dataset", func(t *testing.T) {
		res, err := svc.GetFilterOptions(ctx, "healthcare")
		require.NoError(t, err)
		assert.Contains(t, res.Options.ZipCodes, "60629")
		assert.Contains(t, res.Options.Services, "dental")
		assert.Equal(t, resource.SourceRemote, res.Dataset.Source)
	})

	t.Run("record lookup", func(t *testing.T) {
		opts, err := fx.svc.Get(ctx, resource.Education)
		require.NoError(t, err)
		require.NotEmpty(t, opts.Records)
		id := opts.Records[0].ID

		res, err := svc.GetRecord(ctx, "education", id)
		require.NoError(t, err)
		assert.Equal(t, id, res.Record.ID)

		_, err = svc.GetRecord(ctx, "education", "ed-missing")
		assert.ErrorIs(t, err, resource.ErrRecordNotFound)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.GetFilterOptions(ctx, "groceries")
		assert.ErrorIs(t, err, resource.ErrUnknownCategory)
	})
}

func TestAdminService_RefreshAndClear(t *testing.T) {
	fx := newFixture(t, t.TempDir())
	svc := NewAdminService(fx.svc, logger.NewNopLogger(), logger.NewNopLogger(), logger.NewNopLogger())
	ctx := context.Background()

	st, err := svc.RefreshCategory(ctx, "education")
	require.NoError(t, err)
	assert.Equal(t, resource.Education, st.Category)
	assert.True(t, st.Loaded)
	assert.NotZero(t, st.Records)

	_, err = svc.RefreshCategory(ctx, "nowhere")
	assert.ErrorIs(t, err, resource.ErrUnknownCategory)

	statuses, err := svc.ClearAllCaches(ctx)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.False(t, st.Loaded, st.Category)
	}
	assert.Equal(t, []string{"refresh", "clear"}, fx.publisher.types())
}

func TestAdminService_SystemLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logs := logger.NewIsolatedLogger(path)
	for i := 0; i < 5; i++ {
		logs.Info("DatasetService", "Dataset loaded", map[string]interface{}{"n": i})
	}
	logs.Warn("Fetcher", "Remote fetch failed", nil)
	require.NoError(t, logs.Sync())

	fx := newFixture(t, t.TempDir())
	svc := NewAdminService(fx.svc, logs, logs, logger.NewNopLogger())

	page, err := svc.GetSystemLogs(context.Background(), 1, 3, "DatasetService")
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "DatasetService", page[0].Module)
	assert.False(t, page[0].CreatedAt.IsZero())

	all, err := svc.GetSystemLogs(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
