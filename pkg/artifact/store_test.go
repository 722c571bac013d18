package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"community-resources-be/pkg/dayrange"
	"community-resources-be/pkg/resource"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *resource.Dataset {
	hours, _ := dayrange.ParseHours("Mon-Fri 9am-5pm")
	records := []resource.Record{
		{ID: "hc-aaaaaaaaaa", Category: resource.Healthcare, Name: "Sunrise Dental", ZipCode: "60629", Services: []string{"dental"}, Languages: []string{"english"}, Hours: hours},
		{ID: "hc-bbbbbbbbbb", Category: resource.Healthcare, Name: "Harbor Vision", Services: []string{"vision"}, Languages: []string{}},
	}
	return resource.NewDataset(resource.Healthcare, records, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), resource.SourceRemote, "abc123", 2)
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Load(ctx, resource.Healthcare)
	require.ErrorIs(t, err, ErrNotFound)

	want := sampleDataset()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx, resource.Healthcare)
	require.NoError(t, err)
	assert.Equal(t, want.SourceHash, got.SourceHash)
	assert.Equal(t, want.SkippedBlocks, got.SkippedBlocks)
	assert.True(t, want.FetchedAt.Equal(got.FetchedAt))
	require.Len(t, got.Records, 2)
	assert.Equal(t, dayrange.MustResolve("Mon-Fri"), got.Records[0].Hours.OpenDays())
	assert.True(t, got.HasZIP("60629"), "indexes are rebuilt after load")
	assert.True(t, got.Contains("hc-bbbbbbbbbb"))

	require.NoError(t, s.Delete(ctx, resource.Healthcare))
	_, err = s.Load(ctx, resource.Healthcare)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, resource.Healthcare), "deleting a missing artifact is fine")

	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx, resource.Healthcare)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_CorruptAndForeignArtifacts(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "healthcare.json"), []byte("{not json"), 0o644))
	_, err = s.Load(ctx, resource.Healthcare)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "education.json"), []byte(`{"version":99,"dataset":{"category":"education"}}`), 0o644))
	_, err = s.Load(ctx, resource.Education)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	s := NewRedisStore(rdb)
	require.NoError(t, s.Clear(context.Background()))
	exerciseStore(t, s)
}
