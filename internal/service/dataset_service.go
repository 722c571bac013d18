package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/metrics"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/artifact"
	"community-resources-be/pkg/events"
	"community-resources-be/pkg/fetcher"
	"community-resources-be/pkg/parser"
	"community-resources-be/pkg/resource"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const datasetModule = "DatasetService"

// IDatasetService owns the shared, read-mostly category datasets. A dataset
// is built once per TTL window and replaced as a whole; readers hold on to
// the value they got and never see a half-built one.
type IDatasetService interface {
	Get(ctx context.Context, c resource.Category) (*resource.Dataset, error)
	Refresh(ctx context.Context, c resource.Category) (*resource.Dataset, error)
	Invalidate(ctx context.Context, c resource.Category, reason string) error
	ClearAll(ctx context.Context) error
	Warm(ctx context.Context) []dto.DatasetStatusResponse
	Status(ctx context.Context) []dto.DatasetStatusResponse
	HandleInvalidation(ctx context.Context, event events.BaseEvent) error
}

type DatasetServiceConfig struct {
	TTL        time.Duration
	InstanceID string
}

type datasetService struct {
	fetcher    *fetcher.Fetcher
	artifacts  artifact.Store
	datasets   *cache.Cache
	group      singleflight.Group
	ttl        time.Duration
	instanceID string
	publisher  events.Publisher
	metrics    *metrics.Metrics
	logger     logger.ILogger
	now        func() time.Time

	// gens counts invalidations per category. A build started under an
	// older generation is returned to its caller but never cached.
	mu   sync.Mutex
	gens map[resource.Category]uint64
}

// NewDatasetService wires the dataset pipeline. publisher may be nil when
// the instance runs alone.
func NewDatasetService(
	cfg DatasetServiceConfig,
	f *fetcher.Fetcher,
	artifacts artifact.Store,
	publisher events.Publisher,
	m *metrics.Metrics,
	log logger.ILogger,
) IDatasetService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &datasetService{
		fetcher:    f,
		artifacts:  artifacts,
		datasets:   cache.New(cfg.TTL, 2*cfg.TTL),
		ttl:        cfg.TTL,
		instanceID: cfg.InstanceID,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
		now:        time.Now,
		gens:       make(map[resource.Category]uint64),
	}
}

// Get returns the current dataset of c, building it when none is cached.
// Concurrent callers for the same category share one build.
func (s *datasetService) Get(ctx context.Context, c resource.Category) (*resource.Dataset, error) {
	if v, ok := s.datasets.Get(string(c)); ok {
		return v.(*resource.Dataset), nil
	}
	v, err, _ := s.group.Do(string(c), func() (interface{}, error) {
		if v, ok := s.datasets.Get(string(c)); ok {
			return v, nil
		}
		return s.load(ctx, c, false, s.generation(c))
	})
	if err != nil {
		return nil, err
	}
	return v.(*resource.Dataset), nil
}

// Refresh rebuilds c from the source right away, ignoring every TTL.
func (s *datasetService) Refresh(ctx context.Context, c resource.Category) (*resource.Dataset, error) {
	v, err, _ := s.group.Do("refresh:"+string(c), func() (interface{}, error) {
		s.fetcher.Invalidate(c)
		return s.load(ctx, c, true, s.bump(c))
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, string(c), events.ReasonRefresh)
	return v.(*resource.Dataset), nil
}

// Invalidate drops every cached form of c so the next Get fetches again.
func (s *datasetService) Invalidate(ctx context.Context, c resource.Category, reason string) error {
	s.drop(c)
	if err := s.artifacts.Delete(ctx, c); err != nil {
		return err
	}
	s.logger.Info(datasetModule, "Dataset invalidated", map[string]interface{}{"category": c, "reason": reason})
	s.announce(ctx, string(c), reason)
	return nil
}

func (s *datasetService) ClearAll(ctx context.Context) error {
	s.bump(resource.Categories...)
	s.datasets.Flush()
	s.fetcher.Flush()
	if err := s.artifacts.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info(datasetModule, "All dataset caches cleared", nil)
	s.announce(ctx, "", events.ReasonClear)
	return nil
}

// Warm loads every category concurrently. A category that fails is
// reported in its status and does not stop the others.
func (s *datasetService) Warm(ctx context.Context) []dto.DatasetStatusResponse {
	failures := make([]error, len(resource.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range resource.Categories {
		g.Go(func() error {
			if _, err := s.Get(gctx, c); err != nil {
				failures[i] = err
				s.logger.Error(datasetModule, "Warm-up failed", map[string]interface{}{"category": c, "error": err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()

	statuses := s.Status(ctx)
	for i := range statuses {
		if failures[i] != nil {
			statuses[i].Error = failures[i].Error()
		}
	}
	return statuses
}

func (s *datasetService) Status(_ context.Context) []dto.DatasetStatusResponse {
	out := make([]dto.DatasetStatusResponse, 0, len(resource.Categories))
	for _, c := range resource.Categories {
		st := dto.DatasetStatusResponse{Category: c, DisplayName: c.DisplayName()}
		if v, exp, ok := s.datasets.GetWithExpiration(string(c)); ok {
			ds := v.(*resource.Dataset)
			fetchedAt := ds.FetchedAt
			st.Loaded = true
			st.Source = ds.Source
			st.FetchedAt = &fetchedAt
			st.Records = len(ds.Records)
			st.SkippedBlocks = ds.SkippedBlocks
			st.SourceHash = ds.SourceHash
			if !exp.IsZero() {
				st.ExpiresAt = &exp
			}
		}
		out = append(out, st)
	}
	return out
}

// HandleInvalidation applies an invalidation announced by another instance.
func (s *datasetService) HandleInvalidation(ctx context.Context, event events.BaseEvent) error {
	if event.String("instance_id") == s.instanceID {
		return nil
	}

	name := event.String("category")
	if name == "" {
		s.bump(resource.Categories...)
		s.datasets.Flush()
		s.fetcher.Flush()
		return nil
	}
	c, err := resource.ParseCategory(name)
	if err != nil {
		s.logger.Warn(datasetModule, "Ignoring invalidation for unknown category", map[string]interface{}{"category": name})
		return nil
	}
	s.drop(c)
	if err := s.artifacts.Delete(ctx, c); err != nil {
		return err
	}
	s.logger.Info(datasetModule, "Dataset invalidated by peer", map[string]interface{}{
		"category": c,
		"reason":   event.String("reason"),
		"peer":     event.String("instance_id"),
	})
	return nil
}

// load builds the dataset of c. Unless forced, a fresh artifact is used as
// is. A fetched text identical to the artifact's source reuses its records.
// When nothing can be fetched an expired artifact is served as stale.
func (s *datasetService) load(ctx context.Context, c resource.Category, force bool, gen uint64) (*resource.Dataset, error) {
	start := time.Now()

	prev, err := s.artifacts.Load(ctx, c)
	if err != nil {
		if !errors.Is(err, artifact.ErrNotFound) {
			s.logger.Warn(datasetModule, "Artifact unreadable, rebuilding", map[string]interface{}{"category": c, "error": err.Error()})
		}
		prev = nil
	}

	if !force && prev != nil && s.now().Sub(prev.FetchedAt) < s.ttl {
		ds := prev.WithSource(resource.SourceCache, prev.FetchedAt)
		s.keep(ds, start, gen)
		return ds, nil
	}

	res, err := s.fetcher.Fetch(ctx, c)
	if err != nil {
		if prev != nil && errors.Is(err, resource.ErrDataUnavailable) {
			ds := prev.WithSource(resource.SourceStaleCache, prev.FetchedAt)
			s.logger.Warn(datasetModule, "Serving stale artifact", map[string]interface{}{
				"category":   c,
				"fetched_at": prev.FetchedAt,
				"error":      err.Error(),
			})
			s.keep(ds, start, gen)
			return ds, nil
		}
		s.metrics.FetchFailuresTotal.WithLabelValues(string(c)).Inc()
		s.logger.Error(datasetModule, "Dataset unavailable", map[string]interface{}{"category": c, "error": err.Error()})
		return nil, err
	}
	if res.RemoteErr != nil {
		s.logger.Warn(datasetModule, "Remote fetch failed, using fallback", map[string]interface{}{
			"category": c,
			"source":   res.Source,
			"error":    res.RemoteErr.Error(),
		})
	}

	hash := sourceHash(res.Text)
	var ds *resource.Dataset
	if prev != nil && prev.SourceHash == hash {
		ds = prev.WithSource(res.Source, res.FetchedAt)
	} else {
		parsed := parser.Parse(res.Text, c)
		if parsed.Skipped > 0 {
			s.logger.Warn(datasetModule, "Parse degraded, blocks skipped", map[string]interface{}{
				"category":      c,
				"skipped":       parsed.Skipped,
				"skipped_lines": parsed.SkippedLines,
			})
		}
		ds = resource.NewDataset(c, parsed.Records, res.FetchedAt, res.Source, hash, parsed.Skipped)
	}

	if !s.keep(ds, start, gen) {
		// Invalidated while fetching; the text cached by the fetcher is as old.
		s.fetcher.Invalidate(c)
		s.logger.Info(datasetModule, "Discarded superseded dataset build", map[string]interface{}{"category": c, "source": ds.Source})
		return ds, nil
	}
	if err := s.artifacts.Save(ctx, ds); err != nil {
		s.logger.Warn(datasetModule, "Failed to save artifact", map[string]interface{}{"category": c, "error": err.Error()})
	}

	s.logger.Info(datasetModule, "Dataset loaded", map[string]interface{}{
		"category": c,
		"source":   ds.Source,
		"records":  len(ds.Records),
		"skipped":  ds.SkippedBlocks,
	})
	return ds, nil
}

// keep makes ds the current dataset until its TTL window ends. It reports
// false, caching nothing, when the category was invalidated after gen.
func (s *datasetService) keep(ds *resource.Dataset, start time.Time, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[ds.Category] != gen {
		return false
	}

	expiry := s.ttl
	if ds.Source != resource.SourceStaleCache {
		expiry = max(s.ttl-s.now().Sub(ds.FetchedAt), time.Second)
	}
	s.datasets.Set(string(ds.Category), ds, expiry)

	c := string(ds.Category)
	s.metrics.DatasetLoadsTotal.WithLabelValues(c, string(ds.Source)).Inc()
	s.metrics.DatasetRecords.WithLabelValues(c).Set(float64(len(ds.Records)))
	s.metrics.SkippedBlocks.WithLabelValues(c).Set(float64(ds.SkippedBlocks))
	s.metrics.DatasetLoadDuration.WithLabelValues(c).Observe(time.Since(start).Seconds())
	return true
}

func (s *datasetService) generation(c resource.Category) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[c]
}

// bump starts a new generation for each category and returns the last one.
func (s *datasetService) bump(cs ...resource.Category) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gen uint64
	for _, c := range cs {
		s.gens[c]++
		gen = s.gens[c]
	}
	return gen
}

func (s *datasetService) drop(c resource.Category) {
	s.bump(c)
	s.datasets.Delete(string(c))
	s.fetcher.Invalidate(c)
}

func (s *datasetService) announce(ctx context.Context, category, reason string) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	event := events.NewDatasetInvalidated(category, s.instanceID, reason, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(datasetModule, "Failed to announce invalidation", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
	}
}

func sourceHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
