package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/krshsl/admitwise/backend/models"
	"github.com/redis/go-redis/v9"
)

const catalogSnapshotKey = "admitwise:catalog:v1"

// CatalogSource fetches the full list of normalized universities
type CatalogSource interface {
	FetchUniversities(ctx context.Context) ([]models.University, error)
}

// UniversityStore is the persisted catalog
type UniversityStore interface {
	ListUniversities(ctx context.Context, limit int) ([]models.University, error)
	CountUniversities(ctx context.Context) (int64, error)
	CreateUniversities(ctx context.Context, universities []models.University) error
}

// Catalog loads the university list once per process and reuses it.
// Only successful loads are kept; a failed load is retried on the next call.
// With Redis configured, the list is also shared across processes for the TTL.
type Catalog struct {
	source CatalogSource
	redis  *redis.Client
	ttl    time.Duration

	mu           sync.Mutex
	universities []models.University
	byID         map[string]int
	loaded       bool
}

func NewCatalog(source CatalogSource, rdb *redis.Client, ttl time.Duration) *Catalog {
	return &Catalog{
		source: source,
		redis:  rdb,
		ttl:    ttl,
	}
}

// Universities returns the cached catalog, loading it on first use
func (c *Catalog) Universities(ctx context.Context) ([]models.University, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.universities, nil
	}

	if universities, ok := c.readSnapshot(ctx); ok {
		c.store(universities)
		catalogLoads.WithLabelValues("redis").Inc()
		return c.universities, nil
	}

	universities, err := c.source.FetchUniversities(ctx)
	if err != nil {
		catalogFetchFailures.Inc()
		slog.Error("Failed to fetch university catalog", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	c.writeSnapshot(ctx, universities)
	c.store(universities)
	catalogLoads.WithLabelValues("source").Inc()
	slog.Info("University catalog loaded", "count", len(universities))
	return c.universities, nil
}

// Find returns the catalog entry with the given id
func (c *Catalog) Find(ctx context.Context, id string) (*models.University, error) {
	if _, err := c.Universities(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrUniversityNotFound
	}
	u := c.universities[i]
	return &u, nil
}

// Invalidate drops the in-process copy and the shared snapshot
func (c *Catalog) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.universities = nil
	c.byID = nil
	c.loaded = false

	if c.redis != nil {
		if err := c.redis.Del(ctx, catalogSnapshotKey).Err(); err != nil {
			slog.Warn("Failed to delete catalog snapshot", "error", err)
		}
	}
}

func (c *Catalog) store(universities []models.University) {
	if universities == nil {
		universities = []models.University{}
	}
	c.universities = universities
	c.byID = make(map[string]int, len(universities))
	for i, u := range universities {
		c.byID[u.ID] = i
	}
	c.loaded = true
}

func (c *Catalog) readSnapshot(ctx context.Context) ([]models.University, bool) {
	if c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, catalogSnapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Failed to read catalog snapshot", "error", err)
		}
		return nil, false
	}

	var universities []models.University
	if err := json.Unmarshal(data, &universities); err != nil {
		slog.Warn("Discarding unreadable catalog snapshot", "error", err)
		return nil, false
	}
	return universities, true
}

func (c *Catalog) writeSnapshot(ctx context.Context, universities []models.University) {
	if c.redis == nil || len(universities) == 0 {
		return
	}

	data, err := json.Marshal(universities)
	if err != nil {
		slog.Warn("Failed to encode catalog snapshot", "error", err)
		return
	}
	if err := c.redis.Set(ctx, catalogSnapshotKey, data, c.ttl).Err(); err != nil {
		slog.Warn("Failed to write catalog snapshot", "error", err)
	}
}

// DBCatalogSource reads the whole universities table. The scan cap is applied per
// recommendation run, so Find still resolves every id.
type DBCatalogSource struct {
	store UniversityStore
}

func NewDBCatalogSource(store UniversityStore) *DBCatalogSource {
	return &DBCatalogSource{store: store}
}

func (s *DBCatalogSource) FetchUniversities(ctx context.Context) ([]models.University, error) {
	universities, err := s.store.ListUniversities(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return universities, nil
}
