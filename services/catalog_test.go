package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/krshsl/admitwise/backend/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func TestCatalog_LoadsOnce(t *testing.T) {
	source := &fakeSource{universities: sampleUniversities()}
	c := NewCatalog(source, nil, time.Hour)

	for i := 0; i < 3; i++ {
		got, err := c.Universities(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	assert.Equal(t, 1, source.calls)
}

func TestCatalog_FailureIsNotCached(t *testing.T) {
	source := &fakeSource{err: errors.New("dial tcp: connection refused")}
	c := NewCatalog(source, nil, time.Hour)

	_, err := c.Universities(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	source.err = nil
	source.universities = sampleUniversities()
	got, err := c.Universities(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, source.calls)
}

func TestCatalog_EmptySourceIsNotAnError(t *testing.T) {
	c := NewCatalog(&fakeSource{}, nil, time.Hour)

	got, err := c.Universities(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalog_Find(t *testing.T) {
	c := NewCatalog(&fakeSource{universities: sampleUniversities()}, nil, time.Hour)

	u, err := c.Find(context.Background(), "tum")
	require.NoError(t, err)
	assert.Equal(t, "Germany", u.Country)

	_, err = c.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUniversityNotFound)
}

func TestCatalog_WritesRedisSnapshot(t *testing.T) {
	rdb, mr := setupRedis(t)
	c := NewCatalog(&fakeSource{universities: sampleUniversities()}, rdb, 2*time.Hour)

	_, err := c.Universities(context.Background())
	require.NoError(t, err)

	require.True(t, mr.Exists(catalogSnapshotKey))
	assert.Equal(t, 2*time.Hour, mr.TTL(catalogSnapshotKey))

	raw, err := mr.Get(catalogSnapshotKey)
	require.NoError(t, err)
	var snapshot []models.University
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.Equal(t, "toronto", snapshot[0].ID)
}

func TestCatalog_ReadsRedisSnapshotBeforeSource(t *testing.T) {
	rdb, mr := setupRedis(t)
	data, err := json.Marshal(sampleUniversities()[:1])
	require.NoError(t, err)
	require.NoError(t, mr.Set(catalogSnapshotKey, string(data)))

	source := &fakeSource{universities: sampleUniversities()}
	c := NewCatalog(source, rdb, time.Hour)

	got, err := c.Universities(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Zero(t, source.calls)
}

func TestCatalog_CorruptSnapshotFallsBackToSource(t *testing.T) {
	rdb, mr := setupRedis(t)
	require.NoError(t, mr.Set(catalogSnapshotKey, "not json"))

	source := &fakeSource{universities: sampleUniversities()}
	c := NewCatalog(source, rdb, time.Hour)

	got, err := c.Universities(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, source.calls)
}

func TestCatalog_RedisDownStillLoads(t *testing.T) {
	rdb, mr := setupRedis(t)
	mr.Close()

	c := NewCatalog(&fakeSource{universities: sampleUniversities()}, rdb, time.Hour)
	got, err := c.Universities(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalog_Invalidate(t *testing.T) {
	rdb, mr := setupRedis(t)
	source := &fakeSource{universities: sampleUniversities()}
	c := NewCatalog(source, rdb, time.Hour)

	_, err := c.Universities(context.Background())
	require.NoError(t, err)

	c.Invalidate(context.Background())
	assert.False(t, mr.Exists(catalogSnapshotKey))

	_, err = c.Universities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestDBCatalogSource(t *testing.T) {
	store := &fakeUniversityStore{universities: sampleUniversities()}

	got, err := NewDBCatalogSource(store).FetchUniversities(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalog_FindBeyondScanCap(t *testing.T) {
	universities := make([]models.University, 600)
	for i := range universities {
		universities[i] = sampleUniversities()[0]
		universities[i].ID = fmt.Sprintf("uni-%03d", i)
	}
	profiles := newFakeProfileStore()
	profiles.profiles[testStudentID] = studentProfile()

	catalog := NewCatalog(NewDBCatalogSource(&fakeUniversityStore{universities: universities}), nil, 0)
	s := NewRecommendationService(profiles, catalog, &fakeNotifier{}, 25)

	m, err := s.MatchUniversity(context.Background(), testStudentID, "uni-599")
	require.NoError(t, err)
	assert.Equal(t, "uni-599", m.University.ID)

	recs, err := s.GenerateRecommendations(context.Background(), testStudentID)
	require.NoError(t, err)
	assert.Equal(t, 25, recs.TotalEvaluated)
}
