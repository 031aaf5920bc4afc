package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"college/internal/database"
	"college/internal/database/dbtest"
	"college/internal/metrics"
	"college/internal/models"
)

type fakeDeduper struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
	err      error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{keys: make(map[string]bool)}
}

func (f *fakeDeduper) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeDeduper) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	f.released = append(f.released, key)
	return nil
}

func countVisits(t *testing.T, db *database.DB) int64 {
	t.Helper()
	n, err := db.CountVisits(context.Background())
	require.NoError(t, err)
	return n
}

func TestTracker_DeduplicatesPerDay(t *testing.T) {
	db := dbtest.New(t)
	m := metrics.New(prometheus.NewRegistry())
	tracker := NewTracker(db, nil, m, zap.NewNop())
	ctx := context.Background()

	day1 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tracker.Record(ctx, models.PageHome, "10.0.0.1", "Mozilla/5.0", day1)
	tracker.Record(ctx, models.PageHome, "10.0.0.1", "Mozilla/5.0", day1.Add(5*time.Hour))
	assert.Equal(t, int64(1), countVisits(t, db))

	tracker.Record(ctx, models.PageHome, "10.0.0.1", "Mozilla/5.0", day1.Add(24*time.Hour))
	assert.Equal(t, int64(2), countVisits(t, db))

	tracker.Record(ctx, models.PageLibrary, "10.0.0.1", "Mozilla/5.0", day1)
	tracker.Record(ctx, models.PageHome, "10.0.0.2", "Mozilla/5.0", day1)
	assert.Equal(t, int64(4), countVisits(t, db))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.VisitsRecorded.WithLabelValues("home")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisitsDeduplicated.WithLabelValues("home")))
}

func TestTracker_TruncatesUserAgent(t *testing.T) {
	db := dbtest.New(t)
	tracker := NewTracker(db, nil, nil, zap.NewNop())

	ua := strings.Repeat("ä", MaxUserAgentLength+40)
	tracker.Record(context.Background(), models.PageAbout, "10.0.0.9", ua, time.Now())

	var visit models.VisitEvent
	require.NoError(t, db.First(&visit).Error)
	assert.Equal(t, MaxUserAgentLength, len([]rune(visit.UserAgent)))
	assert.Equal(t, DateKey(visit.Timestamp), visit.DateKey)
}

func TestTracker_DedupCacheShortCircuits(t *testing.T) {
	db := dbtest.New(t)
	dedup := newFakeDeduper()
	tracker := NewTracker(db, dedup, nil, zap.NewNop())
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tracker.Record(ctx, models.PageGallery, "10.0.0.1", "ua", now)
	assert.True(t, dedup.keys["visit:2024-03-15:gallery:10.0.0.1"])

	// Remove the stored row: a second call must not reach the store.
	require.NoError(t, db.Where("1 = 1").Delete(&models.VisitEvent{}).Error)
	tracker.Record(ctx, models.PageGallery, "10.0.0.1", "ua", now)
	assert.Equal(t, int64(0), countVisits(t, db))
}

func TestTracker_CacheErrorFallsThroughToStore(t *testing.T) {
	db := dbtest.New(t)
	dedup := newFakeDeduper()
	dedup.err = errors.New("connection refused")
	tracker := NewTracker(db, dedup, nil, zap.NewNop())
	now := time.Now()

	tracker.Record(context.Background(), models.PageNotices, "10.0.0.1", "ua", now)
	tracker.Record(context.Background(), models.PageNotices, "10.0.0.1", "ua", now)
	assert.Equal(t, int64(1), countVisits(t, db))
}

func TestTracker_SwallowsStoreErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "visit_events"`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	dedup := newFakeDeduper()
	tracker := NewTracker(database.Wrap(gdb, database.DriverPostgres), dedup, nil, zap.NewNop())

	assert.NotPanics(t, func() {
		tracker.Record(context.Background(), models.PageResults, "10.0.0.1", "ua", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	})

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"visit:2024-03-15:results:10.0.0.1"}, dedup.released)
}

func seedVisits(t *testing.T, db *database.DB, now time.Time) {
	t.Helper()
	events := []struct {
		ip   string
		page models.Page
		at   time.Time
	}{
		{"A", models.PageHome, now.Add(-time.Hour)},
		{"B", models.PageHome, now.Add(-2 * time.Hour)},
		{"A", models.PageAbout, now.Add(-3 * time.Hour)},
		{"A", models.PageHome, now.Add(-24 * time.Hour)},
		{"C", models.PageLibrary, now.Add(-10 * 24 * time.Hour)},
		{"D", models.PageHome, now.Add(-40 * 24 * time.Hour)},
	}
	for _, e := range events {
		require.NoError(t, db.Create(&models.VisitEvent{
			IP:        e.ip,
			Page:      e.page,
			Timestamp: e.at,
			DateKey:   DateKey(e.at),
		}).Error)
	}
}

func TestAggregator_Rollups(t *testing.T) {
	db := dbtest.New(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	seedVisits(t, db, now)

	agg := NewAggregator(db)
	ctx := context.Background()

	summary, err := agg.Summary(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.Today)
	assert.Equal(t, int64(1), summary.Yesterday)
	assert.Equal(t, int64(4), summary.ThisWeek)
	assert.Equal(t, int64(5), summary.ThisMonth)
	assert.Equal(t, int64(6), summary.Total)
	assert.Equal(t, int64(2), summary.UniqueToday)
	assert.Equal(t, int64(4), summary.UniqueAllTime)

	assert.Equal(t, []models.PageCount{
		{Page: models.PageHome, Count: 4},
		{Page: models.PageAbout, Count: 1},
		{Page: models.PageLibrary, Count: 1},
	}, summary.ByPage)

	yesterday := "2024-03-14"
	unique, err := agg.UniqueVisitors(ctx, &yesterday)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unique)
}

func TestAggregator_DailySeries(t *testing.T) {
	db := dbtest.New(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	seedVisits(t, db, now)
	agg := NewAggregator(db)
	ctx := context.Background()

	series, err := agg.DailySeries(ctx, now, 7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, "2024-03-09", series[0].Date)
	assert.Equal(t, "2024-03-15", series[6].Date)
	assert.Equal(t, "Mar 15", series[6].Label)
	assert.Equal(t, int64(3), series[6].Count)
	assert.Equal(t, int64(1), series[5].Count)
	for i, day := range series {
		assert.GreaterOrEqual(t, day.Count, int64(0))
		if i > 0 {
			assert.Less(t, series[i-1].Date, day.Date)
		}
	}

	empty, err := agg.DailySeries(ctx, now, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	capped, err := agg.DailySeries(ctx, now, 1000)
	require.NoError(t, err)
	assert.Len(t, capped, MaxSeriesDays)
}

func TestAggregator_EmptyStore(t *testing.T) {
	db := dbtest.New(t)
	series, err := NewAggregator(db).DailySeries(context.Background(), time.Now(), 7)
	require.NoError(t, err)
	require.Len(t, series, 7)
	assert.Equal(t, DateKey(time.Now()), series[6].Date)
}
