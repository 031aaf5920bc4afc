package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college/internal/database"
	"college/internal/metrics"
	"college/internal/models"
)

const (
	// MaxUserAgentLength caps the stored user agent, in runes.
	MaxUserAgentLength = 256

	// MaxSeriesDays bounds DailySeries.
	MaxSeriesDays = 366

	dateKeyLayout = "2006-01-02"
	labelLayout   = "Jan 02"
	dedupTTL      = 48 * time.Hour
)

// DateKey returns the UTC calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// VisitDeduper is a fast-path set of (day, page, ip) keys already counted.
type VisitDeduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Tracker records page visits, at most one per IP, page and UTC day.
type Tracker struct {
	db      *database.DB
	dedup   VisitDeduper
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTracker creates a visit tracker. dedup and m may be nil.
func NewTracker(db *database.DB, dedup VisitDeduper, m *metrics.Metrics, logger *zap.Logger) *Tracker {
	return &Tracker{
		db:      db,
		dedup:   dedup,
		metrics: m,
		logger:  logger,
	}
}

// Record stores a visit unless the same IP already visited page on the same UTC day.
// Failures are logged and never returned; tracking must not affect the page response.
func (t *Tracker) Record(ctx context.Context, page models.Page, ip, userAgent string, now time.Time) {
	dateKey := DateKey(now)
	log := t.logger.With(zap.String("page", string(page)), zap.String("ip", ip), zap.String("date", dateKey))

	cacheKey := fmt.Sprintf("visit:%s:%s:%s", dateKey, page, ip)
	claimed := false
	if t.dedup != nil {
		ok, err := t.dedup.Claim(ctx, cacheKey, dedupTTL)
		switch {
		case err != nil:
			log.Debug("visit dedup cache unavailable", zap.Error(err))
		case !ok:
			t.countDeduplicated(page)
			return
		default:
			claimed = true
		}
	}

	inserted := false
	err := t.db.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := database.FindVisit(tx, ip, page, dateKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return err
		}

		visit := &models.VisitEvent{
			IP:        ip,
			Page:      page,
			UserAgent: truncateRunes(userAgent, MaxUserAgentLength),
			Timestamp: now.UTC(),
			DateKey:   dateKey,
		}
		if err := database.InsertVisit(tx, visit); err != nil {
			return err
		}
		inserted = true
		return nil
	})

	if err != nil {
		log.Warn("failed to record visit", zap.Error(err))
		if claimed {
			if rerr := t.dedup.Release(ctx, cacheKey); rerr != nil {
				log.Debug("failed to release visit dedup key", zap.Error(rerr))
			}
		}
		return
	}

	if inserted {
		if t.metrics != nil {
			t.metrics.VisitsRecorded.WithLabelValues(string(page)).Inc()
		}
	} else {
		t.countDeduplicated(page)
	}
}

func (t *Tracker) countDeduplicated(page models.Page) {
	if t.metrics != nil {
		t.metrics.VisitsDeduplicated.WithLabelValues(string(page)).Inc()
	}
}

// Aggregator computes read-only visitor rollups on demand.
type Aggregator struct {
	db *database.DB
}

// NewAggregator creates a new aggregator.
func NewAggregator(db *database.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Today counts visits recorded on the UTC day of now.
func (a *Aggregator) Today(ctx context.Context, now time.Time) (int64, error) {
	return a.db.CountVisitsOnDate(ctx, DateKey(now))
}

// Yesterday counts visits recorded on the UTC day before now.
func (a *Aggregator) Yesterday(ctx context.Context, now time.Time) (int64, error) {
	return a.db.CountVisitsOnDate(ctx, DateKey(startOfDay(now).AddDate(0, 0, -1)))
}

// ThisWeek counts visits in the sliding seven days before now.
func (a *Aggregator) ThisWeek(ctx context.Context, now time.Time) (int64, error) {
	return a.db.CountVisitsSince(ctx, now.UTC().Add(-7*24*time.Hour))
}

// ThisMonth counts visits in the sliding thirty days before now.
func (a *Aggregator) ThisMonth(ctx context.Context, now time.Time) (int64, error) {
	return a.db.CountVisitsSince(ctx, now.UTC().Add(-30*24*time.Hour))
}

// DailySeries returns one entry per day for the last days days, oldest first and ending today.
// Days without visits have a zero count.
func (a *Aggregator) DailySeries(ctx context.Context, now time.Time, days int) ([]models.DailyCount, error) {
	if days <= 0 {
		return []models.DailyCount{}, nil
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}

	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	counts, err := a.db.CountVisitsByDate(ctx, DateKey(first))
	if err != nil {
		return nil, err
	}

	series := make([]models.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		key := DateKey(day)
		series = append(series, models.DailyCount{
			Date:  key,
			Label: day.Format(labelLayout),
			Count: counts[key],
		})
	}
	return series, nil
}

// UniqueVisitors counts distinct IPs, optionally restricted to one date key.
func (a *Aggregator) UniqueVisitors(ctx context.Context, day *string) (int64, error) {
	return a.db.CountUniqueIPs(ctx, day)
}

// ByPage returns visit counts per page, highest first. Ties are ordered by page name.
func (a *Aggregator) ByPage(ctx context.Context) ([]models.PageCount, error) {
	counts, err := a.db.CountVisitsByPage(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(counts, func(x, y models.PageCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Page, y.Page)
	})
	return counts, nil
}

// Summary bundles every rollup shown on the analytics page, with a seven day series.
func (a *Aggregator) Summary(ctx context.Context, now time.Time) (*models.VisitorSummary, error) {
	var (
		s   models.VisitorSummary
		err error
	)

	if s.Today, err = a.Today(ctx, now); err != nil {
		return nil, err
	}
	if s.Yesterday, err = a.Yesterday(ctx, now); err != nil {
		return nil, err
	}
	if s.ThisWeek, err = a.ThisWeek(ctx, now); err != nil {
		return nil, err
	}
	if s.ThisMonth, err = a.ThisMonth(ctx, now); err != nil {
		return nil, err
	}
	if s.Total, err = a.db.CountVisits(ctx); err != nil {
		return nil, err
	}

	today := DateKey(now)
	if s.UniqueToday, err = a.UniqueVisitors(ctx, &today); err != nil {
		return nil, err
	}
	if s.UniqueAllTime, err = a.UniqueVisitors(ctx, nil); err != nil {
		return nil, err
	}
	if s.Daily, err = a.DailySeries(ctx, now, 7); err != nil {
		return nil, err
	}
	if s.ByPage, err = a.ByPage(ctx); err != nil {
		return nil, err
	}

	return &s, nil
}
