package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/domain"
)

// fakeHitRepo stores hits and aggregates them in memory.
type fakeHitRepo struct {
	hits []*domain.Hit
}

func (f *fakeHitRepo) Create(ctx context.Context, hit *domain.Hit) error {
	f.hits = append(f.hits, hit)
	return nil
}

func (f *fakeHitRepo) Aggregate(ctx context.Context, filter domain.StatsFilter) ([]domain.URIStats, error) {
	counts := make(map[string]int64)
	seen := make(map[string]map[string]struct{})
	for _, h := range f.hits {
		ts := h.Timestamp.Time
		if ts.Before(filter.Start) || ts.After(filter.End) {
			continue
		}
		if filter.Unique {
			if seen[h.URI] == nil {
				seen[h.URI] = make(map[string]struct{})
			}
			if _, dup := seen[h.URI][h.IP]; dup {
				continue
			}
			seen[h.URI][h.IP] = struct{}{}
		}
		counts[h.URI]++
	}
	var out []domain.URIStats
	for uri, n := range counts {
		out = append(out, domain.URIStats{App: "eventboard", URI: uri, Hits: n})
	}
	return out, nil
}

func TestStatsService_RecordHit(t *testing.T) {
	ctx := context.Background()
	repo := &fakeHitRepo{}
	svc := NewStatsService(repo, time.Second)

	hit := domain.Hit{
		App:       "eventboard",
		URI:       "/events/1",
		IP:        "192.168.0.1",
		Timestamp: domain.NewDateTime(time.Now()),
	}
	require.NoError(t, svc.RecordHit(ctx, hit))
	require.Len(t, repo.hits, 1)

	for _, broken := range []domain.Hit{
		{URI: "/events/1", IP: "1.2.3.4", Timestamp: hit.Timestamp},
		{App: "eventboard", IP: "1.2.3.4", Timestamp: hit.Timestamp},
		{App: "eventboard", URI: "/events/1", Timestamp: hit.Timestamp},
		{App: "eventboard", URI: "/events/1", IP: "1.2.3.4"},
	} {
		assert.ErrorIs(t, svc.RecordHit(ctx, broken), domain.ErrInvalidInput)
	}
}

func TestStatsService_GetStats(t *testing.T) {
	ctx := context.Background()
	repo := &fakeHitRepo{}
	svc := NewStatsService(repo, time.Second)

	now := time.Now()
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		require.NoError(t, svc.RecordHit(ctx, domain.Hit{
			App:       "eventboard",
			URI:       "/events/1",
			IP:        ip,
			Timestamp: domain.NewDateTime(now),
		}))
	}

	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	stats, err := svc.GetStats(ctx, domain.StatsFilter{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(3), stats[0].Hits)

	stats, err = svc.GetStats(ctx, domain.StatsFilter{Start: start, End: end, Unique: true})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(2), stats[0].Hits)

	_, err = svc.GetStats(ctx, domain.StatsFilter{Start: end, End: start})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetStats(ctx, domain.StatsFilter{End: end})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
