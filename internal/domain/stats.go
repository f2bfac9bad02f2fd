package domain

import (
	"context"
	"time"
)

// Hit is one recorded access to a URI. It is both the collector's stored
// record and the wire payload of POST /hit.
type Hit struct {
	App       string   `json:"app"`
	URI       string   `json:"uri"`
	IP        string   `json:"ip"`
	Timestamp DateTime `json:"timestamp"`
}

// URIStats is an aggregate view count for one URI of one app.
// swagger:model URIStats
type URIStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsFilter bounds a stats aggregation. Unique counts distinct IPs
// instead of raw hits; an empty URIs slice covers all URIs.
type StatsFilter struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

// HitRepository defines the collector's storage operations. Apps are kept
// in their own table, find-or-create by name.
type HitRepository interface {
	Create(ctx context.Context, hit *Hit) error
	Aggregate(ctx context.Context, f StatsFilter) ([]URIStats, error)
}

// StatsService is the collector's business logic.
type StatsService interface {
	RecordHit(ctx context.Context, hit Hit) error
	GetStats(ctx context.Context, f StatsFilter) ([]URIStats, error)
}

// StatsClient is the main service's view of the collector. Failures are
// tolerated by callers: view counts degrade to zero and hit recording is
// fire-and-forget.
type StatsClient interface {
	RecordHit(ctx context.Context, hit Hit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]URIStats, error)
}
