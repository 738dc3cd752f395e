package store

import (
	"context"
	"time"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
)

// Store persists the four pipeline tables. Each Save fully replaces its
// table (a stage owns its output and rewrites it wholesale on every run),
// and each table loads back independently, so a later run can resume from
// any stage without re-tokenizing.
type Store interface {
	Close() error

	SaveTokens(ctx context.Context, tokens []review.Token) error
	LoadTokens(ctx context.Context) ([]review.Token, error)

	SaveWordStats(ctx context.Context, stats []aggregate.WordStat) error
	LoadWordStats(ctx context.Context) ([]aggregate.WordStat, error)

	SaveWordYearStats(ctx context.Context, stats []aggregate.WordYearStat) error
	LoadWordYearStats(ctx context.Context) ([]aggregate.WordYearStat, error)

	SaveTrendFits(ctx context.Context, fits []regress.TrendFit) error
	LoadTrendFits(ctx context.Context) ([]regress.TrendFit, error)
}

// Run is pipeline run metadata, recorded by stores that support history.
type Run struct {
	ID               string // ULID
	StartedAt        time.Time
	Records          int // deduplicated records entering the pipeline
	MalformedRecords int // records missing a derivable year or numeric rating
}
