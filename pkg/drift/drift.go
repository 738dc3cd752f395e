// Package drift turns a corpus of product reviews into a ranked list of
// words whose associated rating has moved significantly over time.
//
// The pipeline is a batch transformation: records are tokenized, token
// usage and rating statistics are aggregated globally and per year, a
// linear trend of mean rating over year is fitted per word, and fits are
// selected by significance and effect size. Every stage is a pure function
// over an immutable snapshot of the previous stage's output.
package drift

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/config"
	"github.com/cognicore/drift/pkg/drift/ingest"
	"github.com/cognicore/drift/pkg/drift/internalerr"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
	"github.com/cognicore/drift/pkg/drift/trend"
)

// Pipeline is the aggregation-and-trend-detection engine.
type Pipeline struct {
	cfg     config.Config
	tok     *ingest.Tokenizer
	entropy *ulid.MonotonicEntropy
}

// New creates a pipeline with the given configuration.
func New(cfg config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		tok:     ingest.NewTokenizer(),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Result is one run's full output: the four tables plus run metadata.
type Result struct {
	RunID     string
	StartedAt time.Time

	Tokens        []review.Token
	WordStats     []aggregate.WordStat
	WordYearStats []aggregate.WordYearStat
	Fits          []regress.TrendFit

	// Broad and Strict are the configured selection views over Fits,
	// ordered by descending |slope|.
	Broad  []regress.TrendFit
	Strict []regress.TrendFit

	// Records is the deduplicated record count entering the pipeline.
	Records int

	// MalformedRecords counts records missing a derivable year or a
	// numeric rating. They still contribute to count-only statistics.
	MalformedRecords int

	// Underdetermined lists words skipped by the fitter for having fewer
	// than two ratable year-points.
	Underdetermined []string

	// MinYears is the resolved sustained-usage floor (auto-derived when
	// the configuration left it at zero).
	MinYears int

	// ObservedYears is the distinct years seen in the corpus, ascending.
	ObservedYears []int
}

// Run executes the full pipeline over the given records. Records are
// deduplicated by full-record equality first. The only fatal condition is
// configuration that would make a filter vacuous; malformed records and
// underdetermined words degrade to counts on the Result.
func (p *Pipeline) Run(ctx context.Context, records []review.Record) (Result, error) {
	res := Result{
		RunID:     ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String(),
		StartedAt: time.Now(),
	}

	records = review.Dedup(records)
	res.Records = len(records)
	for _, r := range records {
		if r.Malformed() {
			res.MalformedRecords++
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tokens := p.tok.Stream(records)

	// Cheap span pass first: the years-present floor depends on the
	// observed span, and a vacuous configuration must fail before any
	// aggregation work.
	res.ObservedYears = aggregate.ObservedYears(tokens)
	minYears, err := p.resolveMinYears(len(res.ObservedYears))
	if err != nil {
		return Result{}, err
	}
	res.MinYears = minYears

	for tok := range tokens {
		res.Tokens = append(res.Tokens, tok)
	}

	res.WordStats = aggregate.Global(tokens, p.cfg.MinGlobalCount)
	res.WordYearStats = aggregate.Yearly(tokens, p.cfg.MinYearCount, minYears)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	fitter := regress.Fitter{Weighted: p.cfg.WeightedFit, Workers: p.cfg.Workers}
	fitRes := fitter.FitAll(res.WordYearStats)
	res.Fits = fitRes.Fits
	res.Underdetermined = fitRes.Underdetermined

	res.Broad = trend.Select(res.Fits, p.cfg.BroadProfile())
	res.Strict = trend.Select(res.Fits, p.cfg.StrictProfile())
	return res, nil
}

// resolveMinYears turns the configured years-present floor into a concrete
// value: zero auto-derives half the observed span (rounded up), and a
// configured floor larger than the span is rejected because every word
// would be filtered out.
func (p *Pipeline) resolveMinYears(observed int) (int, error) {
	if p.cfg.MinYearsPresent == 0 {
		return (observed + 1) / 2, nil
	}
	if observed > 0 && p.cfg.MinYearsPresent > observed {
		return 0, fmt.Errorf("%w: min_years_present %d exceeds the %d observed years, every word would be dropped",
			internalerr.ErrInvalidConfig, p.cfg.MinYearsPresent, observed)
	}
	return p.cfg.MinYearsPresent, nil
}
