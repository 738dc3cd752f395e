package tabfile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/internalerr"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
)

func TestTokensRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tokens := []review.Token{
		{Word: "glow", Rating: review.Float(4.5), Recommended: review.Bool(true), Year: review.Int(2015)},
		{Word: "dry", Rating: review.Float(1.0 / 3.0), Recommended: review.Bool(false), Year: review.Int(2016)},
		{Word: "ghost"}, // every optional field absent
	}

	if err := d.SaveTokens(ctx, tokens); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}
	got, err := d.LoadTokens(ctx)
	if err != nil {
		t.Fatalf("LoadTokens: %v", err)
	}
	if !reflect.DeepEqual(got, tokens) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, tokens)
	}
}

func TestWordStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	stats := []aggregate.WordStat{
		{Word: "glow", N: 321, AvgRating: review.Float(4.2571428571428571), AvgRecommended: review.Float(0.9)},
		{Word: "ghost", N: 7}, // absent means stay absent
	}

	if err := d.SaveWordStats(ctx, stats); err != nil {
		t.Fatalf("SaveWordStats: %v", err)
	}
	got, err := d.LoadWordStats(ctx)
	if err != nil {
		t.Fatalf("LoadWordStats: %v", err)
	}
	if !reflect.DeepEqual(got, stats) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, stats)
	}
}

func TestWordYearStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	stats := []aggregate.WordYearStat{
		{Word: "glow", Year: 2015, N: 42, AvgRating: review.Float(4.25), AvgRecommended: review.Float(0.75)},
		{Word: "glow", Year: 2016, N: 51, AvgRating: review.Float(4.5)},
	}

	if err := d.SaveWordYearStats(ctx, stats); err != nil {
		t.Fatalf("SaveWordYearStats: %v", err)
	}
	got, err := d.LoadWordYearStats(ctx)
	if err != nil {
		t.Fatalf("LoadWordYearStats: %v", err)
	}
	if !reflect.DeepEqual(got, stats) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, stats)
	}
}

func TestTrendFitsRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	fits := []regress.TrendFit{
		{Word: "glow", Slope: 0.19999999999999998, Intercept: -399.0, PValue: 3.1e-9, Years: 10},
		{Word: "dry", Slope: -0.07, Intercept: 144.2, PValue: 0.72, Years: 8},
	}

	if err := d.SaveTrendFits(ctx, fits); err != nil {
		t.Fatalf("SaveTrendFits: %v", err)
	}
	got, err := d.LoadTrendFits(ctx)
	if err != nil {
		t.Fatalf("LoadTrendFits: %v", err)
	}
	if !reflect.DeepEqual(got, fits) {
		t.Errorf("floats must round trip to identical bits:\ngot  %+v\nwant %+v", got, fits)
	}
}

func TestSaveReplacesTable(t *testing.T) {
	ctx := context.Background()
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := d.SaveTrendFits(ctx, []regress.TrendFit{{Word: "old", Years: 2}}); err != nil {
		t.Fatalf("SaveTrendFits: %v", err)
	}
	if err := d.SaveTrendFits(ctx, []regress.TrendFit{{Word: "new", Years: 3}}); err != nil {
		t.Fatalf("SaveTrendFits again: %v", err)
	}

	got, err := d.LoadTrendFits(ctx)
	if err != nil {
		t.Fatalf("LoadTrendFits: %v", err)
	}
	if len(got) != 1 || got[0].Word != "new" {
		t.Errorf("second save must fully replace the table, got %+v", got)
	}
}

func TestLoadMissingTable(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := d.LoadTokens(context.Background()); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("loading a never-written table must fail with ErrNotFound, got %v", err)
	}
}
