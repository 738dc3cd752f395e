package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
	"github.com/cognicore/drift/pkg/drift/store"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "drift.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestTokensRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	tokens := []review.Token{
		{Word: "glow", Rating: review.Float(4.5), Recommended: review.Bool(true), Year: review.Int(2015)},
		{Word: "ghost"},
	}
	if err := st.SaveTokens(ctx, tokens); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}

	got, err := st.LoadTokens(ctx)
	if err != nil {
		t.Fatalf("LoadTokens: %v", err)
	}
	if !reflect.DeepEqual(got, tokens) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, tokens)
	}
}

func TestWordStatsRoundTripAndReplace(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	first := []aggregate.WordStat{
		{Word: "glow", N: 300, AvgRating: review.Float(4.25), AvgRecommended: review.Float(0.9)},
		{Word: "ghost", N: 200},
	}
	if err := st.SaveWordStats(ctx, first); err != nil {
		t.Fatalf("SaveWordStats: %v", err)
	}
	got, err := st.LoadWordStats(ctx)
	if err != nil {
		t.Fatalf("LoadWordStats: %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, first)
	}

	second := []aggregate.WordStat{{Word: "dewy", N: 180, AvgRating: review.Float(3.5)}}
	if err := st.SaveWordStats(ctx, second); err != nil {
		t.Fatalf("SaveWordStats replace: %v", err)
	}
	got, err = st.LoadWordStats(ctx)
	if err != nil {
		t.Fatalf("LoadWordStats: %v", err)
	}
	if len(got) != 1 || got[0].Word != "dewy" {
		t.Errorf("save must replace the table, got %+v", got)
	}
}

func TestWordYearStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	stats := []aggregate.WordYearStat{
		{Word: "glow", Year: 2015, N: 42, AvgRating: review.Float(4.25), AvgRecommended: review.Float(0.75)},
		{Word: "glow", Year: 2016, N: 51, AvgRating: review.Float(4.5)},
	}
	if err := st.SaveWordYearStats(ctx, stats); err != nil {
		t.Fatalf("SaveWordYearStats: %v", err)
	}
	got, err := st.LoadWordYearStats(ctx)
	if err != nil {
		t.Fatalf("LoadWordYearStats: %v", err)
	}
	if !reflect.DeepEqual(got, stats) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, stats)
	}
}

func TestTrendFitsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	fits := []regress.TrendFit{
		{Word: "dry", Slope: -0.07, Intercept: 144.2, PValue: 0.72, Years: 8},
		{Word: "glow", Slope: 0.2, Intercept: -399.0, PValue: 3.1e-9, Years: 10},
	}
	if err := st.SaveTrendFits(ctx, fits); err != nil {
		t.Fatalf("SaveTrendFits: %v", err)
	}
	got, err := st.LoadTrendFits(ctx)
	if err != nil {
		t.Fatalf("LoadTrendFits: %v", err)
	}
	if !reflect.DeepEqual(got, fits) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, fits)
	}
}

func TestRecordRunAndLastRun(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	if _, found, err := st.LastRun(ctx); err != nil || found {
		t.Fatalf("LastRun on empty store: found=%v err=%v", found, err)
	}

	run := store.Run{
		ID:               "01J8ZB4XN4T4V4Y8B7Q2M3R9KD",
		StartedAt:        time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Records:          1000,
		MalformedRecords: 3,
	}
	if err := st.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, found, err := st.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if !found {
		t.Fatal("recorded run must be found")
	}
	if got != run {
		t.Errorf("LastRun = %+v, want %+v", got, run)
	}
}
