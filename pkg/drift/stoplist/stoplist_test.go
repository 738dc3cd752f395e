package stoplist

import (
	"testing"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/regress"
)

func TestManagerMembership(t *testing.T) {
	m := NewManager([]string{"The", "and"})

	if !m.IsStop("the") || !m.IsStop("THE") || !m.IsStop("and") {
		t.Error("membership must be case-insensitive")
	}
	if m.IsStop("glow") {
		t.Error("glow is not a stopword")
	}

	m.Add("Very")
	if !m.IsStop("very") {
		t.Error("added word must be a stopword")
	}
	m.Remove("the")
	if m.IsStop("the") {
		t.Error("removed word must not be a stopword")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestFilterWordStats(t *testing.T) {
	m := NewManager([]string{"the"})
	stats := []aggregate.WordStat{
		{Word: "the", N: 500},
		{Word: "glow", N: 200},
	}

	out := m.FilterWordStats(stats)
	if len(out) != 1 || out[0].Word != "glow" {
		t.Errorf("FilterWordStats = %+v", out)
	}
	// The raw statistics are untouched: removal is a display concern.
	if len(stats) != 2 {
		t.Error("input slice must not be mutated")
	}
}

func TestFilterFits(t *testing.T) {
	m := NewManager([]string{"and"})
	fits := []regress.TrendFit{
		{Word: "and", Slope: 0.9},
		{Word: "dewy", Slope: 0.3},
	}

	out := m.FilterFits(fits)
	if len(out) != 1 || out[0].Word != "dewy" {
		t.Errorf("FilterFits = %+v", out)
	}
}
