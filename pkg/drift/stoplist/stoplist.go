package stoplist

import (
	"strings"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/regress"
)

// Manager is the membership test for common words. Stopwords are excluded
// from presentation views only, never from the aggregated statistics, so
// the raw tables stay reusable under a different stoplist.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a manager from an initial word list.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a word is a stopword.
func (m *Manager) IsStop(word string) bool {
	_, ok := m.stops[strings.ToLower(word)]
	return ok
}

// Add adds a word to the stoplist.
func (m *Manager) Add(word string) {
	m.stops[strings.ToLower(word)] = struct{}{}
}

// Remove removes a word from the stoplist.
func (m *Manager) Remove(word string) {
	delete(m.stops, strings.ToLower(word))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int { return len(m.stops) }

// FilterWordStats anti-joins stopwords out of a presentation view of
// global word statistics, preserving order.
func (m *Manager) FilterWordStats(stats []aggregate.WordStat) []aggregate.WordStat {
	out := make([]aggregate.WordStat, 0, len(stats))
	for _, s := range stats {
		if m.IsStop(s.Word) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FilterFits anti-joins stopwords out of a ranked trend view, preserving
// order.
func (m *Manager) FilterFits(fits []regress.TrendFit) []regress.TrendFit {
	out := make([]regress.TrendFit, 0, len(fits))
	for _, f := range fits {
		if m.IsStop(f.Word) {
			continue
		}
		out = append(out, f)
	}
	return out
}
