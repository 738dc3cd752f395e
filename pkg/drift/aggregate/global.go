package aggregate

import (
	"iter"
	"sort"

	"github.com/cognicore/drift/pkg/drift/review"
)

// WordStat holds aggregate usage and rating statistics for one word across
// the whole corpus.
type WordStat struct {
	Word           string
	N              int64
	AvgRating      review.NullFloat
	AvgRecommended review.NullFloat
}

// Global groups tokens by word and keeps words with strictly more than
// minCount occurrences. A minCount of 0 keeps everything, which preserves
// the conservation law: the sum of N over all words equals the number of
// tokens in the stream.
//
// Output is sorted by descending count, ties by word, so repeated runs over
// the same corpus produce identical output.
func Global(tokens iter.Seq[review.Token], minCount int64) []WordStat {
	groups := make(map[string]*groupAcc)
	for tok := range tokens {
		g := groups[tok.Word]
		if g == nil {
			g = &groupAcc{}
			groups[tok.Word] = g
		}
		g.add(tok)
	}

	stats := make([]WordStat, 0, len(groups))
	for word, g := range groups {
		if g.count <= minCount {
			continue
		}
		stats = append(stats, WordStat{
			Word:           word,
			N:              g.count,
			AvgRating:      g.rating.mean(),
			AvgRecommended: g.recommended.mean(),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].N != stats[j].N {
			return stats[i].N > stats[j].N
		}
		return stats[i].Word < stats[j].Word
	})
	return stats
}
