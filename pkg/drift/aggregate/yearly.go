package aggregate

import (
	"iter"
	"sort"

	"github.com/cognicore/drift/pkg/drift/review"
)

// WordYearStat holds aggregate usage and rating statistics for one word
// within one calendar year. Every word present in a Yearly result has at
// least the configured minimum number of qualifying years.
type WordYearStat struct {
	Word           string
	Year           int
	N              int64
	AvgRating      review.NullFloat
	AvgRecommended review.NullFloat
}

type wordYear struct {
	word string
	year int
}

// Yearly groups tokens by (word, year) and applies two sequential filters:
// first it drops pairs with n <= minYearCount, then it drops every row of
// any word left with fewer than minYears distinct years. The second filter
// runs on the already-filtered rows; a word with a large total count still
// fails to qualify when its usage clusters in too few years. Tokens without
// a derivable year cannot join a year group and are skipped here (they
// still count in Global).
//
// Output is sorted by word then year.
func Yearly(tokens iter.Seq[review.Token], minYearCount int64, minYears int) []WordYearStat {
	groups := make(map[wordYear]*groupAcc)
	for tok := range tokens {
		if !tok.Year.Valid {
			continue
		}
		key := wordYear{word: tok.Word, year: tok.Year.Int}
		g := groups[key]
		if g == nil {
			g = &groupAcc{}
			groups[key] = g
		}
		g.add(tok)
	}

	// Pass 1: per-(word, year) count floor.
	rows := make([]WordYearStat, 0, len(groups))
	for key, g := range groups {
		if g.count <= minYearCount {
			continue
		}
		rows = append(rows, WordYearStat{
			Word:           key.word,
			Year:           key.year,
			N:              g.count,
			AvgRating:      g.rating.mean(),
			AvgRecommended: g.recommended.mean(),
		})
	}

	// Pass 2: sustained-usage floor, computed on the surviving rows only.
	yearsPerWord := make(map[string]int)
	for _, row := range rows {
		yearsPerWord[row.Word]++
	}
	kept := rows[:0]
	for _, row := range rows {
		if yearsPerWord[row.Word] < minYears {
			continue
		}
		kept = append(kept, row)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Word != kept[j].Word {
			return kept[i].Word < kept[j].Word
		}
		return kept[i].Year < kept[j].Year
	})
	return kept
}

// ObservedYears returns the distinct years present in the token stream, in
// ascending order. The span drives the default sustained-usage floor and
// the vacuous-filter configuration check.
func ObservedYears(tokens iter.Seq[review.Token]) []int {
	seen := make(map[int]struct{})
	for tok := range tokens {
		if tok.Year.Valid {
			seen[tok.Year.Int] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
