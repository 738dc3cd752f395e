package regress

import (
	"runtime"
	"sort"
	"sync"

	"github.com/cognicore/drift/pkg/drift/aggregate"
)

// Fitter fits one regression per word over its yearly statistics.
type Fitter struct {
	// Weighted switches to count-weighted OLS, where each year's point is
	// weighted by its token count. The default (false) replicates the
	// unweighted baseline: every qualifying year counts equally regardless
	// of how many tokens it holds.
	Weighted bool

	// Workers bounds the fitting worker pool. Zero means one worker per CPU.
	// Words are independent, so fits run concurrently and merge by sorting.
	Workers int
}

// Result holds the fits plus the words the fitter had to skip.
type Result struct {
	Fits []TrendFit

	// Underdetermined lists words that reached the fitter with fewer than
	// two ratable year-points. Upstream filtering normally prevents this;
	// when it happens the word is skipped and reported, never a crash.
	Underdetermined []string
}

type wordGroup struct {
	word    string
	points  []Point
	weights []float64
}

// FitAll regresses mean rating on year for every word in rows. Rows without
// a present mean rating contribute no point (a year whose group had no
// ratable tokens cannot anchor a rating trend).
//
// Fits are returned sorted by word; selection layers re-rank by effect size.
func (f *Fitter) FitAll(rows []aggregate.WordYearStat) Result {
	groups := groupByWord(rows, f.Weighted)

	workers := f.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(groups) {
		workers = len(groups)
	}

	jobs := make(chan wordGroup)
	var mu sync.Mutex
	var res Result

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				slope, intercept, p, err := Fit(g.points, g.weights)
				mu.Lock()
				if err != nil {
					res.Underdetermined = append(res.Underdetermined, g.word)
				} else {
					res.Fits = append(res.Fits, TrendFit{
						Word:      g.word,
						Slope:     slope,
						Intercept: intercept,
						PValue:    p,
						Years:     len(g.points),
					})
				}
				mu.Unlock()
			}
		}()
	}

	for _, g := range groups {
		jobs <- g
	}
	close(jobs)
	wg.Wait()

	sort.Slice(res.Fits, func(i, j int) bool { return res.Fits[i].Word < res.Fits[j].Word })
	sort.Strings(res.Underdetermined)
	return res
}

func groupByWord(rows []aggregate.WordYearStat, weighted bool) []wordGroup {
	index := make(map[string]int)
	var groups []wordGroup
	for _, row := range rows {
		i, ok := index[row.Word]
		if !ok {
			i = len(groups)
			index[row.Word] = i
			groups = append(groups, wordGroup{word: row.Word})
		}
		if !row.AvgRating.Valid {
			// A year with no ratable tokens contributes no point, but the
			// word still gets a group so an all-unratable word is reported
			// as underdetermined instead of disappearing.
			continue
		}
		groups[i].points = append(groups[i].points, Point{
			Year:   row.Year,
			Rating: row.AvgRating.Float64,
		})
		if weighted {
			groups[i].weights = append(groups[i].weights, float64(row.N))
		}
	}
	return groups
}
