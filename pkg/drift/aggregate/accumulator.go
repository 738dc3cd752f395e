package aggregate

import "github.com/cognicore/drift/pkg/drift/review"

// meanAcc is a running sum/count mean over values that may be absent.
// Absent values touch neither the sum nor the count, so a group with no
// present values reports an absent mean rather than zero.
type meanAcc struct {
	sum float64
	n   int64
}

func (a *meanAcc) add(v review.NullFloat) {
	if !v.Valid {
		return
	}
	a.sum += v.Float64
	a.n++
}

// addBool folds a tri-state recommendation into the mean, coercing
// present values to {0, 1}.
func (a *meanAcc) addBool(v review.NullBool) {
	if !v.Valid {
		return
	}
	if v.Bool {
		a.sum++
	}
	a.n++
}

func (a *meanAcc) mean() review.NullFloat {
	if a.n == 0 {
		return review.NullFloat{}
	}
	return review.Float(a.sum / float64(a.n))
}

// groupAcc accumulates the three per-group statistics: token count,
// mean rating and mean recommendation.
type groupAcc struct {
	count       int64
	rating      meanAcc
	recommended meanAcc
}

func (g *groupAcc) add(tok review.Token) {
	g.count++
	g.rating.add(tok.Rating)
	g.recommended.addBool(tok.Recommended)
}
