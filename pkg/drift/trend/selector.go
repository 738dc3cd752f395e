package trend

import (
	"math"
	"sort"

	"github.com/cognicore/drift/pkg/drift/regress"
)

// Profile names a significance/effect-size cutoff pair. The two analysis
// views use different cutoffs, so profiles are configuration, not code
// paths: "broad" answers "which words changed at all", "strict" answers
// "which changes are large enough to be worth showing".
type Profile struct {
	Name        string
	Alpha       float64 // maximum p-value, exclusive
	MinSlopeAbs float64 // minimum |slope|, inclusive; 0 disables the floor
}

// BroadProfile is the permissive substantial-change view.
func BroadProfile() Profile {
	return Profile{Name: "broad", Alpha: 0.05}
}

// StrictProfile is the plot-worthy view: high significance combined with a
// practical effect-size floor.
func StrictProfile() Profile {
	return Profile{Name: "strict", Alpha: 0.01, MinSlopeAbs: 0.1}
}

// Select keeps fits with p_value < alpha and |slope| >= the profile floor,
// ordered by descending |slope| (most-changed first). Ties fall back to
// word order so reruns produce identical output.
func Select(fits []regress.TrendFit, p Profile) []regress.TrendFit {
	var out []regress.TrendFit
	for _, f := range fits {
		if f.PValue >= p.Alpha {
			continue
		}
		if math.Abs(f.Slope) < p.MinSlopeAbs {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Slope), math.Abs(out[j].Slope)
		if ai != aj {
			return ai > aj
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// TopN truncates a selected fit list to its n most-changed entries.
func TopN(fits []regress.TrendFit, n int) []regress.TrendFit {
	if n > 0 && len(fits) > n {
		return fits[:n]
	}
	return fits
}
