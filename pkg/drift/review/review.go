package review

import "strconv"

// NullFloat is a float64 that may be absent. Absent values are excluded
// from both the numerator and denominator of any mean, never coerced to zero.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NullBool is a bool that may be absent.
type NullBool struct {
	Bool  bool
	Valid bool
}

// NullInt is an int that may be absent.
type NullInt struct {
	Int   int
	Valid bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Bool returns a present NullBool.
func Bool(v bool) NullBool { return NullBool{Bool: v, Valid: true} }

// Int returns a present NullInt.
func Int(v int) NullInt { return NullInt{Int: v, Valid: true} }

// Record is one product review as ingested. Records are immutable once
// built and deduplicated by full-record equality before entering the
// pipeline, so every field must be comparable.
type Record struct {
	ProductID   string
	ProductName string
	BrandName   string
	Submission  string // raw submission timestamp, year is derived from it
	Rating      NullFloat
	Recommended NullBool
	Year        NullInt
	Title       string
	Text        string
}

// Token is one normalized word from a record's combined title and body,
// tagged with the source record's metadata. Tokens are ephemeral: they only
// exist as an intermediate stream between the tokenizer and the aggregators.
type Token struct {
	Word        string
	Rating      NullFloat
	Recommended NullBool
	Year        NullInt
}

// Malformed reports whether a record is missing fields the rating-dependent
// aggregates need. Malformed records still contribute to count-only
// statistics; callers surface them as a skipped count, not a failure.
func (r Record) Malformed() bool {
	return !r.Year.Valid || !r.Rating.Valid
}

// YearFromTimestamp derives a calendar year from the first four characters
// of a submission timestamp. The derivation is deterministic: anything that
// does not start with four digits yields an absent year.
func YearFromTimestamp(ts string) NullInt {
	if len(ts) < 4 {
		return NullInt{}
	}
	y, err := strconv.Atoi(ts[:4])
	if err != nil || y <= 0 {
		return NullInt{}
	}
	return Int(y)
}

// Dedup drops exact duplicate records, preserving first-seen order.
// Duplicate full rows across concatenated input files are expected.
func Dedup(records []Record) []Record {
	seen := make(map[Record]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
