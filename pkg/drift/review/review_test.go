package review

import "testing"

func TestYearFromTimestamp(t *testing.T) {
	cases := []struct {
		ts    string
		year  int
		valid bool
	}{
		{"2017-03-05 10:22:00", 2017, true},
		{"2009", 2009, true},
		{"2021-01-01", 2021, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"20", 0, false},
		{"abcd-01-01", 0, false},
	}

	for _, c := range cases {
		got := YearFromTimestamp(c.ts)
		if got.Valid != c.valid {
			t.Errorf("YearFromTimestamp(%q) valid = %v, want %v", c.ts, got.Valid, c.valid)
			continue
		}
		if c.valid && got.Int != c.year {
			t.Errorf("YearFromTimestamp(%q) = %d, want %d", c.ts, got.Int, c.year)
		}
	}
}

func TestDedupDropsExactDuplicates(t *testing.T) {
	a := Record{ProductID: "p1", Rating: Float(4), Year: Int(2015), Title: "Nice"}
	b := Record{ProductID: "p2", Rating: Float(2), Year: Int(2016), Title: "Meh"}

	out := Dedup([]Record{a, b, a, a, b})
	if len(out) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(out))
	}
	if out[0] != a || out[1] != b {
		t.Error("dedup should preserve first-seen order")
	}
}

func TestDedupKeepsNearDuplicates(t *testing.T) {
	a := Record{ProductID: "p1", Rating: Float(4), Year: Int(2015)}
	b := a
	b.Rating = Float(5) // differs in one field, not a duplicate

	out := Dedup([]Record{a, b})
	if len(out) != 2 {
		t.Fatalf("records differing in any field must both survive, got %d", len(out))
	}
}

func TestMalformed(t *testing.T) {
	ok := Record{Rating: Float(4), Year: Int(2015)}
	if ok.Malformed() {
		t.Error("record with year and rating should not be malformed")
	}

	noYear := Record{Rating: Float(4)}
	if !noYear.Malformed() {
		t.Error("record without derivable year is malformed")
	}

	noRating := Record{Year: Int(2015)}
	if !noRating.Malformed() {
		t.Error("record without numeric rating is malformed")
	}
}
