package review

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "product_id,product_name,brand_name,submission_time,rating,is_recommended,review_title,review_text\n"

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReadParsesFields(t *testing.T) {
	csv := header +
		"p1,Lipstick,BrandA,2017-06-01,5,1,Great,Love it\n" +
		"p2,Mascara,BrandB,2019-02-10,2.5,0,,Clumpy\n" +
		"p3,Serum,BrandC,n/a,,,,\n"
	records, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	r := records[0]
	if r.ProductID != "p1" || r.Title != "Great" || r.Text != "Love it" {
		t.Errorf("unexpected first record: %+v", r)
	}
	if !r.Rating.Valid || r.Rating.Float64 != 5 {
		t.Errorf("rating = %+v, want 5", r.Rating)
	}
	if !r.Recommended.Valid || !r.Recommended.Bool {
		t.Errorf("recommended = %+v, want true", r.Recommended)
	}
	if !r.Year.Valid || r.Year.Int != 2017 {
		t.Errorf("year = %+v, want 2017", r.Year)
	}

	if records[1].Rating.Float64 != 2.5 || records[1].Recommended.Bool {
		t.Errorf("unexpected second record: %+v", records[1])
	}

	// Third row has no derivable year, no rating, no recommendation.
	r3 := records[2]
	if r3.Year.Valid || r3.Rating.Valid || r3.Recommended.Valid {
		t.Errorf("absent fields must stay absent, got %+v", r3)
	}
	if !r3.Malformed() {
		t.Error("third record should be malformed")
	}
}

func TestLoadGlobConcatenatesAndDedups(t *testing.T) {
	dir := t.TempDir()
	row := "p1,Lipstick,BrandA,2017-06-01,5,1,Great,Love it\n"
	writeCSV(t, dir, "reviews_0.csv", header+row+"p2,Mascara,BrandB,2018-01-01,3,0,Fine,Okay\n")
	writeCSV(t, dir, "reviews_1.csv", header+row) // duplicate of a row in file 0

	records, err := LoadGlob(filepath.Join(dir, "reviews_*.csv"))
	if err != nil {
		t.Fatalf("LoadGlob: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("duplicate rows across files must be dropped, got %d records", len(records))
	}
}

func TestLoadGlobNoMatches(t *testing.T) {
	if _, err := LoadGlob(filepath.Join(t.TempDir(), "nope_*.csv")); err == nil {
		t.Fatal("expected error for pattern with no matches")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Really <b>good</b> stuff</p>")
	if got != "Really good stuff" {
		t.Errorf("StripHTML = %q", got)
	}

	plain := "no markup here"
	if StripHTML(plain) != plain {
		t.Error("plain text must pass through unchanged")
	}
}
