package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// column names expected in review CSV exports. Files may carry extra
// columns; order is taken from each file's header row.
const (
	colProductID   = "product_id"
	colProductName = "product_name"
	colBrandName   = "brand_name"
	colSubmission  = "submission_time"
	colRating      = "rating"
	colRecommended = "is_recommended"
	colTitle       = "review_title"
	colText        = "review_text"
)

// LoadGlob reads every CSV file matching the pattern, concatenates their
// rows and drops exact duplicate records. Files are visited in sorted order
// so repeated runs see the same sequence.
func LoadGlob(pattern string) ([]Record, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(paths)

	var all []Record
	for _, path := range paths {
		records, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return Dedup(all), nil
}

// LoadFile reads one CSV file of review rows. The first row must be a
// header naming the columns.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Read parses review rows from CSV data with a header row.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, missing cells become absent fields

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, fromRow(row, idx))
	}
	return records, nil
}

func fromRow(row []string, idx map[string]int) Record {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts := field(colSubmission)
	rec := Record{
		ProductID:   field(colProductID),
		ProductName: field(colProductName),
		BrandName:   field(colBrandName),
		Submission:  ts,
		Year:        YearFromTimestamp(ts),
		Title:       StripHTML(field(colTitle)),
		Text:        StripHTML(field(colText)),
	}

	if v, err := strconv.ParseFloat(field(colRating), 64); err == nil {
		rec.Rating = Float(v)
	}
	rec.Recommended = parseRecommended(field(colRecommended))
	return rec
}

// parseRecommended accepts the 0/1 encoding common in review exports as
// well as textual booleans. Anything else is absent, not false.
func parseRecommended(s string) NullBool {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes":
		return Bool(true)
	case "0", "0.0", "false", "no":
		return Bool(false)
	}
	return NullBool{}
}

// StripHTML extracts the text content from markup that sometimes leaks
// into exported review text. Plain text passes through unchanged.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.TrimSpace(buf.String())
}
