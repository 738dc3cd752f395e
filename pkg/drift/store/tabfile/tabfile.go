// Package tabfile persists the pipeline tables as flat tab-delimited files,
// one file per table, each with a header row. An empty field encodes an
// absent value; floats are written with strconv's shortest exact form so a
// dump reloads to the same float64 bits.
package tabfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/internalerr"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
	"github.com/cognicore/drift/pkg/drift/store"
)

const (
	tokensFile        = "tokens.tsv"
	wordStatsFile     = "word_stats.tsv"
	wordYearStatsFile = "word_year_stats.tsv"
	trendFitsFile     = "trend_fits.tsv"
)

// Dir is a store rooted at a directory of TSV files.
type Dir struct {
	path string
}

// Open creates the directory if needed and returns a store over it.
func Open(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create table dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Close implements store.Store. Files are written whole on Save, so there
// is nothing to flush.
func (d *Dir) Close() error { return nil }

var _ store.Store = (*Dir)(nil)

// SaveTokens writes the full token dump.
func (d *Dir) SaveTokens(ctx context.Context, tokens []review.Token) error {
	rows := make([][]string, len(tokens))
	for i, t := range tokens {
		rows[i] = []string{t.Word, nullFloat(t.Rating), nullBool(t.Recommended), nullInt(t.Year)}
	}
	return d.write(tokensFile, []string{"word", "rating", "is_recommended", "year"}, rows)
}

// LoadTokens reads the token dump back.
func (d *Dir) LoadTokens(ctx context.Context) ([]review.Token, error) {
	rows, err := d.read(tokensFile, 4)
	if err != nil {
		return nil, err
	}
	tokens := make([]review.Token, len(rows))
	for i, row := range rows {
		t := review.Token{Word: row[0]}
		if t.Rating, err = parseNullFloat(row[1]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", tokensFile, i+1, err)
		}
		if t.Recommended, err = parseNullBool(row[2]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", tokensFile, i+1, err)
		}
		if t.Year, err = parseNullInt(row[3]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", tokensFile, i+1, err)
		}
		tokens[i] = t
	}
	return tokens, nil
}

// SaveWordStats writes the global word statistics table.
func (d *Dir) SaveWordStats(ctx context.Context, stats []aggregate.WordStat) error {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Word,
			strconv.FormatInt(s.N, 10),
			nullFloat(s.AvgRating),
			nullFloat(s.AvgRecommended),
		}
	}
	return d.write(wordStatsFile, []string{"word", "n", "average_rating", "average_recommendation"}, rows)
}

// LoadWordStats reads the global word statistics table back.
func (d *Dir) LoadWordStats(ctx context.Context) ([]aggregate.WordStat, error) {
	rows, err := d.read(wordStatsFile, 4)
	if err != nil {
		return nil, err
	}
	stats := make([]aggregate.WordStat, len(rows))
	for i, row := range rows {
		s := aggregate.WordStat{Word: row[0]}
		if s.N, err = strconv.ParseInt(row[1], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordStatsFile, i+1, err)
		}
		if s.AvgRating, err = parseNullFloat(row[2]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordStatsFile, i+1, err)
		}
		if s.AvgRecommended, err = parseNullFloat(row[3]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordStatsFile, i+1, err)
		}
		stats[i] = s
	}
	return stats, nil
}

// SaveWordYearStats writes the yearly word statistics table.
func (d *Dir) SaveWordYearStats(ctx context.Context, stats []aggregate.WordYearStat) error {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Word,
			strconv.Itoa(s.Year),
			strconv.FormatInt(s.N, 10),
			nullFloat(s.AvgRating),
			nullFloat(s.AvgRecommended),
		}
	}
	return d.write(wordYearStatsFile,
		[]string{"word", "year", "n", "average_rating", "average_recommendation"}, rows)
}

// LoadWordYearStats reads the yearly word statistics table back.
func (d *Dir) LoadWordYearStats(ctx context.Context) ([]aggregate.WordYearStat, error) {
	rows, err := d.read(wordYearStatsFile, 5)
	if err != nil {
		return nil, err
	}
	stats := make([]aggregate.WordYearStat, len(rows))
	for i, row := range rows {
		s := aggregate.WordYearStat{Word: row[0]}
		if s.Year, err = strconv.Atoi(row[1]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordYearStatsFile, i+1, err)
		}
		if s.N, err = strconv.ParseInt(row[2], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordYearStatsFile, i+1, err)
		}
		if s.AvgRating, err = parseNullFloat(row[3]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordYearStatsFile, i+1, err)
		}
		if s.AvgRecommended, err = parseNullFloat(row[4]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wordYearStatsFile, i+1, err)
		}
		stats[i] = s
	}
	return stats, nil
}

// SaveTrendFits writes the trend fit table.
func (d *Dir) SaveTrendFits(ctx context.Context, fits []regress.TrendFit) error {
	rows := make([][]string, len(fits))
	for i, f := range fits {
		rows[i] = []string{
			f.Word,
			formatFloat(f.Slope),
			formatFloat(f.Intercept),
			formatFloat(f.PValue),
			strconv.Itoa(f.Years),
		}
	}
	return d.write(trendFitsFile, []string{"word", "slope", "intercept", "p_value", "years"}, rows)
}

// LoadTrendFits reads the trend fit table back.
func (d *Dir) LoadTrendFits(ctx context.Context) ([]regress.TrendFit, error) {
	rows, err := d.read(trendFitsFile, 5)
	if err != nil {
		return nil, err
	}
	fits := make([]regress.TrendFit, len(rows))
	for i, row := range rows {
		f := regress.TrendFit{Word: row[0]}
		if f.Slope, err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trendFitsFile, i+1, err)
		}
		if f.Intercept, err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trendFitsFile, i+1, err)
		}
		if f.PValue, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trendFitsFile, i+1, err)
		}
		if f.Years, err = strconv.Atoi(row[4]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trendFitsFile, i+1, err)
		}
		fits[i] = f
	}
	return fits, nil
}

func (d *Dir) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(d.path, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (d *Dir) read(name string, fields int) ([][]string, error) {
	path := filepath.Join(d.path, name)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("table %s: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = fields
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", path)
	}
	return rows[1:], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func nullFloat(v review.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}

func nullBool(v review.NullBool) string {
	if !v.Valid {
		return ""
	}
	if v.Bool {
		return "1"
	}
	return "0"
}

func nullInt(v review.NullInt) string {
	if !v.Valid {
		return ""
	}
	return strconv.Itoa(v.Int)
}

func parseNullFloat(s string) (review.NullFloat, error) {
	if s == "" {
		return review.NullFloat{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return review.NullFloat{}, fmt.Errorf("%w: bad float field %q", internalerr.ErrMalformedRecord, s)
	}
	return review.Float(v), nil
}

func parseNullBool(s string) (review.NullBool, error) {
	switch s {
	case "":
		return review.NullBool{}, nil
	case "1":
		return review.Bool(true), nil
	case "0":
		return review.Bool(false), nil
	}
	return review.NullBool{}, fmt.Errorf("%w: bad bool field %q", internalerr.ErrMalformedRecord, s)
}

func parseNullInt(s string) (review.NullInt, error) {
	if s == "" {
		return review.NullInt{}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return review.NullInt{}, fmt.Errorf("%w: bad int field %q", internalerr.ErrMalformedRecord, s)
	}
	return review.Int(v), nil
}
