package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/drift/pkg/drift/aggregate"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
	"github.com/cognicore/drift/pkg/drift/store"
)

// Store implements store.Store on SQLite. Each Save replaces its table in
// one transaction, so readers never observe a half-written stage output.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database with WAL mode enabled
// and initializes the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL,
	rating REAL,
	is_recommended INTEGER,
	year INTEGER
);

CREATE TABLE IF NOT EXISTS word_stats (
	word TEXT PRIMARY KEY,
	n INTEGER NOT NULL,
	average_rating REAL,
	average_recommendation REAL
);

CREATE TABLE IF NOT EXISTS word_year_stats (
	word TEXT NOT NULL,
	year INTEGER NOT NULL,
	n INTEGER NOT NULL,
	average_rating REAL,
	average_recommendation REAL,
	PRIMARY KEY(word, year)
);

CREATE TABLE IF NOT EXISTS trend_fits (
	word TEXT PRIMARY KEY,
	slope REAL NOT NULL,
	intercept REAL NOT NULL,
	p_value REAL NOT NULL,
	years INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	records INTEGER NOT NULL,
	malformed_records INTEGER NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// replaceAll clears a table and bulk-inserts rows inside one transaction.
func (s *Store) replaceAll(ctx context.Context, table, insert string, n int, args func(i int) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// SaveTokens replaces the full token dump.
func (s *Store) SaveTokens(ctx context.Context, tokens []review.Token) error {
	return s.replaceAll(ctx, "tokens",
		"INSERT INTO tokens(word, rating, is_recommended, year) VALUES(?, ?, ?, ?)",
		len(tokens), func(i int) []any {
			t := tokens[i]
			return []any{t.Word, nullFloat(t.Rating), nullBool(t.Recommended), nullInt(t.Year)}
		})
}

// LoadTokens reads the token dump in insertion order.
func (s *Store) LoadTokens(ctx context.Context) ([]review.Token, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT word, rating, is_recommended, year FROM tokens ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []review.Token
	for rows.Next() {
		var t review.Token
		var rating sql.NullFloat64
		var rec, year sql.NullInt64
		if err := rows.Scan(&t.Word, &rating, &rec, &year); err != nil {
			return nil, err
		}
		t.Rating = fromNullFloat(rating)
		t.Recommended = fromNullBool(rec)
		t.Year = fromNullInt(year)
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// SaveWordStats replaces the global word statistics table.
func (s *Store) SaveWordStats(ctx context.Context, stats []aggregate.WordStat) error {
	return s.replaceAll(ctx, "word_stats",
		"INSERT INTO word_stats(word, n, average_rating, average_recommendation) VALUES(?, ?, ?, ?)",
		len(stats), func(i int) []any {
			st := stats[i]
			return []any{st.Word, st.N, nullFloat(st.AvgRating), nullFloat(st.AvgRecommended)}
		})
}

// LoadWordStats reads the global table sorted by descending count.
func (s *Store) LoadWordStats(ctx context.Context) ([]aggregate.WordStat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT word, n, average_rating, average_recommendation FROM word_stats ORDER BY n DESC, word")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []aggregate.WordStat
	for rows.Next() {
		var st aggregate.WordStat
		var rating, rec sql.NullFloat64
		if err := rows.Scan(&st.Word, &st.N, &rating, &rec); err != nil {
			return nil, err
		}
		st.AvgRating = fromNullFloat(rating)
		st.AvgRecommended = fromNullFloat(rec)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// SaveWordYearStats replaces the yearly word statistics table.
func (s *Store) SaveWordYearStats(ctx context.Context, stats []aggregate.WordYearStat) error {
	return s.replaceAll(ctx, "word_year_stats",
		"INSERT INTO word_year_stats(word, year, n, average_rating, average_recommendation) VALUES(?, ?, ?, ?, ?)",
		len(stats), func(i int) []any {
			st := stats[i]
			return []any{st.Word, st.Year, st.N, nullFloat(st.AvgRating), nullFloat(st.AvgRecommended)}
		})
}

// LoadWordYearStats reads the yearly table sorted by word then year.
func (s *Store) LoadWordYearStats(ctx context.Context) ([]aggregate.WordYearStat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT word, year, n, average_rating, average_recommendation FROM word_year_stats ORDER BY word, year")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []aggregate.WordYearStat
	for rows.Next() {
		var st aggregate.WordYearStat
		var rating, rec sql.NullFloat64
		if err := rows.Scan(&st.Word, &st.Year, &st.N, &rating, &rec); err != nil {
			return nil, err
		}
		st.AvgRating = fromNullFloat(rating)
		st.AvgRecommended = fromNullFloat(rec)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// SaveTrendFits replaces the trend fit table.
func (s *Store) SaveTrendFits(ctx context.Context, fits []regress.TrendFit) error {
	return s.replaceAll(ctx, "trend_fits",
		"INSERT INTO trend_fits(word, slope, intercept, p_value, years) VALUES(?, ?, ?, ?, ?)",
		len(fits), func(i int) []any {
			f := fits[i]
			return []any{f.Word, f.Slope, f.Intercept, f.PValue, f.Years}
		})
}

// LoadTrendFits reads the trend fit table sorted by word.
func (s *Store) LoadTrendFits(ctx context.Context) ([]regress.TrendFit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT word, slope, intercept, p_value, years FROM trend_fits ORDER BY word")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fits []regress.TrendFit
	for rows.Next() {
		var f regress.TrendFit
		if err := rows.Scan(&f.Word, &f.Slope, &f.Intercept, &f.PValue, &f.Years); err != nil {
			return nil, err
		}
		fits = append(fits, f)
	}
	return fits, rows.Err()
}

// RecordRun appends a pipeline run to the runs table.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs(id, started_at, records, malformed_records) VALUES(?, ?, ?, ?)",
		r.ID, r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"), r.Records, r.MalformedRecords)
	return err
}

// LastRun returns the most recent run metadata.
func (s *Store) LastRun(ctx context.Context) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, records, malformed_records FROM runs ORDER BY id DESC LIMIT 1")

	var r store.Run
	var startedAt string
	err := row.Scan(&r.ID, &startedAt, &r.Records, &r.MalformedRecords)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	if t, perr := parseRunTime(startedAt); perr == nil {
		r.StartedAt = t
	}
	return r, true, nil
}

func parseRunTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z", s)
}

func nullFloat(v review.NullFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float64, Valid: v.Valid}
}

func nullBool(v review.NullBool) sql.NullInt64 {
	out := sql.NullInt64{Valid: v.Valid}
	if v.Bool {
		out.Int64 = 1
	}
	return out
}

func nullInt(v review.NullInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v.Int), Valid: v.Valid}
}

func fromNullFloat(v sql.NullFloat64) review.NullFloat {
	return review.NullFloat{Float64: v.Float64, Valid: v.Valid}
}

func fromNullBool(v sql.NullInt64) review.NullBool {
	return review.NullBool{Bool: v.Int64 != 0, Valid: v.Valid}
}

func fromNullInt(v sql.NullInt64) review.NullInt {
	return review.NullInt{Int: int(v.Int64), Valid: v.Valid}
}
