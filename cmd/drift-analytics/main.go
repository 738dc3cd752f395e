// drift-analytics runs the full review-trend pipeline: it reads review CSV
// files, tokenizes and aggregates them, fits a rating trend per word, and
// prints the ranked selections. The four stage outputs can be dumped to a
// TSV directory and/or a SQLite database so later runs resume from any
// stage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/drift/pkg/drift"
	"github.com/cognicore/drift/pkg/drift/config"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/review"
	"github.com/cognicore/drift/pkg/drift/stoplist"
	"github.com/cognicore/drift/pkg/drift/store"
	"github.com/cognicore/drift/pkg/drift/store/sqlite"
	"github.com/cognicore/drift/pkg/drift/store/tabfile"
	"github.com/cognicore/drift/pkg/drift/trend"
)

func main() {
	var (
		input       = flag.String("input", "", "Glob of review CSV files (required)")
		configPath  = flag.String("config", "", "Optional: YAML config with pipeline thresholds")
		stoplistCfg = flag.String("stoplist", "", "Optional: YAML stopword list for display anti-join")
		outDir      = flag.String("out", "", "Optional: directory for TSV table dumps")
		dbPath      = flag.String("db", "", "Optional: SQLite database for table dumps")
		topN        = flag.Int("top", 20, "How many trends to print per profile")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	stops := stoplist.NewManager(nil)
	if *stoplistCfg != "" {
		sl, err := config.LoadStoplist(*stoplistCfg)
		if err != nil {
			log.Fatalf("load stoplist: %v", err)
		}
		stops = stoplist.NewManager(sl.Terms)
	}

	records, err := review.LoadGlob(*input)
	if err != nil {
		log.Fatalf("load reviews: %v", err)
	}

	pipeline, err := drift.New(cfg)
	if err != nil {
		log.Fatalf("configure pipeline: %v", err)
	}

	res, err := pipeline.Run(ctx, records)
	if err != nil {
		log.Fatalf("run pipeline: %v", err)
	}

	fmt.Printf("run %s: %d records (%d malformed), %d tokens, %d words, %d word-years, %d fits\n",
		res.RunID, res.Records, res.MalformedRecords, len(res.Tokens),
		len(res.WordStats), len(res.WordYearStats), len(res.Fits))
	if len(res.ObservedYears) > 0 {
		fmt.Printf("years %d-%d, sustained-usage floor %d years\n",
			res.ObservedYears[0], res.ObservedYears[len(res.ObservedYears)-1], res.MinYears)
	}
	for _, w := range res.Underdetermined {
		fmt.Printf("skipped %q: fewer than 2 ratable year-points\n", w)
	}

	printProfile(cfg.StrictProfile(), stops.FilterFits(res.Strict), *topN)
	printProfile(cfg.BroadProfile(), stops.FilterFits(res.Broad), *topN)

	if *outDir != "" {
		dir, err := tabfile.Open(*outDir)
		if err != nil {
			log.Fatalf("open table dir: %v", err)
		}
		if err := persist(ctx, dir, res); err != nil {
			log.Fatalf("dump tables to %s: %v", *outDir, err)
		}
		fmt.Printf("tables dumped to %s\n", *outDir)
	}

	if *dbPath != "" {
		db, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := persist(ctx, db, res); err != nil {
			log.Fatalf("dump tables to %s: %v", *dbPath, err)
		}
		if err := db.RecordRun(ctx, store.Run{
			ID:               res.RunID,
			StartedAt:        res.StartedAt,
			Records:          res.Records,
			MalformedRecords: res.MalformedRecords,
		}); err != nil {
			log.Fatalf("record run: %v", err)
		}
		fmt.Printf("tables dumped to %s\n", *dbPath)
	}
}

func persist(ctx context.Context, st store.Store, res drift.Result) error {
	if err := st.SaveTokens(ctx, res.Tokens); err != nil {
		return err
	}
	if err := st.SaveWordStats(ctx, res.WordStats); err != nil {
		return err
	}
	if err := st.SaveWordYearStats(ctx, res.WordYearStats); err != nil {
		return err
	}
	return st.SaveTrendFits(ctx, res.Fits)
}

func printProfile(p trend.Profile, fits []regress.TrendFit, topN int) {
	fmt.Printf("\n%s (p < %v, |slope| >= %v): %d words\n", p.Name, p.Alpha, p.MinSlopeAbs, len(fits))
	for i, f := range trend.TopN(fits, topN) {
		fmt.Printf("%3d. %-20s slope %+.4f/yr  p=%.2g  (%d years)\n",
			i+1, f.Word, f.Slope, f.PValue, f.Years)
	}
}
