// drift-report re-ranks persisted pipeline output without re-tokenizing.
// It loads the trend fit table from an earlier drift-analytics run (TSV
// directory or SQLite database), or re-fits from the yearly statistics
// table with -refit, then applies a named selection profile.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/drift/pkg/drift/config"
	"github.com/cognicore/drift/pkg/drift/regress"
	"github.com/cognicore/drift/pkg/drift/stoplist"
	"github.com/cognicore/drift/pkg/drift/store"
	"github.com/cognicore/drift/pkg/drift/store/sqlite"
	"github.com/cognicore/drift/pkg/drift/store/tabfile"
	"github.com/cognicore/drift/pkg/drift/trend"
)

func main() {
	var (
		tableDir    = flag.String("tables", "", "TSV table directory from a previous run")
		dbPath      = flag.String("db", "", "SQLite database from a previous run")
		configPath  = flag.String("config", "", "Optional: YAML config with profile cutoffs")
		profileName = flag.String("profile", "strict", "Selection profile: broad or strict")
		refit       = flag.Bool("refit", false, "Re-fit trends from the yearly statistics table")
		weighted    = flag.Bool("weighted", false, "Weight re-fits by each year's token count")
		stoplistCfg = flag.String("stoplist", "", "Optional: YAML stopword list for display anti-join")
		topN        = flag.Int("top", 20, "How many trends to print")
	)
	flag.Parse()

	if (*tableDir == "") == (*dbPath == "") {
		log.Fatal("exactly one of --tables or --db required")
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

	var profile trend.Profile
	switch *profileName {
	case "broad":
		profile = cfg.BroadProfile()
	case "strict":
		profile = cfg.StrictProfile()
	default:
		log.Fatalf("unknown profile %q", *profileName)
	}

	st, err := openStore(ctx, *tableDir, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	fits, err := loadFits(ctx, st, *refit, *weighted, cfg.Workers)
	if err != nil {
		log.Fatalf("load fits: %v", err)
	}

	if *stoplistCfg != "" {
		sl, err := config.LoadStoplist(*stoplistCfg)
		if err != nil {
			log.Fatalf("load stoplist: %v", err)
		}
		fits = stoplist.NewManager(sl.Terms).FilterFits(fits)
	}

	selected := trend.Select(fits, profile)
	fmt.Printf("%s (p < %v, |slope| >= %v): %d of %d words\n",
		profile.Name, profile.Alpha, profile.MinSlopeAbs, len(selected), len(fits))
	for i, f := range trend.TopN(selected, *topN) {
		fmt.Printf("%3d. %-20s slope %+.4f/yr  p=%.2g  (%d years)\n",
			i+1, f.Word, f.Slope, f.PValue, f.Years)
	}
}

func openStore(ctx context.Context, tableDir, dbPath string) (store.Store, error) {
	if tableDir != "" {
		return tabfile.Open(tableDir)
	}
	return sqlite.Open(ctx, dbPath)
}

func loadFits(ctx context.Context, st store.Store, refit, weighted bool, workers int) ([]regress.TrendFit, error) {
	if !refit {
		return st.LoadTrendFits(ctx)
	}

	rows, err := st.LoadWordYearStats(ctx)
	if err != nil {
		return nil, err
	}
	fitter := regress.Fitter{Weighted: weighted, Workers: workers}
	res := fitter.FitAll(rows)
	for _, w := range res.Underdetermined {
		log.Printf("skipped %q: fewer than 2 ratable year-points", w)
	}
	return res.Fits, nil
}
