package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scenerank/internal/classify"
	"scenerank/internal/cmdlog"
	"scenerank/internal/config"
	"scenerank/internal/ingest"
	"scenerank/internal/metrics"
	"scenerank/internal/report"
	"scenerank/internal/store/resultdb"
	"scenerank/internal/theme"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "classify":
		cmdClassify()
	case "history":
		cmdHistory()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: scenerank <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./scenerank.yaml")
	fmt.Println("  classify    Classify the profile corpus and write ranked artifacts")
	fmt.Println("  history     List stored runs and their top rows")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./scenerank.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	cfgPath := fs.String("config", "./scenerank.yaml", "config path")
	preset := fs.String("preset", "", "preset name (default, kink_heavy, penalty_heavy)")
	debug := fs.Bool("debug", false, "log diagnostics and sample rows")
	limit := fs.Int("limit", 0, "truncate the result rows (0 = all)")
	profile := fs.String("profile", "", "only classify usernames containing this substring")
	profilesPath := fs.String("profiles", "", "profiles.json path (overrides config)")
	nodesPath := fs.String("nodes", "", "nodes.json path (overrides config)")
	outDir := fs.String("out", "", "output directory (overrides config)")
	_ = fs.Parse(os.Args[2:])

	cfg := config.Default()
	if b, err := os.Stat(*cfgPath); err == nil && !b.IsDir() {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
	}
	if *preset != "" {
		cfg.Preset = *preset
	}
	if *profilesPath != "" {
		cfg.Input.ProfilesPath = *profilesPath
	}
	if *nodesPath != "" {
		cfg.Input.NodesPath = *nodesPath
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	knobs, presetName := config.Preset(cfg.Preset)
	if presetName != cfg.Preset {
		fmt.Printf("unknown preset %q, using %q\n", cfg.Preset, presetName)
	}

	metrics.StartServer(cfg.Metrics.Addr)

	err := cmdlog.Run("classify", func() error {
		start := time.Now()
		metrics.ClassifyRuns.Inc()

		profiles, edges, err := ingest.Load(cfg.Input.ProfilesPath, cfg.Input.NodesPath)
		if err != nil {
			metrics.ClassifyErrors.Inc()
			return err
		}

		pl := classify.New(profiles, edges, knobs)
		rows, stats := pl.Run(classify.Options{Debug: *debug, Limit: *limit, Profile: *profile})
		metrics.IncAdmissions("seed", stats.SeedSize)
		metrics.IncAdmissions("pass1", stats.Pass1Admits)
		metrics.IncAdmissions("pass2", stats.Pass2Admits)
		metrics.ProfilesClassified.Add(float64(len(rows)))

		report.SortByScore(rows)
		if err := report.WriteAll(cfg.Output.Dir, presetName, rows, pl.Extracted, profiles, knobs, cfg.Output.ChunkSize); err != nil {
			metrics.ClassifyErrors.Inc()
			return err
		}

		if cfg.Storage.DBPath != "" {
			db, err := resultdb.Open(cfg.Storage.DBPath)
			if err != nil {
				metrics.ClassifyErrors.Inc()
				return err
			}
			defer db.Close()
			if _, err := db.SaveRun(context.Background(), start.UTC(), presetName, stats.KnownSize, rows); err != nil {
				metrics.ClassifyErrors.Inc()
				return err
			}
		}

		metrics.ObserveClassifyDuration(start)
		fmt.Printf("Classified %d profiles (known=%d, pass1=+%d, pass2=+%d). Artifacts in %s\n",
			len(rows), stats.KnownSize, stats.Pass1Admits, stats.Pass2Admits, cfg.Output.Dir)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func cmdHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "./scenerank.db", "results database path")
	top := fs.Int("top", 0, "also print top N rows of the latest run")
	_ = fs.Parse(os.Args[2:])

	db, err := resultdb.Open(*dbPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	runs, err := db.Runs(ctx)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored yet.")
		return
	}
	for _, r := range runs {
		fmt.Printf("run %d  %s  preset=%s profiles=%d known=%d\n",
			r.ID, r.TS.Format(time.RFC3339), r.Preset, r.Profiles, r.Known)
	}
	if *top > 0 {
		rows, err := db.TopRows(ctx, runs[0].ID, *top)
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		for _, r := range rows {
			fmt.Printf("@%s score=%.3f classified=[%s]\n", r.Username, r.Score, strings.Join(r.Classified, ","))
		}
	}
}
