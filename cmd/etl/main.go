package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"bookvault/internal/config"
	"bookvault/internal/insights"
	"bookvault/internal/metrics"
	"bookvault/internal/metrics/datadog"
	"bookvault/internal/metrics/prompush"
	"bookvault/internal/pipeline"
	"bookvault/internal/report"
	"bookvault/internal/storage"

	// register all backends with the storage factory; config selects which
	// one actually runs.
	_ "bookvault/internal/storage/all"
)

// main loads the source folder into the store: validate config, wire
// metrics, preview the data, run the pipeline, then aggregate and report.
func main() {
	var (
		cfg            config.Config
		metricsBackend string
		pushgatewayURL string
		statsdAddr     string
		validate       bool
	)

	flag.StringVar(&cfg.SourceDir, "folder", config.DefaultSourceDir, "folder containing the source CSV files")
	flag.StringVar(&cfg.DSN, "db", config.DefaultDSN, "store DSN (file path for sqlite, URL for postgres)")
	flag.StringVar(&cfg.StoreKind, "store", config.DefaultStore, "storage backend (sqlite, postgres)")
	flag.IntVar(&cfg.Workers, "workers", config.DefaultWorkers, "number of concurrent file workers")
	flag.IntVar(&cfg.ChunkSize, "chunk-size", config.DefaultChunkSize, "rows per chunk streamed into the store")
	flag.StringVar(&cfg.Job, "job", config.DefaultJob, "job name used for metrics grouping")
	flag.StringVar(&cfg.ReportPath, "report", "", "write an HTML run report to this path")
	flag.StringVar(&cfg.LogPath, "log", "", "append logs to this file instead of stderr")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend (pushgateway, datadog, none)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddr, "statsd-addr", "", "DogStatsD address for the datadog backend")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()
	cfg = cfg.WithDefaults()

	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	setupMetrics(metricsBackend, pushgatewayURL, statsdAddr, cfg.Job, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: folder=%s store=%s dsn=%s workers=%d chunk_size=%d",
			cfg.SourceDir, cfg.StoreKind, cfg.DSN, cfg.Workers, cfg.ChunkSize)
	}

	if err := pipeline.Preview(cfg.SourceDir, 5); err != nil {
		log.Printf("preview: %v", err)
	}

	sum, err := pipeline.Run(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.StoreKind, DSN: cfg.DSN})
	if err != nil {
		log.Fatalf("open store for insights: %v", err)
	}
	defer repo.Close()

	aggStart := time.Now()
	agg, err := insights.Collect(ctx, repo, insights.TopN)
	metrics.RecordStep(cfg.Job, "insights", err, time.Since(aggStart))
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Print(agg.Format())

	if cfg.ReportPath != "" {
		if err := report.WriteFile(cfg.ReportPath, report.Build(cfg.Job, sum, agg)); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("report: written to %s", cfg.ReportPath)
	}

	log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// setupMetrics installs the selected metrics backend; on any setup problem
// the nop backend stays in place and the run proceeds unmetered.
func setupMetrics(name, gatewayURL, statsdAddr, job string, verbose bool) {
	switch name {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gatewayURL, job)
		metrics.SetBackend(b)

	case "datadog":
		if statsdAddr == "" {
			statsdAddr = os.Getenv("DD_AGENT_ADDR")
		}
		if statsdAddr == "" {
			statsdAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: statsdAddr, Namespace: "bookvault."})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s job=%s", statsdAddr, job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", name)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
