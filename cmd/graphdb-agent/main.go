// Command graphdb-agent is a thin worker-process stub: it opens one
// worker's store files and serves two read-only HTTP endpoints over
// them, standing in for the process-level distribution spec.md places
// out of scope. It proves the boundary exists without implementing a
// real RPC protocol across it.
//
// Endpoints:
//   - /healthz: always 200 OK once the engine is open.
//   - /stats: Prometheus text-format exposition of internal/metrics's
//     Collector, re-reading GraphEngine.GetStats on every scrape.
//
// Usage:
//
//	graphdb-agent --config configs/config.json --db-path db/ --listen :8082
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/config"
	"github.com/dreamware/graphdb/internal/engine"
	"github.com/dreamware/graphdb/internal/metrics"
	"github.com/dreamware/graphdb/internal/store"
)

// main builds the cobra command tree and executes it, printing any error
// to stderr and exiting 1 on failure.
//
// Flags:
//   - --config: path to the manager/worker config document.
//   - --db-path: worker directory root, overriding the config's db_path.
//   - --listen: HTTP listen address, default ":8082".
func main() {
	var configPath, dbPath, listen string

	root := &cobra.Command{
		Use:           "graphdb-agent",
		Short:         "Health and stats stub for one graph storage worker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, dbPath, listen)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to the manager/worker config document")
	root.Flags().StringVar(&dbPath, "db-path", "", "worker directory root, overriding the config's db_path")
	root.Flags().StringVar(&listen, "listen", ":8082", "listen address")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the config, opens worker 0's store files, opens a
// GraphEngine over them, registers its Collector against a fresh
// Prometheus registry, and serves HTTP until the listener fails.
//
// Parameters:
//   - configPath: path to the config document, or "" to use the default.
//   - dbPath: overrides the config's db_path when non-empty.
//   - listen: the address to bind, e.g. ":8082".
//
// Returns:
//   - the first unrecoverable error (config load, store open, logger
//     construction, collector registration, or ListenAndServe failure).
//     A clean shutdown is not implemented; the process runs until
//     killed or ListenAndServe errors.
//
// Thread Safety:
// The HTTP handlers registered here are read-only snapshots over the
// GraphEngine (promhttp.HandlerFor re-reads GetStats per scrape); they
// do not mutate engine state, so concurrent scrapes are safe as long as
// nothing else mutates the same *engine.GraphEngine concurrently.
func run(configPath, dbPath, listen string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	worker := cfg.Manager.Workers[0]
	dir := cfg.WorkerDir(0)

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	stores, err := store.Open(afero.NewOsFs(), dir, config.WorkerStores(worker))
	if err != nil {
		return err
	}
	defer stores.Close()

	e := engine.Open(stores, log)
	defer e.Close()

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg, e); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// /stats is the spec's name for this endpoint; it serves the
	// Collector's gauges, which re-read GetStats() on every scrape.
	mux.Handle("/stats", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("agent listening", zap.String("addr", listen), zap.String("instance_id", stores.InstanceID()))
	return s.ListenAndServe()
}
