package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/agentlog/internal/aggregator"
	"github.com/atikulmunna/agentlog/internal/docs"
	"github.com/atikulmunna/agentlog/internal/hub"
	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/atikulmunna/agentlog/internal/logfile"
	"github.com/atikulmunna/agentlog/internal/relay"
	"github.com/atikulmunna/agentlog/internal/server"
	"github.com/atikulmunna/agentlog/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend",
	Long: `Serve the HTTP API, the WebSocket push channel and the embedded dashboard.
Files matching watch.patterns are relayed to connected clients whenever
they change.

Examples:
  agentlog serve
  agentlog serve --port 8080 --watch "../painting-estimator/*.md"`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "HTTP port (default: 3001)")
	serveCmd.Flags().StringSlice("watch", nil, "glob patterns of files to relay on change")
	serveCmd.Flags().StringSlice("docs-dir", nil, "directories searched for documentation, in order")
	serveCmd.Flags().Bool("access-log", false, "log every HTTP request")
	cobra.CheckErr(viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port")))
	cobra.CheckErr(viper.BindPFlag("watch.patterns", serveCmd.Flags().Lookup("watch")))
	cobra.CheckErr(viper.BindPFlag("docs.dirs", serveCmd.Flags().Lookup("docs-dir")))
	cobra.CheckErr(viper.BindPFlag("server.access_log", serveCmd.Flags().Lookup("access-log")))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.IngestOptions()
	if err != nil {
		return err
	}

	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nagentlog shutting down gracefully...")
		cancel()
	}()

	// --- Push channel ---
	h := hub.New()
	go h.Start(ctx)

	// --- File relay ---
	w, err := watcher.New(cfg.Watch.Patterns)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	go w.Start(ctx)
	go relay.New(w, h).Start(ctx)

	// --- Metrics ---
	agg := aggregator.New(h.Subscribe(), h.Dropped, func() int { return len(w.Paths()) })
	go agg.Start(ctx)

	// --- Ingestion ---
	logFile := logfile.New(cfg.Log.Path)
	svc := ingest.New(logFile, h, opts)
	lib := docs.NewLibrary(cfg.Docs.Allowed, cfg.Docs.Dirs)

	srv := server.New(svc, lib, h, agg, server.Options{
		Port:       cfg.Server.Port,
		CORSOrigin: cfg.Server.CORSOrigin,
		AccessLog:  cfg.Server.AccessLog,
		StatsDir:   cfg.Stats.Dir,

		TrustedProxies: cfg.Server.TrustedProxies,
	})

	log.Printf("[INFO] HTTP server:  http://localhost:%s", cfg.Server.Port)
	log.Printf("[INFO] WebSocket:    ws://localhost:%s/ws", cfg.Server.Port)
	log.Printf("[INFO] Log file:     %s", logFile.Path())
	log.Printf("[INFO] Watching %d file(s)", len(w.Paths()))
	for _, p := range w.Paths() {
		log.Printf("[INFO]   • %s", p)
	}
	log.Printf("[INFO] CORS enabled for: %s", cfg.Server.CORSOrigin)

	return srv.Start(ctx)
}
