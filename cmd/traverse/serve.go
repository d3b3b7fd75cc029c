package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/vango-dev/traverse/internal/config"
	"github.com/vango-dev/traverse/pkg/assets"
	"github.com/vango-dev/traverse/pkg/middleware"
	"github.com/vango-dev/traverse/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		address string
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application shell and run the sync bridge",
		Long: `Serve the built client assets and run the history sync bridge.

Every non-asset path gets the shell document, so deep links load the
application. Connected browsers keep their history mirrored over the
WebSocket endpoint.

Examples:
  traverse serve
  traverse serve --address=0.0.0.0:8080
  traverse serve --dir=build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(address, dir)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from traverse.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Asset directory (default from traverse.json)")

	return cmd
}

func runServe(address, dir string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if address != "" {
		cfg.Address = address
	}
	if dir != "" {
		cfg.Shell.Dir = dir
	}

	logger := newLogger(cfg.Log)

	var source assets.Source
	resolver := assets.Resolver(nil)
	if cfg.UseS3() {
		region := cfg.Shell.S3.Region
		if region == "" {
			region = "us-east-1"
		}
		client := s3.New(s3.Options{Region: region})
		source = assets.NewS3Source(client, cfg.Shell.S3.Bucket, cfg.Shell.S3.Prefix)
	} else {
		shellDir := cfg.ShellDirPath()
		source = assets.NewDirSource(shellDir)
		// A fingerprinting build drops a manifest next to the assets.
		if m, err := assets.LoadManifest(filepath.Join(shellDir, "manifest.json")); err == nil {
			resolver = assets.NewResolver(m, "")
			logger.Debug("asset manifest loaded", "dir", shellDir)
		}
	}

	var chain []middleware.Middleware
	if cfg.Metrics.Enabled {
		chain = append(chain, middleware.Prometheus())
	}
	if cfg.Tracing.Enabled {
		chain = append(chain, middleware.OpenTelemetry())
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Address = cfg.Address
	srvCfg.WSPath = cfg.WSPath
	srvCfg.ShellDocument = cfg.Shell.Document
	srvCfg.Source = source
	srvCfg.Resolver = resolver
	srvCfg.Middleware = chain
	srvCfg.Logger = logger
	if cfg.Metrics.Enabled {
		srvCfg.MetricsPath = cfg.Metrics.Path
	}

	// Mirror-only mode: applications embedding the bridge pass their
	// own mount; the CLI just keeps histories in sync.
	srv := server.New(srvCfg, nil)

	printBanner()
	info("serve")
	info("")
	success("Listening on http://%s", cfg.Address)
	if cfg.Metrics.Enabled {
		info("Metrics at %s", cfg.Metrics.Path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		info("")
		info("Shutting down...")
		cancel()
	}()

	return srv.ListenAndServe(ctx)
}

// newLogger builds the process logger from the log section of
// traverse.json.
func newLogger(lc config.LogConfig) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
