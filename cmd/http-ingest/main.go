package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/guided-traffic/http-ingest/internal/config"
	"github.com/guided-traffic/http-ingest/internal/monitoring"
	"github.com/guided-traffic/http-ingest/internal/server"
)

var (
	// Build information injected at build time
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "http-ingest",
		Short: "HTTP body ingestion server",
		Long: `http-ingest is an HTTP server whose middleware pipeline drains each
request body off the transport, selects a decoder from the declared
Content-Type, and hands handlers a fully parsed body so they never touch the
socket themselves.

Supported body types:
- application/json (parameters stripped before matching)
- application/x-www-form-urlencoded
- text/* (any variant, with or without parameters)
- multipart/form-data (boundary taken from the Content-Type header)
- anything else is kept as opaque bytes

Parsing is fail-open: a body that cannot be parsed never rejects the request;
handlers simply see no parsed body.

All configuration is done through YAML configuration files. Use --config to
specify a configuration file, or the server will look for configuration in
standard locations.`,
		Run: runServer,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file (YAML format)")
}

func initConfig() {
	config.InitConfig(cfgFile)
}

func runServer(cmd *cobra.Command, args []string) {
	logrus.WithFields(logrus.Fields{
		"version":   version,
		"commit":    commit,
		"buildTime": buildTime,
	}).Info("http-ingest build information")

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid log level")
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	server.SetBuildInfo(version, commit, buildTime)
	monitoring.SetServerInfo(version, commit, buildTime)

	ingestServer, err := server.NewServer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Monitoring.Enabled {
		monitoringServer := monitoring.NewServer(&monitoring.Config{
			BindAddress: cfg.Monitoring.BindAddress,
			MetricsPath: cfg.Monitoring.MetricsPath,
		})
		go func() {
			if err := monitoringServer.Start(ctx); err != nil {
				logrus.WithError(err).Error("Monitoring server failed")
			}
		}()
	}

	go func() {
		logrus.WithField("address", cfg.BindAddress).Info("Starting HTTP ingestion server")
		if err := ingestServer.Start(ctx); err != nil {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	<-sigChan
	logrus.Info("Received shutdown signal, gracefully shutting down...")

	cancel()

	logrus.Info("Server stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
