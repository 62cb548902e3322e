// Package main serves the wifitoggle check and toggle pages over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/wifitoggle/pkg/config"
	"github.com/entrhq/wifitoggle/pkg/logging"
	"github.com/entrhq/wifitoggle/pkg/orchestrator"
	"github.com/entrhq/wifitoggle/pkg/server"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Addr       string
	ConfigFile string
	Headful    bool
}

func main() {
	cli := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cli)
	_ = logging.Shutdown()
	if err != nil {
		log.Printf("Server failed: %v", err)
		os.Exit(1)
	}
}

func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.Addr, "addr", envOr("WIFITOGGLE_ADDR", ":5000"), "Address to listen on")
	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML, default ~/.wifitoggle/config.yaml)")
	flag.BoolVar(&cli.Headful, "headful", false, "Do not run the browser in headless mode")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wifitoggle-web - Check and toggle wifi from a browser.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wifitoggle-web [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *CLIConfig) error {
	path, optional := cli.ConfigFile, false
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
		optional = true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if cli.Headful {
		cfg.Browser.Headful = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Printf("Router IP: %s. Extension IP: %s", cfg.Router.IP, cfg.Extension.IP)
	log.Printf("Listening on %s", cli.Addr)

	srv := server.New(orchestrator.NewRunner(cfg))
	return srv.ListenAndServe(ctx, cli.Addr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
