package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/abpconv/internal/config"
	"github.com/nao1215/abpconv/internal/fetcher"
	"github.com/nao1215/abpconv/internal/log"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [source...]",
		Short: "Download filter lists from remote sources",
		Long: `Fetch downloads filter lists from their remote sources and caches them
locally. Cached copies are reused for 24 hours; a failed download falls
back to a previously cached copy when one exists.

Without arguments every known source is fetched: the built-in sources
(easylist, easyprivacy) plus any sources defined in the .abpconv
configuration file.

Examples:
  # Fetch all known sources
  abpconv fetch

  # Fetch specific sources
  abpconv fetch easylist easyprivacy

  # Re-download even if the cached copy is fresh
  abpconv fetch --force

  # Fetch through a SOCKS5 proxy
  abpconv fetch --proxy 127.0.0.1:9050`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	cmd.Flags().BoolP("force", "f", false,
		"Re-download sources even when the cached copy is fresh")
	cmd.Flags().StringP("proxy", "p", "",
		"SOCKS5 proxy address for downloads (e.g., 127.0.0.1:9050)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each download")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .abpconv in current or home directory)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFetchConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runFetch(ctx, cmd, cfg, args, logger)
}

// buildFetchConfig creates a Config from the fetch command flags.
func buildFetchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ForceFetch, err = cmd.Flags().GetBool("force")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadSources(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runFetch downloads the requested sources and prints one line per result.
func runFetch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, args []string, logger *slog.Logger) error {
	var sources []fetcher.Source
	if len(args) == 0 {
		sources = fetcher.Sources(cfg.Sources)
	} else {
		for _, name := range args {
			source, err := fetcher.ResolveSource(name, cfg.Sources)
			if err != nil {
				return err
			}
			sources = append(sources, source)
		}
	}

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return err
	}

	results, err := f.FetchAll(ctx, sources)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		switch {
		case result.Err != nil && result.Path == "":
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to fetch %s: %v\n", result.Source.Name, result.Err)
		case result.Err != nil:
			fmt.Fprintf(cmd.OutOrStdout(), "Using stale cached copy of %s: %s\n", result.Source.Name, result.Path)
		case result.FromCache:
			fmt.Fprintf(cmd.OutOrStdout(), "Using cached copy of %s: %s\n", result.Source.Name, result.Path)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %s: %s\n", result.Source.Name, result.Path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to fetch %d of %d sources", failed, len(sources))
	}
	return nil
}
