package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/abpconv/internal/config"
	"github.com/nao1215/abpconv/internal/converter"
	"github.com/nao1215/abpconv/internal/database"
	"github.com/nao1215/abpconv/internal/fetcher"
	"github.com/nao1215/abpconv/internal/log"
	"github.com/nao1215/abpconv/internal/model"
	"github.com/nao1215/abpconv/internal/report"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a filter list to WebKit content blocker JSON",
		Long: `Convert reads an AdBlock Plus filter list and writes the equivalent
WebKit content blocker JSON.

The input is a local filter list file, or a named source with --source
(fetched and cached first if needed). When the output path is omitted the
JSON array is written to standard output; the conversion summary always
goes to standard error.

Examples:
  # Convert a local filter list to a file
  abpconv convert easylist.txt blockerList.json

  # Convert to standard output
  abpconv convert easylist.txt

  # Convert a named source, fetching it if not cached
  abpconv convert --source easylist

  # Emit resource-type triggers for typed rules
  abpconv convert --resource-types easylist.txt

  # Write a Markdown conversion report alongside the JSON
  abpconv convert --report stats.md easylist.txt blockerList.json`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConvertCmd,
	}

	cmd.Flags().StringP("source", "s", "",
		"Convert a named filter source instead of a local file")
	cmd.Flags().Bool("resource-types", false,
		"Emit resource-type triggers for rules with a typed option")
	cmd.Flags().StringP("report", "r", "",
		"Write a Markdown conversion report to the specified path")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .abpconv in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the conversion history database")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConvertConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling so a fetch of a named source can
	// be interrupted cleanly
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

	return runConvert(ctx, cmd, cfg, logger)
}

// buildConvertConfig creates a Config from cobra command flags and arguments.
func buildConvertConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	if len(args) > 1 {
		cfg.OutputPath = args[1]
	}

	var err error
	cfg.SourceName, err = cmd.Flags().GetString("source")
	if err != nil {
		return nil, err
	}

	cfg.EmitResourceTypes, err = cmd.Flags().GetBool("resource-types")
	if err != nil {
		return nil, err
	}

	cfg.ReportPath, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadSources(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSources loads the named filter sources from the configuration file.
// An explicitly specified config file must exist; otherwise a missing file
// just means no extra sources are defined.
func loadSources(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		sources, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Sources = sources
		return nil
	}
	if explicit {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}
	cfg.Sources = &config.File{
		Sources: make(map[string]config.SourceConfig),
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runConvert executes the conversion.
func runConvert(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	inputPath := cfg.InputPath

	// A named source is fetched (or served from cache) first
	if cfg.SourceName != "" {
		source, err := fetcher.ResolveSource(cfg.SourceName, cfg.Sources)
		if err != nil {
			return err
		}

		f, err := fetcher.New(cfg, logger)
		if err != nil {
			return err
		}

		result := f.Fetch(ctx, source)
		if result.Path == "" {
			return fmt.Errorf("failed to fetch source %q: %w", cfg.SourceName, result.Err)
		}
		inputPath = result.Path

		// Named sources can carry a default output path
		if cfg.OutputPath == "" && source.Output != "" {
			cfg.OutputPath = source.Output
		}
	}

	logger.Info("starting conversion",
		"input", inputPath,
		"output", cfg.OutputPath,
		"resourceTypes", cfg.EmitResourceTypes,
	)

	var opts []converter.Option
	if cfg.EmitResourceTypes {
		opts = append(opts, converter.WithResourceTypes())
	}
	conv := converter.New(opts...)

	convReport, err := conv.ConvertFile(inputPath)
	if err != nil {
		return err
	}
	convReport.Source = cfg.SourceName
	convReport.OutputPath = cfg.OutputPath

	if err := writeRules(cfg, cmd.OutOrStdout(), convReport.Rules); err != nil {
		return err
	}

	// Diagnostics never mix into the JSON output
	fmt.Fprintf(cmd.ErrOrStderr(), "Converted %d rules (skipped %d)\n",
		convReport.Converted, convReport.Skipped)
	if cfg.OutputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", cfg.OutputPath)
	}

	if cfg.ReportPath != "" {
		if err := writeMarkdownReport(cfg.ReportPath, convReport); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.ReportPath)
	}

	// History recording is best effort: a broken database never fails a
	// conversion that already produced its output
	if cfg.SaveHistory {
		saveRun(ctx, cfg, convReport, logger)
	}

	return nil
}

// writeRules writes the rule list as JSON to the configured output file,
// or to fallback (standard output) when no file was requested.
func writeRules(cfg *config.Config, fallback io.Writer, rules []model.Rule) error {
	output := fallback
	if cfg.OutputPath != "" {
		dir := filepath.Dir(cfg.OutputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer := report.NewJSONWriter(output, report.WithPrettyPrint())
	if _, err := writer.WriteRules(rules); err != nil {
		return fmt.Errorf("failed to write rules: %w", err)
	}
	return nil
}

// writeMarkdownReport writes the conversion statistics as Markdown.
func writeMarkdownReport(path string, convReport *model.ConversionReport) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewMarkdownWriter(f).Write(convReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveRun records the conversion in the history database.
// Failures are logged and swallowed.
func saveRun(ctx context.Context, cfg *config.Config, convReport *model.ConversionReport, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	if _, err := db.SaveRun(ctx, convReport); err != nil {
		logger.Warn("failed to record conversion run", "error", err)
		return
	}
	logger.Debug("conversion run recorded", "dir", cfg.DBDir)
}
