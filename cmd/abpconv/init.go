package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/abpconv.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".abpconv"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new abpconv configuration file",
		Long: `Init creates a new .abpconv configuration file in the current directory.

The generated file includes:
- The built-in filter sources and how to override them
- Commented examples for adding custom sources
- Documentation for the per-source output path

Examples:
  # Create .abpconv in current directory
  abpconv init

  # Create config file at a specific path
  abpconv init -o myconfig.yaml

  # Force overwrite existing file
  abpconv init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/abpconv.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure filter sources such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Custom filter list URLs")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Mirrors for the built-in sources")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Default output paths per source")

	return nil
}
