// Package main provides the entry point for the abpconv CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for abpconv.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abpconv",
		Short: "Convert AdBlock Plus filter lists to WebKit content blocker JSON",
		Long: `abpconv converts AdBlock Plus filter lists (EasyList syntax) into the
WebKit content blocker JSON format used by Safari and GNOME Web.

Network filter rules are translated into url-filter regular expressions.
Comments, cosmetic rules, exception rules, and domain-scoped rules are
skipped and counted. Remote filter sources can be fetched and cached with
the fetch command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
