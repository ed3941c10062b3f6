// Package main provides carefinder-cli, an operator tool for checking
// configuration and running searches and routes without the HTTP server.
package main

import (
	"fmt"
	"os"

	carefinder "github.com/ferro-labs/carefinder"
	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "carefinder-cli",
		Short:        "CareFinder command line tool",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CAREFINDER_CONFIG"),
		"config file (JSON/YAML); environment overrides still apply")

	// load resolves the effective config and routes logs to stderr so that
	// command output stays machine-readable.
	load := func(cmd *cobra.Command) (*carefinder.Config, error) {
		cfg, err := carefinder.Resolve(configPath)
		if err != nil {
			return nil, err
		}
		logging.Logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		return cfg, nil
	}

	root.AddCommand(
		newValidateCmd(),
		newSearchCmd(load),
		newRouteCmd(load),
		newVersionCmd(),
	)
	return root
}

type configLoader func(cmd *cobra.Command) (*carefinder.Config, error)

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
