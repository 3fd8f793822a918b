// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/524D/mztab/internal/config"
	"github.com/524D/mztab/internal/logger"
)

// Program name and version, written as software in converted files
const progName = "mzTab"

var progVersion = `Unknown`

// Format of JSON output, if it ever changes we should still be able to
// parse output from old versions
const outputFormatVersion = "1.0"

// app holds what every subcommand needs
type app struct {
	configPath string
	logMode    string
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

// setup loads the configuration and builds the logger. Flags given on the
// command line win over config files.
func (a *app) setup(cmd *cobra.Command) error {
	boot, err := logger.New(a.logMode, a.logLevel)
	if err != nil {
		return err
	}
	cfg, err := config.NewLoader(boot).Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-mode") {
		cfg.Log.Mode = a.logMode
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Check(); err != nil {
		return err
	}
	l, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = l
	return nil
}

func rootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "mztab",
		Short: "Read, validate and write mzTab files",
		Long: `mztab checks mzTab 1.0 files against the format rules, converts
mzIdentML search results to mzTab and summarizes the numeric columns of
mzTab tables.

Settings are read from ~/.config/mztab/config.yaml, then ./mztab.yaml,
then the file given with --config. Command line flags win over all files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config `file` (YAML)")
	pf.StringVar(&a.logMode, "log-mode", "dev", "log format: dev (console) or prod (JSON)")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(validateCmd(a), convertCmd(a), summaryCmd(a), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show software version",
		Run: func(cmd *cobra.Command, args []string) {
			v := progVersion
			if v == `Unknown` {
				v = `Unknown
Please build this program with -ldflags "-X main.progVersion=<version>" so that the version is shown here.`
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", progName, v)
		},
	}
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
