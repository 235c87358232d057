// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pii-anonymizer/internal/config"
	"pii-anonymizer/internal/core"
	"pii-anonymizer/internal/observability"
)

// globalFlags holds the persistent command line flags.
type globalFlags struct {
	configFile   string
	profile      string
	mode         string
	entities     []string
	pseudonymize []string
	nerEndpoints []string
	degraded     bool
	debug        bool
	noColor      bool
}

// app is the state shared by subcommands once flags are resolved.
type app struct {
	flags    globalFlags
	cfg      *config.Config
	observer *observability.StandardObserver
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pii-anonymizer",
		Short: "Detect and anonymize personal data in French text",
		Long: `pii-anonymizer finds personal data (names, places, organizations, bank
accounts, zip codes, ...) in text, CSV and PDF documents and replaces it
with fixed tokens, review flags or consistent pseudonyms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "Path to configuration file (YAML)")
	pf.StringVar(&a.flags.profile, "profile", "", "Profile name to use from config file")
	pf.StringVar(&a.flags.mode, "mode", "", "Replacement mode: suppress, flag or pseudonymize-selected")
	pf.StringSliceVar(&a.flags.entities, "entities", nil, "Entity kinds to replace (default: config entities, which exclude AGE)")
	pf.StringSliceVar(&a.flags.pseudonymize, "pseudonymize", nil, "Entity kinds replaced by pseudonyms in pseudonymize-selected mode")
	pf.StringArrayVar(&a.flags.nerEndpoints, "ner-endpoint", nil, "Model backend URL serving /classify (repeatable)")
	pf.BoolVar(&a.flags.degraded, "degraded", false, "Continue with partial results when a recognizer fails")
	pf.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newTextCmd(a),
		newFileCmd(a),
		newAnalyzeCmd(a),
		newEntitiesCmd(a),
		newProfilesCmd(a),
		newAllowCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and applies flags on top of it.
func (a *app) setup(cmd *cobra.Command) error {
	if a.flags.noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	configPath := a.flags.configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if a.flags.profile != "" {
		if err := cfg.ApplyProfile(a.flags.profile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = a.flags.mode
	}
	if flags.Changed("entities") {
		cfg.Entities = a.flags.entities
	}
	if flags.Changed("pseudonymize") {
		cfg.Pseudonymize = a.flags.pseudonymize
	}
	if flags.Changed("degraded") {
		cfg.Analysis.Degraded = a.flags.degraded
	}
	for i, endpoint := range a.flags.nerEndpoints {
		cfg.Models = append(cfg.Models, config.ModelConfig{
			Name:     fmt.Sprintf("ner-%d", i+1),
			Endpoint: endpoint,
		})
	}
	if a.flags.debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Observability = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.observer = observability.NewStandardObserver(observabilityLevel(cfg.Logging.Observability), logger)
	return nil
}

func (a *app) anonymizer() (*core.Anonymizer, error) {
	return core.New(a.cfg, core.WithObserver(a.observer))
}

func observabilityLevel(s string) observability.ObservabilityLevel {
	switch strings.ToLower(s) {
	case "off":
		return observability.ObservabilityOff
	case "debug":
		return observability.ObservabilityDebug
	default:
		return observability.ObservabilityMetrics
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
