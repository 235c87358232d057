// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/documents"
	"pii-anonymizer/internal/help"
	"pii-anonymizer/internal/redactors/replacement"
	"pii-anonymizer/internal/validators/pattern"
	"pii-anonymizer/internal/version"
)

// readInput joins args, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if cmd.InOrStdin() == os.Stdin && !stdinIsPiped() {
		return "", fmt.Errorf("no text given: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text [text...]",
		Short: "Anonymize text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			anon, err := a.anonymizer()
			if err != nil {
				return err
			}
			out, err := anon.Anonymize(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newFileCmd(a *app) *cobra.Command {
	var columns []int
	var workers int

	cmd := &cobra.Command{
		Use:   "file <path>...",
		Short: "Anonymize CSV, text or PDF files",
		Long: `Anonymize each file and write the result next to it as
<name>_anonymized.<ext>. PDF files produce a text file. For CSV files the
header row is kept and only the selected columns are processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("columns") {
				a.cfg.ProcessColumns = columns
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Analysis.Workers
			}
			anon, err := a.anonymizer()
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen)
			failed := color.New(color.FgRed)
			var errs int
			for _, path := range args {
				dst, err := documents.AnonymizeFile(cmd.Context(), path, a.cfg.ProcessColumns, anon.Anonymize,
					documents.WithWorkers(workers),
					documents.WithObserver(a.observer),
				)
				if err != nil {
					errs++
					failed.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
					continue
				}
				ok.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", path, dst)
			}
			if errs > 0 {
				return fmt.Errorf("%d of %d files failed", errs, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&columns, "columns", nil, "0-based CSV columns to anonymize (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent CSV cells (default from config)")
	return cmd
}

// spanView is the JSON shape of a detected span. The matched text is only
// included on request.
type spanView struct {
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Entity string  `json:"entity_type"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	Text   string  `json:"text,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON, showMatch bool

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "List the entities that would be replaced, without rewriting",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			anon, err := a.anonymizer()
			if err != nil {
				return err
			}
			spans, err := anon.Analyze(cmd.Context(), text)
			if err != nil {
				return err
			}

			views := make([]spanView, len(spans))
			for i, s := range spans {
				views[i] = spanView{Start: s.Start, End: s.End, Entity: string(s.EntityType), Score: s.Score, Source: s.Source}
				if showMatch {
					views[i].Text = detector.Slice(text, s)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "START\tEND\tENTITY\tSCORE\tSOURCE\tTEXT")
			for _, v := range views {
				match := v.Text
				if !showMatch {
					match = "[HIDDEN]"
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\t%s\t%s\n", v.Start, v.End, v.Entity, v.Score, v.Source, match)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print spans as JSON")
	cmd.Flags().BoolVar(&showMatch, "show-match", false, "Include the matched text")
	return cmd
}

func newEntitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entities [KIND]",
		Short: "Describe the entity kinds and how they are replaced",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := replacement.New(nil)
			if err != nil {
				return err
			}
			cfgs, err := pattern.DefaultConfigs()
			if err != nil {
				return err
			}
			cfgs = pattern.MergeRecognizers(cfgs, a.cfg.Recognizers.Custom)
			catalog := help.BuildCatalog(gens, cfgs, a.cfg.Language)

			h := help.NewSystem(cmd.OutOrStdout(), color.NoColor)
			if len(args) == 0 {
				h.ShowEntities(catalog)
				return nil
			}
			info, ok := help.Find(catalog, args[0])
			if !ok {
				return fmt.Errorf("unknown entity kind %q", args[0])
			}
			h.ShowEntity(info)
			return nil
		},
	}
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the configured profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tMODE\tDESCRIPTION")
			for _, name := range a.cfg.ListProfiles() {
				p := a.cfg.GetProfile(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Mode, p.Description)
			}
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// stdinIsPiped reports whether stdin is not a terminal.
func stdinIsPiped() bool {
	return !isTerminal(os.Stdin)
}
