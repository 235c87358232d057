// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/redactors"
	"pii-anonymizer/internal/redactors/replacement"
	"pii-anonymizer/internal/validators/pattern"
)

// EntityInfo describes how one entity kind is detected and replaced.
type EntityInfo struct {
	Kind          detector.EntityKind
	Description   string
	SuppressToken string
	FlagToken     string
	Pseudonym     bool
	Recognizers   []string
	Context       []string
}

var descriptions = map[detector.EntityKind]string{
	detector.Person:        "Names of people, with or without an honorific",
	detector.Location:      "Cities, regions and street addresses",
	detector.Organization:  "Companies, banks, insurers, hospitals, schools and other bodies",
	detector.Age:           "Ages of people",
	detector.DateTime:      "Dates and times",
	detector.ID:            "Identifiers such as case, contract or insurance numbers",
	detector.EmailAddress:  "E-mail addresses",
	detector.URL:           "Web addresses",
	detector.ZipCode:       "Swiss postal codes between commas",
	detector.BankAccount:   "IBANs and account numbers",
	detector.AddressNumber: "House numbers following a street name",
	detector.PhoneNumber:   "Telephone numbers",
	detector.Misc:          "Other named entities reported by models",
}

// BuildCatalog lists every known kind with its tokens, whether gens can
// pseudonymize it, and the pattern recognizers that report it.
func BuildCatalog(gens *replacement.Generators, recognizers []pattern.RecognizerConfig, language string) []EntityInfo {
	byKind := make(map[detector.EntityKind]*EntityInfo)
	var out []EntityInfo
	for _, k := range detector.KnownKinds() {
		if k == detector.Default {
			continue
		}
		out = append(out, EntityInfo{
			Kind:          k,
			Description:   descriptions[k],
			SuppressToken: strings.TrimSpace(redactors.SuppressToken(k)),
			FlagToken:     strings.TrimSpace(redactors.FlagToken(k)),
			Pseudonym:     gens != nil && gens.Supports(k),
		})
	}
	for i := range out {
		byKind[out[i].Kind] = &out[i]
	}
	for _, rc := range recognizers {
		if !rc.IsEnabled() {
			continue
		}
		kind, err := detector.ParseEntityKind(rc.SupportedEntity)
		if err != nil {
			continue
		}
		if info, ok := byKind[kind]; ok {
			info.Recognizers = append(info.Recognizers, rc.Name)
			info.Context = append(info.Context, rc.ContextFor(language)...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// System prints entity help.
type System struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"positive": color.New(color.FgGreen),
		"negative": color.New(color.FgRed),
		"example":  color.New(color.FgMagenta),
	}
	for _, c := range colors {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return &System{out: out, colors: colors}
}

// ShowEntities displays the catalog as a table.
func (h *System) ShowEntities(catalog []EntityInfo) {
	h.colors["title"].Fprintln(h.out, "Entity kinds")
	fmt.Fprintln(h.out, "============")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KIND\tSUPPRESS TOKEN\tPSEUDONYM\tDESCRIPTION")
	fmt.Fprintln(w, "  ----\t--------------\t---------\t-----------")
	for _, info := range catalog {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", info.Kind, info.SuppressToken, yesNo(info.Pseudonym), info.Description)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "Use 'pii-anonymizer entities <KIND>' for details.")
}

// ShowEntity displays one entry of the catalog.
func (h *System) ShowEntity(info EntityInfo) {
	h.colors["title"].Fprintln(h.out, info.Kind)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Kind)))
	if info.Description != "" {
		fmt.Fprintln(h.out, info.Description)
	}
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "REPLACEMENT:")
	fmt.Fprintf(h.out, "  suppress      %s\n", info.SuppressToken)
	fmt.Fprintf(h.out, "  flag          %s\n", info.FlagToken)
	if info.Pseudonym {
		h.colors["positive"].Fprintln(h.out, "  pseudonymize  generated value, consistent across documents")
	} else {
		h.colors["negative"].Fprintln(h.out, "  pseudonymize  not available")
	}

	if len(info.Recognizers) > 0 {
		fmt.Fprintln(h.out)
		h.colors["header"].Fprintln(h.out, "PATTERN RECOGNIZERS:")
		for _, r := range info.Recognizers {
			h.colors["item"].Fprintf(h.out, "  %s\n", r)
		}
	}
	if len(info.Context) > 0 {
		fmt.Fprintln(h.out)
		h.colors["header"].Fprintln(h.out, "CONTEXT WORDS:")
		fmt.Fprintf(h.out, "  %s\n", strings.Join(info.Context, ", "))
	}
}

// Find returns the catalog entry for name, accepting aliases.
func Find(catalog []EntityInfo, name string) (EntityInfo, bool) {
	kind, err := detector.ParseEntityKind(name)
	if err != nil {
		return EntityInfo{}, false
	}
	for _, info := range catalog {
		if info.Kind == kind {
			return info, true
		}
	}
	return EntityInfo{}, false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
