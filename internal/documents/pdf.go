// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"pii-anonymizer/internal/observability"
)

// ExtractPDFText returns the plain text of every page, pages separated by a
// blank line. Pages that fail to decode are skipped with a warning.
func ExtractPDFText(path string, observer *observability.StandardObserver) (string, error) {
	if observer == nil {
		observer = observability.Nop()
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %v", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			observer.Logger().WithFields(logrus.Fields{
				"component": "documents",
				"page":      i,
				"error":     err.Error(),
			}).Warn("skipping unreadable PDF page")
			continue
		}
		if text = cleanLines(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// cleanLines trims every line, collapses inner runs of blanks and drops
// empty lines.
func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
