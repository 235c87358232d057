// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package documents reads CSV, text and PDF files, anonymizes their content
// and writes the result next to the input.
package documents

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pii-anonymizer/internal/observability"
	"pii-anonymizer/internal/parallel"
)

// Format is a supported input format.
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	default:
		return "text"
	}
}

// ErrUnsupportedFormat is returned for file types that cannot be processed.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// OutputSuffix is inserted between the file name and its extension.
const OutputSuffix = "_anonymized"

var textExtensions = map[string]bool{
	".txt": true, ".text": true, ".md": true, ".log": true, "": true,
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".csv":
		return FormatCSV, nil
	case ext == ".pdf":
		return FormatPDF, nil
	case textExtensions[ext]:
		return FormatText, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// OutputPath returns where the anonymized copy of path is written. PDF
// input produces a text file.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if strings.EqualFold(ext, ".pdf") {
		ext = ".txt"
	}
	return base + OutputSuffix + ext
}

type options struct {
	workers  int
	observer *observability.StandardObserver
}

// Option configures AnonymizeFile.
type Option func(*options)

// WithWorkers bounds the number of CSV cells processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithObserver sets the observer.
func WithObserver(obs *observability.StandardObserver) Option {
	return func(o *options) { o.observer = obs }
}

// AnonymizeFile runs fn over the content of path and writes the result to
// OutputPath(path). For CSV files only the given 0-based columns are
// processed. It returns the output path.
func AnonymizeFile(ctx context.Context, path string, columns []int, fn parallel.ProcessFunc, opts ...Option) (string, error) {
	o := options{observer: observability.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return "", err
	}
	done := o.observer.StartTiming("documents", "anonymize_file", filepath.Base(path))

	var out []byte
	switch format {
	case FormatCSV:
		in, rerr := os.ReadFile(path)
		if rerr != nil {
			done(false, nil)
			return "", fmt.Errorf("reading %s: %w", path, rerr)
		}
		var buf bytes.Buffer
		err = AnonymizeCSV(ctx, bytes.NewReader(in), &buf, columns, fn, o.workers, o.observer)
		out = buf.Bytes()
	case FormatPDF:
		var text string
		text, err = ExtractPDFText(path, o.observer)
		if err == nil {
			text, err = fn(ctx, text)
		}
		out = []byte(text)
	default:
		var in []byte
		in, err = os.ReadFile(path)
		if err == nil {
			var text string
			text, err = fn(ctx, string(in))
			out = []byte(text)
		}
	}
	if err != nil {
		done(false, map[string]interface{}{"format": format.String()})
		return "", fmt.Errorf("anonymizing %s: %w", path, err)
	}

	dst := OutputPath(path)
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		done(false, nil)
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	done(true, map[string]interface{}{"format": format.String(), "bytes": len(out)})
	return dst, nil
}

type cellRef struct{ row, col int }

// AnonymizeCSV copies r to w, running fn over the selected columns of every
// row after the header. Columns beyond a row's width are ignored, and blank
// cells are copied unchanged.
func AnonymizeCSV(ctx context.Context, r io.Reader, w io.Writer, columns []int, fn parallel.ProcessFunc, workers int, observer *observability.StandardObserver) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing csv: %w", err)
	}

	var refs []cellRef
	var cells []string
	for i := 1; i < len(records); i++ {
		for _, col := range columns {
			if col < 0 || col >= len(records[i]) {
				continue
			}
			if strings.TrimSpace(records[i][col]) == "" {
				continue
			}
			refs = append(refs, cellRef{row: i, col: col})
			cells = append(cells, records[i][col])
		}
	}

	if observer != nil && observer.DebugObserver != nil {
		observer.DebugObserver.LogMetric("documents", "csv_cells", len(cells))
	}
	outputs, err := parallel.Map(ctx, workers, cells, fn, observer)
	if err != nil {
		return err
	}
	for i, ref := range refs {
		records[ref.row][ref.col] = outputs[i]
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
