// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ner adapts statistical entity taggers to the detector.Recognizer
// interface: either an HTTP sidecar serving a token-classification model, or
// any Go function returning tagger output.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/resilience"
)

// DefaultTimeout bounds a single request to a sidecar.
const DefaultTimeout = 30 * time.Second

// Client calls a model sidecar's /classify endpoint.
type Client struct {
	name   string
	url    string
	http   *http.Client
	retry  resilience.RetryConfig
	logger logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. to change the timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the sidecar at baseURL
// (e.g. "http://camembert-ner:8001").
func NewClient(name, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		name:   name,
		url:    strings.TrimRight(baseURL, "/") + "/classify",
		http:   &http.Client{Timeout: DefaultTimeout},
		retry:  resilience.DefaultRetryConfig(),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse accepts both the HuggingFace pipeline shape
// ({"entities":[{"entity_group":...}]}) and a plain span list
// ({"spans":[{"label":...}]}).
type classifyResponse struct {
	Entities []wireEntity `json:"entities"`
	Spans    []wireEntity `json:"spans"`
}

type wireEntity struct {
	EntityGroup string   `json:"entity_group"`
	Entity      string   `json:"entity"`
	Label       string   `json:"label"`
	Score       *float64 `json:"score"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
}

func (w wireEntity) toModel() detector.ModelEntity {
	label := w.EntityGroup
	if label == "" {
		label = w.Entity
	}
	if label == "" {
		label = w.Label
	}
	score := 1.0
	if w.Score != nil {
		score = *w.Score
	}
	return detector.ModelEntity{Label: label, Score: score, Start: w.Start, End: w.End}
}

func (c *Client) Name() string { return c.name }

// Recognize sends text to the sidecar. Transport failures and 5xx answers are
// retried; when retries run out the error is returned, never an empty result.
func (c *Client) Recognize(ctx context.Context, text string) ([]detector.Span, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ner %s: marshal: %w", c.name, err)
	}

	retry := c.retry
	retry.OnRetry = func(attempt int, err error) {
		c.logger.WithFields(logrus.Fields{
			"recognizer": c.name,
			"attempt":    attempt,
		}).WithError(err).Warn("model backend call failed, retrying")
	}

	entities, err := resilience.RetryWithResult(ctx, retry, func(ctx context.Context) ([]detector.ModelEntity, error) {
		return c.classify(ctx, body)
	})
	if err != nil {
		return nil, fmt.Errorf("ner %s: %w", c.name, err)
	}
	return detector.FromModel(entities), nil
}

func (c *Client) classify(ctx context.Context, body []byte) ([]detector.ModelEntity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, resilience.NewPermanentError("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &resilience.StatusError{Endpoint: c.url, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, resilience.NewPermanentError("decoding response", err)
	}

	out := make([]detector.ModelEntity, 0, len(result.Entities)+len(result.Spans))
	for _, e := range result.Entities {
		out = append(out, e.toModel())
	}
	for _, e := range result.Spans {
		out = append(out, e.toModel())
	}
	return out, nil
}

// TaggerFunc runs an in-process model.
type TaggerFunc func(ctx context.Context, text string) ([]detector.ModelEntity, error)

// Func wraps a TaggerFunc as a Recognizer, mapping its labels.
type Func struct {
	name string
	fn   TaggerFunc
}

// NewFunc returns a Recognizer backed by fn.
func NewFunc(name string, fn TaggerFunc) *Func {
	return &Func{name: name, fn: fn}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Recognize(ctx context.Context, text string) ([]detector.Span, error) {
	entities, err := f.fn(ctx, text)
	if err != nil {
		return nil, err
	}
	return detector.FromModel(entities), nil
}
