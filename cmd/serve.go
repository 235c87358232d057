// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"pii-anonymizer/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the anonymizer over HTTP",
		Long: `Serve the anonymizer over HTTP until interrupted.

  GET  /health          service status
  POST /anonymize       {"text": "..."} → anonymized text
  POST /analyze         {"text": "..."} → detected spans
  POST /anonymize/file  multipart upload (field "file", optional "columns")`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			anon, err := a.anonymizer()
			if err != nil {
				return err
			}
			srv := web.NewWebServer(addr, anon, a.cfg.ProcessColumns, a.cfg.Analysis.Workers, a.observer)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	return cmd
}
