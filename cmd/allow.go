// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os/user"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pii-anonymizer/internal/allowlist"
)

func newAllowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allow",
		Short: "Manage values that are never anonymized",
	}

	load := func() (*allowlist.Manager, error) {
		return allowlist.Load(a.cfg.AllowList.File)
	}

	var entity, reason string
	var hashOnly bool
	var expires time.Duration
	add := &cobra.Command{
		Use:   "add <value>",
		Short: "Allow a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load()
			if err != nil {
				return err
			}
			var expiresAt *time.Time
			if expires > 0 {
				t := time.Now().Add(expires)
				expiresAt = &t
			}
			rule, err := m.Add(entity, args[0], reason, currentUser(), expiresAt, hashOnly)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", rule.ID, m.Path())
			return nil
		},
	}
	add.Flags().StringVar(&entity, "entity", "", "Restrict the rule to one entity kind")
	add.Flags().StringVar(&reason, "reason", "", "Why the value is allowed")
	add.Flags().BoolVar(&hashOnly, "hash-only", false, "Store a hash instead of the value")
	add.Flags().DurationVar(&expires, "expires", 0, "Expire the rule after this duration")

	list := &cobra.Command{
		Use:   "list",
		Short: "List allow rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tENTITY\tVALUE\tEXPIRES\tREASON")
			for _, r := range m.List() {
				value := r.Value
				if value == "" {
					value = "[HASH " + r.Hash[:min(12, len(r.Hash))] + "]"
				}
				entity := r.EntityType
				if entity == "" {
					entity = "*"
				}
				expiry := "never"
				if r.ExpiresAt != nil {
					expiry = r.ExpiresAt.Format(time.DateOnly)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, entity, value, expiry, r.Reason)
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an allow rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load()
			if err != nil {
				return err
			}
			return m.Remove(args[0])
		},
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := load()
			if err != nil {
				return err
			}
			n, err := m.CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired rules\n", n)
			return nil
		},
	}

	cmd.AddCommand(add, list, remove, cleanup)
	return cmd
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
