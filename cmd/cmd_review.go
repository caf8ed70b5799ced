// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/review"
)

var reviewBind string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse recorded runs",
}

var reviewServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review JSON API (local only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, repo, err := openLedger(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		bind := cfg.Review.Bind
		if cmd.Flags().Changed("bind") {
			bind = reviewBind
		}

		fmt.Println("🗺️  Review server starting...")
		fmt.Printf("📍 Open http://%s/api/runs\n", bind)
		fmt.Println("🔒 Keep the bind address on localhost; the API has no authentication")

		return review.NewServer(repo).Run(bind)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewServeCmd)
	reviewServeCmd.Flags().StringVar(&reviewBind, "bind", "127.0.0.1:8080", "Address to listen on (overrides review.bind)")
}
