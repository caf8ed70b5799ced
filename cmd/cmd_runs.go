// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/config"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/ledger"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/utils/textutil"
)

var runsLimit int

var runsStatus string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the history of sort runs",
}

// openLedger opens the existing ledger named in the configuration.
func openLedger(cfg *config.Config) (*sql.DB, ledger.Repository, error) {
	if _, err := os.Stat(cfg.Paths.Ledger); errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("ledger not found at %s - run 'sort' first", cfg.Paths.Ledger)
	}

	db, err := ledger.Open(cfg.Paths.Ledger)
	if err != nil {
		return nil, nil, err
	}

	repo := ledger.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	return db, repo, nil
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, repo, err := openLedger(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := repo.ListRuns(context.Background(), runsLimit)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			mode := "move"
			if run.DryRun {
				mode = "dry-run"
			}

			rows = append(rows, []string{
				run.ID,
				run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				mode,
				run.InputDir,
				textutil.FormatInt(int64(run.Total)),
				textutil.FormatInt(int64(run.Moved + run.Planned)),
				textutil.FormatInt(int64(run.Uncategorized)),
				textutil.FormatInt(int64(run.Failed)),
			})
		}

		fmt.Println(renderTable(
			[]string{"Run", "Started", "Mode", "Input", "Files", "Sorted", "Uncategorized", "Failed"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		))

		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "List where every photo of a run went",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, repo, err := openLedger(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if _, err := repo.GetRun(ctx, args[0]); err != nil {
			return err
		}

		photos, err := repo.ListPhotos(ctx, args[0], runsStatus)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(photos))
		for _, p := range photos {
			location := ""
			if p.Point != nil {
				location = p.Point.String()
			}

			rows = append(rows, []string{strconv.Itoa(p.Seq), p.SourcePath, p.Status, p.LabelSource, location, p.Destination, p.Error})
		}

		fmt.Println(renderTable(
			[]string{"#", "Source", "Status", "Rule", "Location", "Destination", "Error"},
			rows,
			[]columnAlignment{alignRight},
		))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list (0 for all)")
	runsShowCmd.Flags().StringVar(&runsStatus, "status", "", "Only show photos with this status (moved, planned, failed)")
}
