// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/config"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/geocoding"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/ledger"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/organizer"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/photometa"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/utils/textutil"
)

type sortFlags struct {
	APIKey       string
	DryRun       bool
	ASCIIFolders bool
	NoLedger     bool
}

var sortOptions = &sortFlags{}

var sortCmd = &cobra.Command{
	Use:   "sort [input-dir] [output-dir]",
	Short: "Move every photo of input-dir into output-dir/<city>/<landmark>/",
	Long: `Reads the photos directly under input-dir (subdirectories are not visited),
resolves where each one was taken and moves it into output-dir. The directories
default to paths.input_dir and paths.output_dir from the configuration.

A Google Maps API key is required. It is taken from --api-key, the
GOOGLE_MAPS_API_KEY environment variable or geocoding.api_key, and as a last
resort looked up through Application Default Credentials.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := applySortFlags(cmd, cfg, args); err != nil {
			return err
		}

		if err := cfg.ValidateSortPaths(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		resolver, err := newResolver(ctx, cfg, true)
		if err != nil {
			return err
		}

		var (
			repo     ledger.Repository
			run      *ledger.Run
			recorder organizer.Recorder
		)

		if cfg.Organizer.RecordRuns && !sortOptions.NoLedger {
			db, err := ledger.Open(cfg.Paths.Ledger)
			if err != nil {
				return err
			}
			defer db.Close()

			repo = ledger.NewRepository(db)
			if err := repo.CreateSchema(); err != nil {
				return fmt.Errorf("creating ledger schema: %w", err)
			}

			run, err = repo.StartRun(ctx, cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Organizer.DryRun)
			if err != nil {
				return err
			}

			recorder = repo.Recorder(run.ID)
		}

		o := organizer.New(organizer.Options{
			InputDir:     cfg.Paths.InputDir,
			OutputDir:    cfg.Paths.OutputDir,
			DryRun:       cfg.Organizer.DryRun,
			ASCIIFolders: cfg.Organizer.ASCIIFolders,
			ShowProgress: true,
		}, &photometa.Decoder{}, resolver, recorder)

		report, runErr := o.Run(ctx)

		if report != nil && run != nil {
			// The interrupt context may already be cancelled.
			if err := repo.FinishRun(context.Background(), run.ID, report); err != nil {
				log.Printf("⚠️ Could not close run %s in the ledger: %v", run.ID, err)
			}
		}

		if report != nil && run != nil {
			log.Printf("Run %s recorded in %s", run.ID, cfg.Paths.Ledger)
		}

		return finishSort(os.Stdout, report, runErr, cfg.Paths.OutputDir)
	},
}

// finishSort prints what was done, even for an interrupted run, and returns
// the command error.
func finishSort(w io.Writer, report *organizer.Report, runErr error, outputDir string) error {
	if report != nil {
		printSortSummary(w, report, outputDir)
	}

	if runErr != nil {
		return runErr
	}

	if err := report.Err(); err != nil {
		return fmt.Errorf("%d of %d files could not be moved: %w",
			report.Count(organizer.StatusFailed), len(report.Results), err)
	}

	return nil
}

func applySortFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	var err error

	if len(args) > 0 {
		if cfg.Paths.InputDir, err = config.ExpandPath(args[0]); err != nil {
			return err
		}
	}

	if len(args) > 1 {
		if cfg.Paths.OutputDir, err = config.ExpandPath(args[1]); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("api-key") {
		cfg.Geocoding.APIKey = sortOptions.APIKey
	}

	if cmd.Flags().Changed("dry-run") {
		cfg.Organizer.DryRun = sortOptions.DryRun
	}

	if cmd.Flags().Changed("ascii-folders") {
		cfg.Organizer.ASCIIFolders = sortOptions.ASCIIFolders
	}

	return nil
}

// newResolver wires the Google primary and Nominatim fallback geocoders. With
// requireKey set a missing Google API key is an error, otherwise the resolver
// runs on the fallback alone.
func newResolver(ctx context.Context, cfg *config.Config, requireKey bool) (*geocoding.Resolver, error) {
	client := newHTTPClient(cfg)
	fallback := geocoding.NewNominatimGeocoder(cfg.Geocoding.NominatimBaseURL, client)

	apiKey, err := geocoding.LookupAPIKey(ctx, geocoding.KeySource{
		APIKey:      cfg.Geocoding.APIKey,
		ProjectID:   cfg.Geocoding.ProjectID,
		DisplayName: cfg.Geocoding.KeyDisplayName,
	})
	if err != nil {
		if requireKey {
			return nil, err
		}

		log.Printf("⚠️ %v; using %s only", err, fallback.Name())

		return geocoding.NewResolver(nil, fallback), nil
	}

	primary := geocoding.NewGoogleMapsGeocoder(apiKey, cfg.Geocoding.GoogleBaseURL, client)

	return geocoding.NewResolver(primary, fallback), nil
}

func printSortSummary(w io.Writer, report *organizer.Report, outputDir string) {
	type folder struct{ city, landmark string }

	counts := make(map[folder]int)

	for _, res := range report.Results {
		if res.Status == organizer.StatusFailed {
			continue
		}

		rel, err := filepath.Rel(outputDir, filepath.Dir(res.Destination))
		if err != nil {
			rel = filepath.Dir(res.Destination)
		}

		city, landmark := filepath.Split(rel)
		counts[folder{filepath.Clean(city), landmark}]++
	}

	folders := make([]folder, 0, len(counts))
	for f := range counts {
		folders = append(folders, f)
	}

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].city != folders[j].city {
			return folders[i].city < folders[j].city
		}

		return folders[i].landmark < folders[j].landmark
	})

	rows := make([][]string, 0, len(folders))
	for _, f := range folders {
		rows = append(rows, []string{f.city, f.landmark, textutil.FormatInt(int64(counts[f]))})
	}

	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"City", "Landmark", "Photos"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	}

	verb := "Moved"
	done := report.Count(organizer.StatusMoved)

	if report.DryRun {
		verb = "Would move"
		done = report.Count(organizer.StatusPlanned)
	}

	fmt.Fprintf(w, "✅ %s %s of %s photos (%s with a location) in %s\n",
		verb,
		textutil.FormatInt(int64(done)),
		textutil.FormatInt(int64(len(report.Results))),
		textutil.FormatInt(int64(report.Located())),
		report.Finished.Sub(report.Started).Round(time.Millisecond),
	)

	if failed := report.Count(organizer.StatusFailed); failed > 0 {
		fmt.Fprintf(w, "⚠️ %s photos could not be moved\n", textutil.FormatInt(int64(failed)))
	}
}

func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().StringVar(
		&sortOptions.APIKey,
		"api-key",
		"",
		"Google Maps API key (overrides GOOGLE_MAPS_API_KEY and the config file)",
	)
	sortCmd.Flags().BoolVar(
		&sortOptions.DryRun,
		"dry-run",
		false,
		"Show where every photo would go without moving anything",
	)
	sortCmd.Flags().BoolVar(
		&sortOptions.ASCIIFolders,
		"ascii-folders",
		false,
		"Strip accents from folder names",
	)
	sortCmd.Flags().BoolVar(
		&sortOptions.NoLedger,
		"no-ledger",
		false,
		"Do not record the run in the ledger",
	)
}
