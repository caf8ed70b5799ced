// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/geocoding"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/photometa"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// isTerminal reports whether f is an interactive device. Pipes and files are
// not.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDecodeCmd = &cobra.Command{
	Use:   "decode [file...]",
	Short: "Print the GPS position stored in photos",
	Long: `Decodes the GPS block of every file given as argument, or of every path read
from stdin (one per line), and prints the coordinate or the failure kind.

$ landmarks debug decode IMG_0001.jpg
IMG_0001.jpg	standard	60.169861,24.938361
	`,
	RunE: func(_ *cobra.Command, args []string) error {
		decoder := &photometa.Decoder{}

		if len(args) > 0 {
			for _, path := range args {
				printDecoded(decoder, path)
			}

			return nil
		}

		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter photo paths to decode, one per line…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			if path := strings.TrimSpace(scanner.Text()); path != "" {
				printDecoded(decoder, path)
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func printDecoded(decoder *photometa.Decoder, path string) {
	flavor := photometa.FlavorStandard
	if f, err := os.Open(path); err == nil {
		flavor = photometa.SniffFlavor(f)
		_ = f.Close()
	}

	p, err := decoder.DecodeFile(path)

	var decodeErr *photometa.DecodeError

	switch {
	case err == nil:
		fmt.Printf("%s\t%s\t%s\n", path, flavor, p)
	case errors.Is(err, photometa.ErrNoLocation):
		fmt.Printf("%s\t%s\tno location\n", path, flavor)
	case errors.As(err, &decodeErr):
		fmt.Printf("%s\t%s\t%s\t%q\n", path, flavor, decodeErr.Kind, err.Error())
	default:
		fmt.Printf("%s\t%s\t%q\n", path, flavor, err.Error())
	}
}

var debugResolveCmd = &cobra.Command{
	Use:   "resolve <lat> <lon>",
	Short: "Print the folder label for a coordinate",
	Long: `Runs the same lookup chain as sort for a single coordinate in signed decimal
degrees and prints the label, the rule that produced it and any provider
failure. Without a Google Maps API key only Nominatim is queried.

$ landmarks debug resolve 60.169857 24.938379
{"city":"Kamppi","landmark":"Kamppi","source":"poi"}
	`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		p, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()

		resolver, err := newResolver(ctx, cfg, false)
		if err != nil {
			return err
		}

		resolution := resolver.Explain(ctx, p)

		failures := make([]string, 0, len(resolution.Failures))
		for _, f := range resolution.Failures {
			failures = append(failures, f.Error())
		}

		out, err := json.Marshal(struct {
			geocoding.Label
			Source   geocoding.Source `json:"source"`
			Failures []string         `json:"failures,omitempty"`
		}{resolution.Label, resolution.Source, failures})
		if err != nil {
			return err
		}

		fmt.Println(string(out))

		return nil
	},
}

func parsePoint(lat, lng string) (spatial.Point, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("latitude: %w", err)
	}

	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("longitude: %w", err)
	}

	return spatial.NewPoint(latitude, longitude)
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDecodeCmd)
	debugCmd.AddCommand(debugResolveCmd)
}
