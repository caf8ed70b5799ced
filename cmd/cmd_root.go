// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/config"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/utils/httputils"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "landmarks",
	Short: "sort photos into folders by where they were taken",
	Long: `
landmarks reads the GPS position stored in each photo, asks Google Maps (and
OpenStreetMap Nominatim as a fallback) which place it is, and moves the file to
<output>/<city>/<landmark>/<file>. Photos without a position end up in
Uncategorized/Uncategorized.
`,
	SilenceUsage: true,
}

var Version = "dev"

type rootOptions struct {
	ConfigPath    string
	TraceHTTP     bool
	TraceHTTPBody bool
}

var globalOptions = &rootOptions{}

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration file selected by --config.
func loadConfig() (*config.Config, error) {
	cfg, path, exists, err := config.Load(globalOptions.ConfigPath)
	if err != nil {
		return nil, err
	}

	if exists {
		log.Printf("Using configuration %s", path)
	}

	if cfg.Geocoding.UserAgent == config.DefaultUserAgent {
		cfg.Geocoding.UserAgent = fmt.Sprintf("landmarks/%s (+https://github.com/cinapr/AutomaticLandmarkPhotoSorting)", Version)
	}

	return cfg, nil
}

// newHTTPClient builds the client shared by both geocoders.
func newHTTPClient(cfg *config.Config) *http.Client {
	return httputils.NewClient(httputils.ClientOptions{
		UserAgent:           cfg.Geocoding.UserAgent,
		Timeout:             cfg.Geocoding.Timeout(),
		EnableHTTPTrace:     globalOptions.TraceHTTP,
		EnableHTTPBodyTrace: globalOptions.TraceHTTPBody,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&globalOptions.ConfigPath,
		"config",
		"",
		"Configuration file (default ~/.config/landmarks/config.toml, then ./landmarks.toml)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&globalOptions.TraceHTTP,
		"trace-http",
		false,
		"Trace geocoding HTTP requests to stderr (API keys are redacted)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&globalOptions.TraceHTTPBody,
		"trace-http-body",
		false,
		"Also trace HTTP response bodies",
	)
}
