// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}

	c.normalizeGeocoding()

	c.Review.Bind = strings.TrimSpace(c.Review.Bind)
	if c.Review.Bind == "" {
		c.Review.Bind = defaultReviewBind
	}

	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}

	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}

	if c.Paths.Ledger, err = expandPath(c.Paths.Ledger); err != nil {
		return fmt.Errorf("paths.ledger: %w", err)
	}

	return nil
}

func (c *Config) normalizeGeocoding() {
	g := &c.Geocoding

	g.APIKey = strings.TrimSpace(g.APIKey)
	if g.APIKey == "" {
		if value, ok := os.LookupEnv(EnvAPIKey); ok {
			g.APIKey = strings.TrimSpace(value)
		}
	}

	g.UserAgent = strings.TrimSpace(g.UserAgent)
	if value, ok := os.LookupEnv(EnvUserAgent); ok && strings.TrimSpace(value) != "" {
		g.UserAgent = strings.TrimSpace(value)
	}

	if g.UserAgent == "" {
		g.UserAgent = DefaultUserAgent
	}

	g.GoogleBaseURL = strings.TrimRight(strings.TrimSpace(g.GoogleBaseURL), "/")
	if g.GoogleBaseURL == "" {
		g.GoogleBaseURL = defaultGoogleURL
	}

	g.NominatimBaseURL = strings.TrimRight(strings.TrimSpace(g.NominatimBaseURL), "/")
	if g.NominatimBaseURL == "" {
		g.NominatimBaseURL = defaultNominatim
	}
}

// Timeout returns the per-request geocoding timeout.
func (g Geocoding) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}
