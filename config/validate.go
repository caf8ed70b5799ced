// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Geocoding.TimeoutSeconds <= 0 {
		return errors.New("geocoding.timeout_seconds must be positive")
	}

	if err := validateBaseURL("geocoding.google_base_url", c.Geocoding.GoogleBaseURL); err != nil {
		return err
	}

	if err := validateBaseURL("geocoding.nominatim_base_url", c.Geocoding.NominatimBaseURL); err != nil {
		return err
	}

	return nil
}

// ValidateSortPaths checks the directories a sort run needs.
func (c *Config) ValidateSortPaths() error {
	if c.Paths.InputDir == "" {
		return errors.New("paths.input_dir must be set")
	}

	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}

	if c.Paths.InputDir == c.Paths.OutputDir {
		return errors.New("paths.input_dir and paths.output_dir must differ")
	}

	return nil
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}

	return nil
}
