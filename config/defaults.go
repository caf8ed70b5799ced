// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package config

const (
	defaultConfigPath  = "~/.config/landmarks/config.toml"
	projectConfigFile  = "landmarks.toml"
	defaultLedgerPath  = "~/.local/share/landmarks/runs.duckdb"
	defaultGoogleURL   = "https://maps.googleapis.com"
	defaultNominatim   = "https://nominatim.openstreetmap.org"
	defaultTimeoutSecs = 10
	defaultReviewBind  = "127.0.0.1:8080"

	// DefaultUserAgent identifies the tool to Nominatim, whose usage policy
	// rejects anonymous clients.
	DefaultUserAgent = "landmarks/1.0 (+https://github.com/cinapr/AutomaticLandmarkPhotoSorting)"
)

// Environment variables read when the matching setting is empty.
const (
	EnvAPIKey    = "GOOGLE_MAPS_API_KEY"
	EnvUserAgent = "LANDMARKS_USER_AGENT"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Paths: Paths{
			Ledger: defaultLedgerPath,
		},
		Geocoding: Geocoding{
			GoogleBaseURL:    defaultGoogleURL,
			NominatimBaseURL: defaultNominatim,
			UserAgent:        DefaultUserAgent,
			TimeoutSeconds:   defaultTimeoutSecs,
		},
		Organizer: Organizer{
			RecordRuns: true,
		},
		Review: Review{
			Bind: defaultReviewBind,
		},
	}
}
