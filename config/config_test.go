// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/config"
)

func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvUserAgent, "")
	t.Chdir(t.TempDir())

	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)

	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".config", "landmarks", "config.toml"), resolved)
	assert.Equal(t, filepath.Join(home, ".local", "share", "landmarks", "runs.duckdb"), cfg.Paths.Ledger)
	assert.Equal(t, config.DefaultUserAgent, cfg.Geocoding.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Geocoding.Timeout())
	assert.Equal(t, "https://maps.googleapis.com", cfg.Geocoding.GoogleBaseURL)
	assert.Empty(t, cfg.Geocoding.APIKey)
	assert.True(t, cfg.Organizer.RecordRuns)
	assert.False(t, cfg.Organizer.DryRun)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := isolate(t)
	t.Setenv(config.EnvAPIKey, "from-env")
	t.Setenv(config.EnvUserAgent, "my-sorter/2.0")

	path := filepath.Join(t.TempDir(), "landmarks.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[paths]
input_dir = "~/Pictures/inbox"
output_dir = "/srv/photos/"

[geocoding]
nominatim_base_url = "http://localhost:8088/"
timeout_seconds = 3

[organizer]
ascii_folders = true
`), 0o600))

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, filepath.Join(home, "Pictures", "inbox"), cfg.Paths.InputDir)
	assert.Equal(t, "/srv/photos", cfg.Paths.OutputDir)
	assert.Equal(t, "http://localhost:8088", cfg.Geocoding.NominatimBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Geocoding.Timeout())
	assert.Equal(t, "from-env", cfg.Geocoding.APIKey)
	assert.Equal(t, "my-sorter/2.0", cfg.Geocoding.UserAgent)
	assert.True(t, cfg.Organizer.ASCIIFolders)
	assert.NoError(t, cfg.ValidateSortPaths())
}

func TestLoadFileKeyBeatsEnv(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvAPIKey, "from-env")

	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[geocoding]\napi_key = \"from-file\"\n"), 0o600))

	cfg, _, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Geocoding.APIKey)
}

func TestLoadProjectFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("landmarks.toml", []byte("[review]\nbind = \"127.0.0.1:9999\"\n"), 0o600))

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "landmarks.toml", filepath.Base(resolved))
	assert.Equal(t, "127.0.0.1:9999", cfg.Review.Bind)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", "[geocoding]\nkey = \"x\"\n", "parse config"},
		{"bad toml", "[paths\n", "parse config"},
		{"zero timeout", "[geocoding]\ntimeout_seconds = 0\n", "timeout_seconds"},
		{"relative url", "[geocoding]\ngoogle_base_url = \"maps.example\"\n", "google_base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			path := filepath.Join(t.TempDir(), "c.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, _, _, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	isolate(t)

	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateSortPaths(t *testing.T) {
	cfg := config.Default()
	assert.ErrorContains(t, cfg.ValidateSortPaths(), "input_dir")

	cfg.Paths.InputDir = "/a"
	assert.ErrorContains(t, cfg.ValidateSortPaths(), "output_dir")

	cfg.Paths.OutputDir = "/a"
	assert.ErrorContains(t, cfg.ValidateSortPaths(), "must differ")
}

func TestEncodeRoundTrip(t *testing.T) {
	isolate(t)

	cfg := config.Default()
	data, err := config.Encode(&cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout_seconds = 10")

	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, _, _, err = config.Load(path)
	assert.NoError(t, err)
}
