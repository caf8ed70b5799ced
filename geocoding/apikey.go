// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// DefaultKeyDisplayName is the display name of the Maps key looked up via ADC.
const DefaultKeyDisplayName = "Landmarks Geocoding Key"

// ErrMissingAPIKey is returned when no Google Maps API key could be found.
var ErrMissingAPIKey = errors.New("google maps API key is required: set --api-key, GOOGLE_MAPS_API_KEY or geocoding.api_key")

// KeySource describes where to look for the Google Maps API key.
type KeySource struct {
	// APIKey is an explicit key from flags, env or config.
	APIKey string
	// ProjectID overrides the project found in the default credentials.
	ProjectID string
	// DisplayName of the key to look for; empty means DefaultKeyDisplayName.
	DisplayName string
	// DisableADC skips the Application Default Credentials lookup.
	DisableADC bool
}

// LookupAPIKey returns the explicit key if set, otherwise it tries ADC. It
// returns ErrMissingAPIKey when nothing is available.
func LookupAPIKey(ctx context.Context, src KeySource) (string, error) {
	if src.APIKey != "" {
		return src.APIKey, nil
	}

	if src.DisableADC {
		return "", ErrMissingAPIKey
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := APIKeyFromADC(ctx, src.ProjectID, src.DisplayName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingAPIKey, err)
	}

	log.Println("✅ Successfully retrieved Google Maps API Key via ADC")

	return key, nil
}

// APIKeyFromADC finds the key named displayName in the project and returns its
// secret string.
func APIKeyFromADC(ctx context.Context, projectID, displayName string) (string, error) {
	if displayName == "" {
		displayName = DefaultKeyDisplayName
	}

	if projectID == "" {
		creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return "", fmt.Errorf("finding default credentials: %w", err)
		}

		projectID = creds.ProjectID
	}

	if projectID == "" {
		return "", errors.New("no project ID in default credentials; set geocoding.project_id")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != displayName {
			continue
		}

		// ListKeys redacts the secret.
		log.Printf("Found key resource '%s', retrieving secret...", key.Name)

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' found but KeyString is empty", displayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", displayName, projectID)
}
