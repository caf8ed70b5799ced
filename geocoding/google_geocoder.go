// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// DefaultGoogleBaseURL is the Google Maps Platform endpoint.
const DefaultGoogleBaseURL = "https://maps.googleapis.com"

const googleProvider = "google_maps"

// GoogleMapsGeocoder uses the Google Maps Geocoding API reverse lookup.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder. An empty baseURL
// means DefaultGoogleBaseURL.
func NewGoogleMapsGeocoder(apiKey, baseURL string, httpClient *http.Client) *GoogleMapsGeocoder {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type googleMapsResponse struct {
	Results      []ReverseResult `json:"results"`
	Status       string          `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string          `json:"error_message"`
}

// Name implements ReverseGeocoder.
func (g *GoogleMapsGeocoder) Name() string {
	return googleProvider
}

// Reverse implements ReverseGeocoder.
func (g *GoogleMapsGeocoder) Reverse(ctx context.Context, p spatial.Point, resultType string) ([]ReverseResult, error) {
	params := url.Values{}
	params.Set("latlng", p.String())
	params.Set("key", g.apiKey)

	if resultType != "" {
		params.Set("result_type", resultType)
	}

	reqURL := g.baseURL + "/maps/api/geocode/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Provider: googleProvider, Message: "building request", Err: err}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(googleProvider, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		geoErr := ClassifyHTTPError(resp.StatusCode, string(body))
		geoErr.Provider = googleProvider

		return nil, geoErr
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeMalformed, Provider: googleProvider, Message: "decoding response", Err: err}
	}

	if err := classifyGoogleStatus(gmResp.Status, gmResp.ErrorMessage); err != nil {
		return nil, err
	}

	if len(gmResp.Results) == 0 {
		return nil, &GeocodingError{
			Type:     ErrorTypeNotFound,
			Provider: googleProvider,
			Message:  fmt.Sprintf("no results found for %s", p),
		}
	}

	return gmResp.Results, nil
}

// classifyGoogleStatus maps the API "status" field; see
// https://developers.google.com/maps/documentation/geocoding/requests-reverse-geocoding#reverse-status-codes
func classifyGoogleStatus(status, message string) error {
	geoErr := &GeocodingError{Provider: googleProvider, Message: "google maps status: " + status}
	if message != "" {
		geoErr.Message += " (" + message + ")"
	}

	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		geoErr.Type = ErrorTypeNotFound
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		geoErr.Type = ErrorTypeQuotaExceeded
	case "REQUEST_DENIED", "INVALID_REQUEST":
		geoErr.Type = ErrorTypeInvalidRequest
	default:
		geoErr.Type = ErrorTypeUnknown
	}

	return geoErr
}
