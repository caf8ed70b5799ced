// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim instance. Its usage
// policy requires an identifying User-Agent, which the http client must set.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

const nominatimProvider = "nominatim"

// NominatimGeocoder uses the OpenStreetMap Nominatim reverse endpoint.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a new Nominatim geocoder. An empty baseURL means
// DefaultNominatimBaseURL.
func NewNominatimGeocoder(baseURL string, httpClient *http.Client) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NominatimGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City       string `json:"city"`
		Attraction string `json:"attraction"`
	} `json:"address"`
	Error string `json:"error"`
}

// Name implements PlaceLookup.
func (n *NominatimGeocoder) Name() string {
	return nominatimProvider
}

// Lookup implements PlaceLookup.
func (n *NominatimGeocoder) Lookup(ctx context.Context, p spatial.Point) (*Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	params.Set("addressdetails", "1")

	reqURL := n.baseURL + "/reverse?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Provider: nominatimProvider, Message: "building request", Err: err}
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(nominatimProvider, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		geoErr := ClassifyHTTPError(resp.StatusCode, string(body))
		geoErr.Provider = nominatimProvider

		return nil, geoErr
	}

	var nResp nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&nResp); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeMalformed, Provider: nominatimProvider, Message: "decoding response", Err: err}
	}

	if nResp.Error != "" {
		return nil, &GeocodingError{Type: ErrorTypeNotFound, Provider: nominatimProvider, Message: nResp.Error}
	}

	return &Place{
		City:        strings.TrimSpace(nResp.Address.City),
		Attraction:  strings.TrimSpace(nResp.Address.Attraction),
		DisplayName: strings.TrimSpace(nResp.DisplayName),
	}, nil
}
