// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding turns coordinates into city and landmark labels.
package geocoding

import (
	"context"
	"slices"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// Result and component types used by the label rules.
const (
	TypePointOfInterest = "point_of_interest"
	TypeLocality        = "locality"
)

// AddressComponent is one part of a reverse geocoding result.
type AddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

// HasType reports whether the component is tagged with t.
func (c AddressComponent) HasType(t string) bool {
	return slices.Contains(c.Types, t)
}

// ReverseResult is a reverse geocoding result from a POI-aware provider.
type ReverseResult struct {
	FormattedAddress string             `json:"formatted_address"`
	Types            []string           `json:"types"`
	Components       []AddressComponent `json:"address_components"`
}

// HasType reports whether the result is tagged with t.
func (r ReverseResult) HasType(t string) bool {
	return slices.Contains(r.Types, t)
}

// ReverseGeocoder returns an ordered list of results for a coordinate, biased
// toward resultType when the provider supports it.
type ReverseGeocoder interface {
	Name() string
	Reverse(ctx context.Context, p spatial.Point, resultType string) ([]ReverseResult, error)
}

// Place is the single best match returned by an address lookup provider.
type Place struct {
	City        string
	Attraction  string
	DisplayName string
}

// PlaceLookup returns exactly one place for a coordinate.
type PlaceLookup interface {
	Name() string
	Lookup(ctx context.Context, p spatial.Point) (*Place, error)
}
