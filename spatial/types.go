// Copyright 2026 The Landmarks Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

// MinCellResolution and MaxCellResolution bound the H3 resolutions stored for a point.
const (
	MinCellResolution = 1
	MaxCellResolution = 8
)

// ErrOutOfRange is returned when a latitude or longitude falls outside of the WGS84 domain.
var ErrOutOfRange = errors.New("coordinate out of range")

// Point represents a geographical point with latitude and longitude in signed decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPoint validates lat/lng and returns the corresponding Point.
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}

	return p, nil
}

// Validate checks that latitude is within [-90,90] and longitude within [-180,180].
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f: %w", p.Lat, ErrOutOfRange)
	}

	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %f: %w", p.Lng, ErrOutOfRange)
	}

	return nil
}

// String returns a "lat,lng" representation, the same order reverse geocoders expect.
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	return cell, nil
}

// Cells returns the H3 cells for resolutions MinCellResolution..MaxCellResolution, indexed by res-1.
func (p Point) Cells() ([]int64, error) {
	cells := make([]int64, 0, MaxCellResolution-MinCellResolution+1)

	for res := MinCellResolution; res <= MaxCellResolution; res++ {
		cell, err := p.Cell(res)
		if err != nil {
			return nil, err
		}

		cells = append(cells, int64(cell))
	}

	return cells, nil
}
