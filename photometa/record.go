// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package photometa

import (
	"errors"
	"fmt"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

var errZeroDenominator = errors.New("zero denominator")

// Rational is an EXIF RATIONAL value.
type Rational struct {
	Num int64
	Den int64
}

// Float returns Num/Den.
func (r Rational) Float() (float64, error) {
	if r.Den == 0 {
		return 0, errZeroDenominator
	}

	return float64(r.Num) / float64(r.Den), nil
}

// DMS is a degrees, minutes, seconds triple as stored in the GPS IFD.
type DMS [3]Rational

// Degrees converts the triple to decimal degrees: d + m/60 + s/3600.
func (v DMS) Degrees() (float64, error) {
	var parts [3]float64

	for i, r := range v {
		f, err := r.Float()
		if err != nil {
			return 0, fmt.Errorf("component %d (%d/%d): %w", i, r.Num, r.Den, err)
		}

		parts[i] = f
	}

	return parts[0] + parts[1]/60.0 + parts[2]/3600.0, nil
}

// GPSRecord holds only the GPS fields needed to compute a coordinate.
type GPSRecord struct {
	Latitude     DMS
	LatitudeRef  string
	Longitude    DMS
	LongitudeRef string
}

// Point converts the record to a signed decimal coordinate. Any latitude reference
// other than "N" is south, and any longitude reference other than "E" is west.
func (rec GPSRecord) Point() (spatial.Point, error) {
	lat, err := rec.Latitude.Degrees()
	if err != nil {
		return spatial.Point{}, malformed(fieldLatitude, err)
	}

	if rec.LatitudeRef != "N" {
		lat = -lat
	}

	lng, err := rec.Longitude.Degrees()
	if err != nil {
		return spatial.Point{}, malformed(fieldLongitude, err)
	}

	if rec.LongitudeRef != "E" {
		lng = -lng
	}

	p, err := spatial.NewPoint(lat, lng)
	if err != nil {
		return spatial.Point{}, &DecodeError{Kind: KindOutOfRange, Err: err}
	}

	return p, nil
}
