// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"log"
	"strings"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// Resolver chains a POI-aware primary geocoder with a single-place fallback.
// Either may be nil.
type Resolver struct {
	Primary  ReverseGeocoder
	Fallback PlaceLookup
}

// NewResolver creates a resolver.
func NewResolver(primary ReverseGeocoder, fallback PlaceLookup) *Resolver {
	return &Resolver{Primary: primary, Fallback: fallback}
}

// Resolve returns the label for p. It never fails.
func (r *Resolver) Resolve(ctx context.Context, p spatial.Point) Label {
	return r.Explain(ctx, p).Label
}

// Explain resolves p and reports which rule produced the label along with
// every provider failure seen on the way.
func (r *Resolver) Explain(ctx context.Context, p spatial.Point) Resolution {
	var res Resolution

	if r.Primary != nil {
		results, err := r.Primary.Reverse(ctx, p, TypePointOfInterest)
		if err != nil {
			res.Failures = append(res.Failures, err)
			logFailure(r.Primary.Name(), p, err)
		} else if label, source, ok := labelFromResults(results); ok {
			res.Label, res.Source = label, source

			return res
		}
	}

	if r.Fallback != nil {
		place, err := r.Fallback.Lookup(ctx, p)
		if err != nil {
			res.Failures = append(res.Failures, err)
			logFailure(r.Fallback.Name(), p, err)
		} else if place != nil {
			res.Label, res.Source = labelFromPlace(place), SourceFallback

			return res
		}
	}

	res.Label, res.Source = Unresolved, SourceDefault

	return res
}

// labelFromResults applies the primary provider rules: a point of interest
// anywhere in the list wins, otherwise the first locality component does.
func labelFromResults(results []ReverseResult) (Label, Source, bool) {
	var (
		locality Label
		found    bool
	)

	for _, result := range results {
		if result.HasType(TypePointOfInterest) {
			if name := strings.TrimSpace(result.FormattedAddress); name != "" {
				return Label{City: name, Landmark: name}, SourcePOI, true
			}
		}

		if found {
			continue
		}

		for _, component := range result.Components {
			if !component.HasType(TypeLocality) {
				continue
			}

			if name := strings.TrimSpace(component.LongName); name != "" {
				locality = Label{City: name, Landmark: name}
				found = true

				break
			}
		}
	}

	if found {
		return locality, SourceLocality, true
	}

	return Label{}, "", false
}

func labelFromPlace(place *Place) Label {
	label := Unresolved

	if place.City != "" {
		label.City = place.City
	}

	switch {
	case place.Attraction != "":
		label.Landmark = place.Attraction
	case place.DisplayName != "":
		label.Landmark = place.DisplayName
	}

	return label
}

func logFailure(provider string, p spatial.Point, err error) {
	switch {
	case IsNotFoundError(err):
		log.Printf("%s: nothing found for %s", provider, p)
	case IsQuotaExceededError(err), IsRateLimitError(err):
		log.Printf("⚠️ %s: quota or rate limit reached for %s: %v", provider, p, err)
	default:
		log.Printf("⚠️ %s: lookup failed for %s: %v", provider, p, err)
	}
}
