// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

// Default folder names.
const (
	UncategorizedName = "Uncategorized"
	UnknownCity       = "Unknown City"
	UnknownLandmark   = "Unknown Landmark"
)

// Label is the (city, landmark) pair a photo is filed under.
type Label struct {
	City     string `json:"city"`
	Landmark string `json:"landmark"`
}

var (
	// Uncategorized is used for photos without a usable coordinate.
	Uncategorized = Label{City: UncategorizedName, Landmark: UncategorizedName}
	// Unresolved is used when a coordinate exists but no provider could name it.
	Unresolved = Label{City: UnknownCity, Landmark: UnknownLandmark}
)

// Source tells which rule produced a label.
type Source string

const (
	SourcePOI           Source = "poi"
	SourceLocality      Source = "locality"
	SourceFallback      Source = "fallback"
	SourceDefault       Source = "default"
	SourceUncategorized Source = "uncategorized"
)

// Resolution is a label plus how it was obtained.
type Resolution struct {
	Label    Label
	Source   Source
	Failures []error
}
