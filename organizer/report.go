// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package organizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/geocoding"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// Status is the outcome for a single file.
type Status string

const (
	// StatusMoved the file is now at its destination.
	StatusMoved Status = "moved"
	// StatusPlanned the destination was computed but nothing was touched (dry run).
	StatusPlanned Status = "planned"
	// StatusFailed the file could not be moved and stays where it was.
	StatusFailed Status = "failed"
)

// Task is the per-file work item. Coordinate is nil when the photo has no
// usable location.
type Task struct {
	SourcePath string
	Coordinate *spatial.Point
	Label      geocoding.Label
}

// Result is what happened to a Task.
type Result struct {
	Task
	Destination string
	Source      geocoding.Source
	Status      Status
	Err         error
}

// Report is the ordered list of results of a run.
type Report struct {
	Started  time.Time
	Finished time.Time
	DryRun   bool
	Results  []Result
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0

	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}

	return n
}

// Located returns the number of files that carried a coordinate.
func (r *Report) Located() int {
	n := 0

	for _, res := range r.Results {
		if res.Coordinate != nil {
			n++
		}
	}

	return n
}

// Err joins the errors of every failed file, or returns nil.
func (r *Report) Err() error {
	var errs []error

	for _, res := range r.Results {
		if res.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", res.SourcePath, res.Err))
		}
	}

	return errors.Join(errs...)
}
