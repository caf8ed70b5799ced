// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package organizer moves photos into city/landmark folders.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/geocoding"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/utils/textutil"
)

// LockFileName is created in the output root while a run is in progress.
const LockFileName = ".landmarks.lock"

// ErrLocked is returned when another run holds the output root.
var ErrLocked = errors.New("another landmarks run is using the output directory")

// CoordinateDecoder reads the location of a photo.
type CoordinateDecoder interface {
	Decode(path string) (spatial.Point, bool)
}

// LabelResolver names a coordinate.
type LabelResolver interface {
	Explain(ctx context.Context, p spatial.Point) geocoding.Resolution
}

// Recorder receives every result as it is produced.
type Recorder interface {
	Record(ctx context.Context, result Result) error
}

// Options configures a run.
type Options struct {
	InputDir  string
	OutputDir string

	// DryRun computes destinations without touching the filesystem
	DryRun bool

	// ASCIIFolders folds accents out of folder names
	ASCIIFolders bool

	// ShowProgress draws a progress bar when stderr is a terminal
	ShowProgress bool
}

// Organizer sorts one input directory into an output tree.
type Organizer struct {
	options  Options
	decoder  CoordinateDecoder
	resolver LabelResolver
	recorder Recorder
}

// New creates an Organizer. recorder may be nil.
func New(options Options, decoder CoordinateDecoder, resolver LabelResolver, recorder Recorder) *Organizer {
	return &Organizer{
		options:  options,
		decoder:  decoder,
		resolver: resolver,
		recorder: recorder,
	}
}

// Run processes every regular file directly under the input directory, in
// name order. Per-file failures are kept in the report; the returned error is
// reserved for problems that prevent the run from starting and for context
// cancellation, in which case the partial report is returned too.
func (o *Organizer) Run(ctx context.Context) (*Report, error) {
	report := &Report{Started: time.Now(), DryRun: o.options.DryRun}

	files, err := o.listInput()
	if err != nil {
		return nil, err
	}

	if !o.options.DryRun {
		unlock, err := o.lockOutput()
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	n := len(files)

	var bar *progressbar.ProgressBar
	if o.options.ShowProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Sorting photos"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()

			return report, fmt.Errorf("sorting interrupted after %d of %d files: %w", i, n, err)
		}

		if bar == nil {
			log.Printf("[%d/%d] Processing %s", i+1, n, path)
		}

		result := o.process(ctx, path)
		report.Results = append(report.Results, result)

		if result.Status == StatusFailed {
			log.Printf("⚠️ Could not move %s: %v", path, result.Err)
		}

		if o.recorder != nil {
			if err := o.recorder.Record(ctx, result); err != nil {
				log.Printf("⚠️ Could not record result for %s: %v", path, err)
			}
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	report.Finished = time.Now()

	return report, nil
}

// Plan returns the task and destination for a single file without moving it.
func (o *Organizer) Plan(ctx context.Context, path string) (Task, geocoding.Source, string) {
	task := Task{SourcePath: path, Label: geocoding.Uncategorized}
	source := geocoding.SourceUncategorized

	if p, ok := o.decoder.Decode(path); ok {
		task.Coordinate = &p

		resolution := o.resolver.Explain(ctx, p)
		task.Label, source = resolution.Label, resolution.Source
	}

	return task, source, o.Destination(task.Label, filepath.Base(path))
}

// Destination returns OutputDir/city/landmark/name with sanitized folder names.
func (o *Organizer) Destination(label geocoding.Label, name string) string {
	return filepath.Join(
		o.options.OutputDir,
		textutil.FolderName(label.City, o.options.ASCIIFolders),
		textutil.FolderName(label.Landmark, o.options.ASCIIFolders),
		name,
	)
}

func (o *Organizer) process(ctx context.Context, path string) Result {
	task, source, dest := o.Plan(ctx, path)
	result := Result{Task: task, Destination: dest, Source: source}

	if o.options.DryRun {
		result.Status = StatusPlanned

		return result
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		result.Status, result.Err = StatusFailed, fmt.Errorf("creating folder: %w", err)

		return result
	}

	if err := moveFile(path, dest); err != nil {
		result.Status, result.Err = StatusFailed, err

		return result
	}

	result.Status = StatusMoved

	return result
}

func (o *Organizer) listInput() ([]string, error) {
	info, err := os.Stat(o.options.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", o.options.InputDir)
	}

	entries, err := os.ReadDir(o.options.InputDir)
	if err != nil {
		return nil, fmt.Errorf("listing input directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		files = append(files, filepath.Join(o.options.InputDir, entry.Name()))
	}

	return files, nil
}

func (o *Organizer) lockOutput() (func(), error) {
	if err := os.MkdirAll(o.options.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(filepath.Join(o.options.OutputDir, LockFileName))

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	if !ok {
		return nil, ErrLocked
	}

	// The file is removed while still locked so the output tree only holds photos.
	return func() {
		if err := os.Remove(lock.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("⚠️ Failed to remove lock file %s: %v", lock.Path(), err)
		}

		if err := lock.Unlock(); err != nil {
			log.Printf("⚠️ Failed to release lock %s: %v", lock.Path(), err)
		}
	}, nil
}
