// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger keeps a duckdb history of sort runs and where every photo went.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/organizer"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of the sorter.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	InputDir      string     `json:"input_dir"`
	OutputDir     string     `json:"output_dir"`
	DryRun        bool       `json:"dry_run"`
	Total         int        `json:"total"`
	Moved         int        `json:"moved"`
	Planned       int        `json:"planned"`
	Failed        int        `json:"failed"`
	Uncategorized int        `json:"uncategorized"`
}

// Photo is the recorded outcome for one file of a run.
type Photo struct {
	RunID       string         `json:"run_id"`
	Seq         int            `json:"seq"`
	SourcePath  string         `json:"source_path"`
	Destination string         `json:"destination"`
	Status      string         `json:"status"`
	LabelSource string         `json:"label_source"`
	City        string         `json:"city"`
	Landmark    string         `json:"landmark"`
	Point       *spatial.Point `json:"point,omitempty"`
	Error       string         `json:"error,omitempty"`
	RecordedAt  time.Time      `json:"recorded_at"`
}

// Place aggregates located photos sharing a label and an H3 cell.
type Place struct {
	City     string  `json:"city"`
	Landmark string  `json:"landmark"`
	Cell     string  `json:"h3_cell"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Photos   int     `json:"photos"`
}

// Repository handles persistence of runs and their results.
type Repository interface {
	// CreateSchema creates the runs and photos tables
	CreateSchema() error

	// StartRun inserts a new run and returns it with a fresh id
	StartRun(ctx context.Context, inputDir, outputDir string, dryRun bool) (*Run, error)

	// RecordResult stores the outcome of one file
	RecordResult(ctx context.Context, runID string, seq int, result organizer.Result) error

	// FinishRun stores the counters of a completed run
	FinishRun(ctx context.Context, runID string, report *organizer.Report) error

	// ListRuns returns the most recent runs first
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetRun returns a single run or ErrRunNotFound
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListPhotos returns the results of a run in processing order, optionally
	// filtered by status
	ListPhotos(ctx context.Context, runID, status string) ([]*Photo, error)

	// ListPlaces groups every located photo by label and H3 cell at res
	ListPlaces(ctx context.Context, res int) ([]*Place, error)

	// Recorder returns an organizer.Recorder appending to runID
	Recorder(runID string) organizer.Recorder

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a new ledger repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

// Open opens (creating if needed) the duckdb file at path. An empty path opens
// an in-memory database.
func Open(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}

	return db, nil
}

func (r *sqlRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id VARCHAR PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			input_dir VARCHAR NOT NULL,
			output_dir VARCHAR NOT NULL,
			dry_run BOOLEAN NOT NULL DEFAULT FALSE,
			total INTEGER NOT NULL DEFAULT 0,
			moved INTEGER NOT NULL DEFAULT 0,
			planned INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			uncategorized INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS photos (
			run_id VARCHAR NOT NULL,
			seq INTEGER NOT NULL,
			source_path VARCHAR NOT NULL,
			destination VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			label_source VARCHAR NOT NULL,
			city VARCHAR NOT NULL,
			landmark VARCHAR NOT NULL,
			lat DOUBLE,
			lng DOUBLE,
			error VARCHAR,
			recorded_at TIMESTAMP NOT NULL,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT,
			PRIMARY KEY (run_id, seq)
		);
	`)

	return err
}

func (r *sqlRepository) StartRun(ctx context.Context, inputDir, outputDir string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC().Truncate(time.Microsecond),
		InputDir:  inputDir,
		OutputDir: outputDir,
		DryRun:    dryRun,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, input_dir, output_dir, dry_run)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.InputDir, run.OutputDir, run.DryRun)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	return run, nil
}

func (r *sqlRepository) RecordResult(ctx context.Context, runID string, seq int, result organizer.Result) error {
	var (
		lat, lng sql.NullFloat64
		cells    = make([]any, spatial.MaxCellResolution-spatial.MinCellResolution+1)
		errText  sql.NullString
	)

	if result.Coordinate != nil {
		lat = sql.NullFloat64{Float64: result.Coordinate.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: result.Coordinate.Lng, Valid: true}

		values, err := result.Coordinate.Cells()
		if err != nil {
			return fmt.Errorf("computing h3 cells: %w", err)
		}

		for i, v := range values {
			cells[i] = v
		}
	}

	if result.Err != nil {
		errText = sql.NullString{String: result.Err.Error(), Valid: true}
	}

	args := []any{
		runID,
		seq,
		result.SourcePath,
		result.Destination,
		string(result.Status),
		string(result.Source),
		result.Label.City,
		result.Label.Landmark,
		lat,
		lng,
		errText,
		time.Now().UTC(),
	}
	args = append(args, cells...)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (
			run_id, seq, source_path, destination, status, label_source, city, landmark,
			lat, lng, error, recorded_at,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("inserting result for %s: %w", result.SourcePath, err)
	}

	return nil
}

func (r *sqlRepository) FinishRun(ctx context.Context, runID string, report *organizer.Report) error {
	finished := report.Finished
	if finished.IsZero() {
		finished = time.Now()
	}

	uncategorized := 0

	for _, res := range report.Results {
		if res.Coordinate == nil {
			uncategorized++
		}
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, total = ?, moved = ?, planned = ?, failed = ?, uncategorized = ?
		WHERE id = ?
	`,
		finished.UTC(),
		len(report.Results),
		report.Count(organizer.StatusMoved),
		report.Count(organizer.StatusPlanned),
		report.Count(organizer.StatusFailed),
		uncategorized,
		runID,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return nil
}

const runColumns = `id, started_at, finished_at, input_dir, output_dir, dry_run, total, moved, planned, failed, uncategorized`

func scanRun(row interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run      Run
		finished sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&finished,
		&run.InputDir,
		&run.OutputDir,
		&run.DryRun,
		&run.Total,
		&run.Moved,
		&run.Planned,
		&run.Failed,
		&run.Uncategorized,
	)
	if err != nil {
		return nil, err
	}

	if finished.Valid {
		run.FinishedAt = &finished.Time
	}

	return &run, nil
}

func (r *sqlRepository) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`

	var args []any
	if limit > 0 {
		query += ` LIMIT ?`

		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *sqlRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	return run, nil
}

func (r *sqlRepository) ListPhotos(ctx context.Context, runID, status string) ([]*Photo, error) {
	query := `
		SELECT run_id, seq, source_path, destination, status, label_source, city, landmark,
		       lat, lng, error, recorded_at
		FROM photos
		WHERE run_id = ?`
	args := []any{runID}

	if status = strings.TrimSpace(status); status != "" {
		query += ` AND status = ?`

		args = append(args, status)
	}

	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer rows.Close()

	var photos []*Photo

	for rows.Next() {
		var (
			p        Photo
			lat, lng sql.NullFloat64
			errText  sql.NullString
		)

		if err := rows.Scan(
			&p.RunID, &p.Seq, &p.SourcePath, &p.Destination, &p.Status, &p.LabelSource,
			&p.City, &p.Landmark, &lat, &lng, &errText, &p.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}

		if lat.Valid && lng.Valid {
			p.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
		}

		p.Error = errText.String
		photos = append(photos, &p)
	}

	return photos, rows.Err()
}

func (r *sqlRepository) ListPlaces(ctx context.Context, res int) ([]*Place, error) {
	if res < spatial.MinCellResolution || res > spatial.MaxCellResolution {
		return nil, fmt.Errorf("h3 resolution must be between %d and %d, got %d",
			spatial.MinCellResolution, spatial.MaxCellResolution, res)
	}

	column := fmt.Sprintf("h3_res%d", res)

	rows, err := r.db.QueryContext(ctx, `
		SELECT city, landmark, `+column+` AS cell, AVG(lat), AVG(lng), COUNT(*) AS photos
		FROM photos
		WHERE lat IS NOT NULL AND status IN ('moved', 'planned')
		GROUP BY city, landmark, cell
		ORDER BY photos DESC, city, landmark
	`)
	if err != nil {
		return nil, fmt.Errorf("listing places: %w", err)
	}
	defer rows.Close()

	var places []*Place

	for rows.Next() {
		var (
			p    Place
			cell uint64
		)

		if err := rows.Scan(&p.City, &p.Landmark, &cell, &p.Lat, &p.Lng, &p.Photos); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}

		p.Cell = h3.Cell(cell).String()
		places = append(places, &p)
	}

	return places, rows.Err()
}

type runRecorder struct {
	repo  *sqlRepository
	runID string
	seq   int
}

func (r *sqlRepository) Recorder(runID string) organizer.Recorder {
	return &runRecorder{repo: r, runID: runID}
}

func (rr *runRecorder) Record(ctx context.Context, result organizer.Result) error {
	rr.seq++

	return rr.repo.RecordResult(ctx, rr.runID, rr.seq, result)
}
