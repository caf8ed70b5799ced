// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package review serves a local JSON API over the run ledger.
package review

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/ledger"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/organizer"
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
)

const (
	defaultRunsLimit = 50
	defaultPlacesRes = 7
)

// Server exposes the ledger over HTTP.
type Server struct {
	repo ledger.Repository
}

// NewServer creates a new review server.
func NewServer(repo ledger.Repository) *Server {
	return &Server{repo: repo}
}

// Handler returns the routes.
func (s *Server) Handler() *gin.Engine {
	r := gin.Default()

	r.GET("/api/runs", s.listRuns)
	r.GET("/api/runs/:id", s.getRun)
	r.GET("/api/runs/:id/photos", s.listPhotos)
	r.GET("/api/places", s.listPlaces)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("Review server listening on http://%s", addr)

	return s.Handler().Run(addr)
}

func (s *Server) listRuns(ctx *gin.Context) {
	limit, err := intQuery(ctx, "limit", defaultRunsLimit)
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})

		return
	}

	runs, err := s.repo.ListRuns(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if runs == nil {
		runs = []*ledger.Run{}
	}

	ctx.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(ctx *gin.Context) {
	run, err := s.repo.GetRun(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, run)
}

func (s *Server) listPhotos(ctx *gin.Context) {
	id := ctx.Param("id")

	status := ctx.Query("status")
	switch organizer.Status(status) {
	case "", organizer.StatusMoved, organizer.StatusPlanned, organizer.StatusFailed:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(status)})

		return
	}

	if _, err := s.repo.GetRun(ctx.Request.Context(), id); err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})

		return
	}

	photos, err := s.repo.ListPhotos(ctx.Request.Context(), id, status)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if photos == nil {
		photos = []*ledger.Photo{}
	}

	ctx.JSON(http.StatusOK, gin.H{"run_id": id, "photos": photos})
}

func (s *Server) listPlaces(ctx *gin.Context) {
	res, err := intQuery(ctx, "res", defaultPlacesRes)
	if err != nil || res < spatial.MinCellResolution || res > spatial.MaxCellResolution {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("res must be an integer between %d and %d",
			spatial.MinCellResolution, spatial.MaxCellResolution)})

		return
	}

	places, err := s.repo.ListPlaces(ctx.Request.Context(), res)
	if err != nil {
		log.Printf("Error listing places: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if places == nil {
		places = []*ledger.Place{}
	}

	ctx.JSON(http.StatusOK, gin.H{"res": res, "places": places})
}

func intQuery(ctx *gin.Context, key string, def int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}

func statusFor(err error) int {
	if errors.Is(err, ledger.ErrRunNotFound) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
