// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "helsinki", lat: 60.169857, lng: 24.938379},
		{name: "montevideo", lat: -34.8822366, lng: -56.1529602},
		{name: "north pole", lat: 90, lng: 0},
		{name: "antimeridian", lat: 0, lng: -180},
		{name: "latitude too big", lat: 90.0001, lng: 0, wantErr: true},
		{name: "latitude too small", lat: -91, lng: 0, wantErr: true},
		{name: "longitude too big", lat: 0, lng: 180.5, wantErr: true},
		{name: "longitude too small", lat: 0, lng: -200, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPoint(tt.lat, tt.lng)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrOutOfRange))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, Point{Lat: tt.lat, Lng: tt.lng}, p)
		})
	}
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "60.169857,24.938379", Point{Lat: 60.169857, Lng: 24.938379}.String())
}

func TestPointCells(t *testing.T) {
	p := Point{Lat: 60.169857, Lng: 24.938379}

	cells, err := p.Cells()
	require.NoError(t, err)
	require.Len(t, cells, MaxCellResolution-MinCellResolution+1)

	for i, c := range cells {
		assert.NotZero(t, c, "resolution %d", i+MinCellResolution)
	}

	cell, err := p.Cell(MaxCellResolution)
	require.NoError(t, err)
	assert.Equal(t, int64(cell), cells[len(cells)-1])
	assert.Equal(t, MaxCellResolution, cell.Resolution())
}
