// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package photometa

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/photometa/photometatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func helsinkiDMS() []photometatest.Rat {
	// 60°10'11.5"
	return []photometatest.Rat{{60, 1}, {10, 1}, {115, 10}}
}

func TestDMSDegrees(t *testing.T) {
	tests := []struct {
		name    string
		dms     DMS
		want    float64
		wantErr bool
	}{
		{
			name: "helsinki latitude",
			dms:  DMS{{60, 1}, {10, 1}, {115, 10}},
			want: 60.169861,
		},
		{
			name: "fractional degrees",
			dms:  DMS{{245, 10}, {0, 1}, {0, 1}},
			want: 24.5,
		},
		{
			name: "zero",
			dms:  DMS{{0, 1}, {0, 1}, {0, 1}},
			want: 0,
		},
		{
			name:    "zero denominator in degrees",
			dms:     DMS{{60, 0}, {10, 1}, {115, 10}},
			wantErr: true,
		},
		{
			name:    "zero denominator in seconds",
			dms:     DMS{{60, 1}, {10, 1}, {115, 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dms.Degrees()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tolerance)
		})
	}
}

func TestGPSRecordPointHemispheres(t *testing.T) {
	dms := DMS{{60, 1}, {10, 1}, {115, 10}}

	tests := []struct {
		name    string
		latRef  string
		lngRef  string
		wantLat float64
		wantLng float64
	}{
		{name: "north east", latRef: "N", lngRef: "E", wantLat: 60.169861, wantLng: 60.169861},
		{name: "south east", latRef: "S", lngRef: "E", wantLat: -60.169861, wantLng: 60.169861},
		{name: "north west", latRef: "N", lngRef: "W", wantLat: 60.169861, wantLng: -60.169861},
		{name: "south west", latRef: "S", lngRef: "W", wantLat: -60.169861, wantLng: -60.169861},
		{name: "unknown refs are negative", latRef: "X", lngRef: "", wantLat: -60.169861, wantLng: -60.169861},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := GPSRecord{Latitude: dms, LatitudeRef: tt.latRef, Longitude: dms, LongitudeRef: tt.lngRef}

			p, err := rec.Point()
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLat, p.Lat, tolerance)
			assert.InDelta(t, tt.wantLng, p.Lng, tolerance)
		})
	}
}

func TestGPSRecordPointFailures(t *testing.T) {
	valid := DMS{{10, 1}, {0, 1}, {0, 1}}

	tests := []struct {
		name  string
		rec   GPSRecord
		kind  ErrorKind
		field string
	}{
		{
			name:  "latitude zero denominator",
			rec:   GPSRecord{Latitude: DMS{{10, 1}, {0, 0}, {0, 1}}, LatitudeRef: "N", Longitude: valid, LongitudeRef: "E"},
			kind:  KindMalformedRational,
			field: "GPSLatitude",
		},
		{
			name:  "longitude zero denominator",
			rec:   GPSRecord{Latitude: valid, LatitudeRef: "N", Longitude: DMS{{10, 0}, {0, 1}, {0, 1}}, LongitudeRef: "E"},
			kind:  KindMalformedRational,
			field: "GPSLongitude",
		},
		{
			name: "latitude out of range",
			rec:  GPSRecord{Latitude: DMS{{95, 1}, {0, 1}, {0, 1}}, LatitudeRef: "N", Longitude: valid, LongitudeRef: "E"},
			kind: KindOutOfRange,
		},
		{
			name: "longitude out of range",
			rec:  GPSRecord{Latitude: valid, LatitudeRef: "N", Longitude: DMS{{181, 1}, {0, 1}, {0, 1}}, LongitudeRef: "W"},
			kind: KindOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.Point()
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, tt.field, decErr.Field)
		})
	}
}

func TestDecodeFileJPEG(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		gps     photometatest.GPS
		wantLat float64
		wantLng float64
	}{
		{
			name: "north east",
			gps: photometatest.GPS{
				Latitude: helsinkiDMS(), LatitudeRef: "N",
				Longitude: []photometatest.Rat{{24, 1}, {56, 1}, {181, 10}}, LongitudeRef: "E",
			},
			wantLat: 60.169861,
			wantLng: 24.938361,
		},
		{
			name: "south west",
			gps: photometatest.GPS{
				Latitude: []photometatest.Rat{{34, 1}, {52, 1}, {5605, 100}}, LatitudeRef: "S",
				Longitude: []photometatest.Rat{{56, 1}, {9, 1}, {1066, 100}}, LongitudeRef: "W",
			},
			wantLat: -34.882236,
			wantLng: -56.152961,
		},
	}

	var d Decoder

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := photometatest.WriteFile(t, dir, tt.name+".jpg", photometatest.JPEG(photometatest.TIFF(tt.gps)))

			p, err := d.DecodeFile(path)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLat, p.Lat, tolerance)
			assert.InDelta(t, tt.wantLng, p.Lng, tolerance)

			got, ok := d.Decode(path)
			assert.True(t, ok)
			assert.Equal(t, p, got)
		})
	}
}

func TestDecodeFileFromDecimal(t *testing.T) {
	path := photometatest.WriteFile(t, t.TempDir(), "kamppi.jpg",
		photometatest.JPEG(photometatest.TIFF(photometatest.FromDecimal(60.169857, 24.938379))))

	var d Decoder

	p, err := d.DecodeFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 60.169857, p.Lat, tolerance)
	assert.InDelta(t, 24.938379, p.Lng, tolerance)
}

func TestDecodeFileNoLocation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "jpeg without exif", content: photometatest.JPEG(nil)},
		{name: "exif without gps", content: photometatest.JPEG(photometatest.TIFFWithoutGPS())},
		{name: "heic without exif item", content: photometatest.HEIC(nil)},
	}

	var d Decoder

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := photometatest.WriteFile(t, dir, tt.name, tt.content)

			_, err := d.DecodeFile(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoLocation), "got %v", err)

			_, ok := d.Decode(path)
			assert.False(t, ok)
		})
	}
}

func TestDecodeFileFailures(t *testing.T) {
	dir := t.TempDir()
	lng := []photometatest.Rat{{24, 1}, {56, 1}, {181, 10}}

	tests := []struct {
		name  string
		gps   photometatest.GPS
		kind  ErrorKind
		field string
	}{
		{
			name:  "missing latitude",
			gps:   photometatest.GPS{LatitudeRef: "N", Longitude: lng, LongitudeRef: "E"},
			kind:  KindMissingField,
			field: "GPSLatitude",
		},
		{
			name:  "missing latitude ref",
			gps:   photometatest.GPS{Latitude: helsinkiDMS(), Longitude: lng, LongitudeRef: "E"},
			kind:  KindMissingField,
			field: "GPSLatitudeRef",
		},
		{
			name:  "missing longitude",
			gps:   photometatest.GPS{Latitude: helsinkiDMS(), LatitudeRef: "N", LongitudeRef: "E"},
			kind:  KindMissingField,
			field: "GPSLongitude",
		},
		{
			name:  "missing longitude ref",
			gps:   photometatest.GPS{Latitude: helsinkiDMS(), LatitudeRef: "N", Longitude: lng},
			kind:  KindMissingField,
			field: "GPSLongitudeRef",
		},
		{
			name: "zero denominator",
			gps: photometatest.GPS{
				Latitude: []photometatest.Rat{{60, 1}, {10, 0}, {115, 10}}, LatitudeRef: "N",
				Longitude: lng, LongitudeRef: "E",
			},
			kind:  KindMalformedRational,
			field: "GPSLatitude",
		},
		{
			name: "two rationals only",
			gps: photometatest.GPS{
				Latitude: []photometatest.Rat{{60, 1}, {10, 1}}, LatitudeRef: "N",
				Longitude: lng, LongitudeRef: "E",
			},
			kind:  KindMalformedRational,
			field: "GPSLatitude",
		},
		{
			name: "out of range",
			gps: photometatest.GPS{
				Latitude: []photometatest.Rat{{91, 1}, {0, 1}, {0, 1}}, LatitudeRef: "N",
				Longitude: lng, LongitudeRef: "E",
			},
			kind: KindOutOfRange,
		},
	}

	var d Decoder

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := photometatest.WriteFile(t, dir, tt.name+".jpg", photometatest.JPEG(photometatest.TIFF(tt.gps)))

			_, err := d.DecodeFile(path)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNoLocation))
			assert.True(t, IsKind(err, tt.kind), "got %v", err)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, tt.field, decErr.Field)

			_, ok := d.Decode(path)
			assert.False(t, ok)
		})
	}
}

func TestDecodeFileMissingFile(t *testing.T) {
	var d Decoder

	_, err := d.DecodeFile("/does/not/exist.jpg")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnexpected))
}

func TestReadRecordHEIC(t *testing.T) {
	gps := photometatest.GPS{
		Latitude: helsinkiDMS(), LatitudeRef: "N",
		Longitude: []photometatest.Rat{{24, 1}, {56, 1}, {181, 10}}, LongitudeRef: "E",
	}

	var d Decoder

	rec, err := d.ReadRecord(bytes.NewReader(photometatest.HEIC(photometatest.TIFF(gps))), FlavorHeicWrapped)
	require.NoError(t, err)
	assert.Equal(t, "N", rec.LatitudeRef)
	assert.Equal(t, "E", rec.LongitudeRef)
	assert.Equal(t, DMS{{60, 1}, {10, 1}, {115, 10}}, rec.Latitude)

	p, err := rec.Point()
	require.NoError(t, err)
	assert.InDelta(t, 60.169861, p.Lat, tolerance)
	assert.InDelta(t, 24.938361, p.Lng, tolerance)
}

func TestReadRecordHEICScanLimit(t *testing.T) {
	content := photometatest.HEIC(photometatest.TIFF(photometatest.FromDecimal(1, 1)))

	d := Decoder{MaxContainerScan: 16}

	_, err := d.ReadRecord(bytes.NewReader(content), FlavorHeicWrapped)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoLocation))
}

func TestSniffFlavor(t *testing.T) {
	tiff := photometatest.TIFF(photometatest.FromDecimal(1, 1))

	assert.Equal(t, FlavorStandard, SniffFlavor(bytes.NewReader(photometatest.JPEG(tiff))))
	assert.Equal(t, FlavorHeicWrapped, SniffFlavor(bytes.NewReader(photometatest.HEIC(tiff))))
	assert.Equal(t, FlavorHeicWrapped, SniffFlavor(bytes.NewReader(photometatest.AVIF(tiff))))
	assert.Equal(t, FlavorStandard, SniffFlavor(bytes.NewReader(nil)))
}

func TestDecodeFileHEIC(t *testing.T) {
	path := photometatest.WriteFile(t, t.TempDir(), "IMG_0001.HEIC",
		photometatest.HEIC(photometatest.TIFF(photometatest.FromDecimal(-33.856784, 151.215297))))

	var d Decoder

	p, err := d.DecodeFile(path)
	require.NoError(t, err)
	assert.InDelta(t, -33.856784, p.Lat, tolerance)
	assert.InDelta(t, 151.215297, p.Lng, tolerance)
}

func TestDecodeFileAVIF(t *testing.T) {
	path := photometatest.WriteFile(t, t.TempDir(), "IMG_0002.avif",
		photometatest.AVIF(photometatest.TIFF(photometatest.FromDecimal(60.169857, 24.938379))))

	var d Decoder

	p, err := d.DecodeFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 60.169857, p.Lat, tolerance)
	assert.InDelta(t, 24.938379, p.Lng, tolerance)
}
