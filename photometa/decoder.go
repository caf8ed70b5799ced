// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package photometa reads GPS coordinates embedded in image metadata.
package photometa

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cinapr/AutomaticLandmarkPhotoSorting/spatial"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const (
	fieldLatitude     = string(exif.GPSLatitude)
	fieldLatitudeRef  = string(exif.GPSLatitudeRef)
	fieldLongitude    = string(exif.GPSLongitude)
	fieldLongitudeRef = string(exif.GPSLongitudeRef)

	// DefaultMaxContainerScan bounds how much of a HEIC file is searched for its Exif item.
	DefaultMaxContainerScan = 64 << 20
)

var exifItemMarker = []byte("Exif\x00\x00")

// Decoder extracts coordinates from image files.
type Decoder struct {
	// MaxContainerScan is the number of bytes of a HEIC container searched for the
	// Exif item. Zero means DefaultMaxContainerScan.
	MaxContainerScan int64
}

// Decode returns the coordinate stored in the image at path. It never fails: any
// problem is logged and reported as the absence of a coordinate.
func (d *Decoder) Decode(path string) (spatial.Point, bool) {
	p, err := d.DecodeFile(path)

	switch {
	case err == nil:
		return p, true
	case errors.Is(err, ErrNoLocation):
		log.Printf("No GPS metadata in %s", path)
	case IsKind(err, KindMissingField):
		log.Printf("Missing expected GPS field in %s: %s", path, err)
	default:
		log.Printf("Unexpected error extracting GPS info from %s: %s", path, err)
	}

	return spatial.Point{}, false
}

// DecodeFile returns the coordinate stored in the image at path, ErrNoLocation when
// the image has no GPS block, or a *DecodeError.
func (d *Decoder) DecodeFile(path string) (spatial.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return spatial.Point{}, unexpected(err)
	}
	defer f.Close()

	flavor := SniffFlavor(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return spatial.Point{}, unexpected(err)
	}

	rec, err := d.ReadRecord(f, flavor)
	if err != nil {
		return spatial.Point{}, err
	}

	return rec.Point()
}

// ReadRecord decodes the GPS record of an image of the given flavor.
func (d *Decoder) ReadRecord(r io.Reader, flavor Flavor) (GPSRecord, error) {
	src := r

	if flavor == FlavorHeicWrapped {
		block, err := exifItem(r, d.maxContainerScan())
		if err != nil {
			return GPSRecord{}, err
		}

		src = bytes.NewReader(block)
	}

	x, err := decodeExifSafe(src)
	if err != nil {
		return GPSRecord{}, err
	}

	return readGPSRecord(x)
}

func (d *Decoder) maxContainerScan() int64 {
	if d == nil || d.MaxContainerScan <= 0 {
		return DefaultMaxContainerScan
	}

	return d.MaxContainerScan
}

// decodeExifSafe protects against panics from the decoder on malformed files.
func decodeExifSafe(r io.Reader) (x *exif.Exif, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			x = nil
			err = unexpected(fmt.Errorf("panic while decoding exif: %v", rec))
		}
	}()

	x, err = exif.Decode(r)
	if err == nil {
		return x, nil
	}

	if isNoExif(err) {
		return nil, fmt.Errorf("no exif block: %w", ErrNoLocation)
	}

	// Non critical errors leave a usable Exif, e.g. a broken maker note.
	if x != nil && !exif.IsCriticalError(err) {
		return x, nil
	}

	return nil, unexpected(err)
}

// isNoExif detects goexif's ways of saying that the container has no EXIF at all.
func isNoExif(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "failed to find exif intro marker") ||
		strings.Contains(msg, "error reading 4 byte header")
}

func readGPSRecord(x *exif.Exif) (GPSRecord, error) {
	if _, err := x.Get(exif.GPSInfoIFDPointer); err != nil {
		if exif.IsTagNotPresentError(err) {
			return GPSRecord{}, fmt.Errorf("no gps ifd: %w", ErrNoLocation)
		}

		return GPSRecord{}, unexpected(err)
	}

	var (
		rec GPSRecord
		err error
	)

	if rec.Latitude, err = readDMS(x, exif.GPSLatitude); err != nil {
		return GPSRecord{}, err
	}

	if rec.LatitudeRef, err = readRef(x, exif.GPSLatitudeRef); err != nil {
		return GPSRecord{}, err
	}

	if rec.Longitude, err = readDMS(x, exif.GPSLongitude); err != nil {
		return GPSRecord{}, err
	}

	if rec.LongitudeRef, err = readRef(x, exif.GPSLongitudeRef); err != nil {
		return GPSRecord{}, err
	}

	return rec, nil
}

func getTag(x *exif.Exif, name exif.FieldName) (*tiff.Tag, error) {
	tag, err := x.Get(name)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return nil, missingField(string(name), nil)
		}

		return nil, unexpected(err)
	}

	return tag, nil
}

func readDMS(x *exif.Exif, name exif.FieldName) (DMS, error) {
	tag, err := getTag(x, name)
	if err != nil {
		return DMS{}, err
	}

	if tag.Count < 3 {
		return DMS{}, malformed(string(name), fmt.Errorf("expected 3 rationals, got %d", tag.Count))
	}

	var v DMS

	for i := range v {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return DMS{}, malformed(string(name), err)
		}

		v[i] = Rational{Num: num, Den: den}
	}

	return v, nil
}

func readRef(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := getTag(x, name)
	if err != nil {
		return "", err
	}

	s, err := tag.StringVal()
	if err != nil {
		return "", unexpected(fmt.Errorf("%s: %w", name, err))
	}

	return strings.TrimSpace(s), nil
}

// exifItem finds the Exif item payload inside an ISO-BMFF container. The payload
// is an "Exif\0\0" header followed by a TIFF structure, which goexif accepts as a
// raw EXIF block.
func exifItem(r io.Reader, limit int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, unexpected(fmt.Errorf("reading container: %w", err))
	}

	for off := 0; off < len(buf); {
		i := bytes.Index(buf[off:], exifItemMarker)
		if i < 0 {
			break
		}

		start := off + i
		tiffStart := start + len(exifItemMarker)

		if tiffStart+4 <= len(buf) && isTIFFHeader(buf[tiffStart:tiffStart+4]) {
			return buf[start:], nil
		}

		off = start + 1
	}

	return nil, fmt.Errorf("no exif item in heic container: %w", ErrNoLocation)
}

func isTIFFHeader(b []byte) bool {
	return bytes.Equal(b, []byte("II*\x00")) || bytes.Equal(b, []byte("MM\x00*"))
}
