// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package photometatest builds minimal images with GPS metadata for tests.
package photometatest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Rat is an unsigned EXIF rational.
type Rat [2]uint32

// GPS describes the GPS IFD written into a fixture. A nil slice or empty reference
// omits the tag.
type GPS struct {
	Latitude     []Rat
	LatitudeRef  string
	Longitude    []Rat
	LongitudeRef string
}

// FromDecimal encodes signed decimal degrees the way cameras do: integer degrees and
// minutes, seconds with four decimals.
func FromDecimal(lat, lng float64) GPS {
	latRef, lngRef := "N", "E"
	if lat < 0 {
		latRef, lat = "S", -lat
	}

	if lng < 0 {
		lngRef, lng = "W", -lng
	}

	return GPS{
		Latitude:     toDMS(lat),
		LatitudeRef:  latRef,
		Longitude:    toDMS(lng),
		LongitudeRef: lngRef,
	}
}

func toDMS(v float64) []Rat {
	deg := math.Floor(v)
	minutes := math.Floor((v - deg) * 60)
	seconds := (v - deg - minutes/60) * 3600

	return []Rat{
		{uint32(deg), 1},
		{uint32(minutes), 1},
		{uint32(math.Round(seconds * 10000)), 10000},
	}
}

const (
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5

	tagGPSPointer   = 0x8825
	tagLatitudeRef  = 0x0001
	tagLatitude     = 0x0002
	tagLongitudeRef = 0x0003
	tagLongitude    = 0x0004
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// TIFF returns a little endian TIFF structure whose IFD0 points at a GPS IFD.
func TIFF(gps GPS) []byte {
	var entries []entry

	if gps.LatitudeRef != "" {
		entries = append(entries, asciiEntry(tagLatitudeRef, gps.LatitudeRef))
	}

	if gps.Latitude != nil {
		entries = append(entries, rationalEntry(tagLatitude, gps.Latitude))
	}

	if gps.LongitudeRef != "" {
		entries = append(entries, asciiEntry(tagLongitudeRef, gps.LongitudeRef))
	}

	if gps.Longitude != nil {
		entries = append(entries, rationalEntry(tagLongitude, gps.Longitude))
	}

	le := binary.LittleEndian

	const ifd0Offset = 8

	ifd0Size := 2 + 12 + 4
	gpsOffset := ifd0Offset + ifd0Size
	gpsSize := 2 + 12*len(entries) + 4
	dataOffset := gpsOffset + gpsSize

	var out bytes.Buffer

	out.WriteString("II")
	_ = binary.Write(&out, le, uint16(42))
	_ = binary.Write(&out, le, uint32(ifd0Offset))

	// IFD0: only the GPS pointer.
	_ = binary.Write(&out, le, uint16(1))
	_ = binary.Write(&out, le, uint16(tagGPSPointer))
	_ = binary.Write(&out, le, uint16(typeLong))
	_ = binary.Write(&out, le, uint32(1))
	_ = binary.Write(&out, le, uint32(gpsOffset))
	_ = binary.Write(&out, le, uint32(0))

	var data bytes.Buffer

	_ = binary.Write(&out, le, uint16(len(entries)))

	for _, e := range entries {
		_ = binary.Write(&out, le, e.tag)
		_ = binary.Write(&out, le, e.typ)
		_ = binary.Write(&out, le, e.count)

		if len(e.data) <= 4 {
			var inline [4]byte

			copy(inline[:], e.data)
			out.Write(inline[:])

			continue
		}

		_ = binary.Write(&out, le, uint32(dataOffset+data.Len()))
		data.Write(e.data)
	}

	_ = binary.Write(&out, le, uint32(0))
	out.Write(data.Bytes())

	return out.Bytes()
}

// TIFFWithoutGPS returns a TIFF structure with an empty IFD0.
func TIFFWithoutGPS() []byte {
	le := binary.LittleEndian

	var out bytes.Buffer

	out.WriteString("II")
	_ = binary.Write(&out, le, uint16(42))
	_ = binary.Write(&out, le, uint32(8))
	_ = binary.Write(&out, le, uint16(0))
	_ = binary.Write(&out, le, uint32(0))

	return out.Bytes()
}

func asciiEntry(tag uint16, s string) entry {
	data := append([]byte(s), 0)

	return entry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

func rationalEntry(tag uint16, rats []Rat) entry {
	var data bytes.Buffer

	for _, r := range rats {
		_ = binary.Write(&data, binary.LittleEndian, r[0])
		_ = binary.Write(&data, binary.LittleEndian, r[1])
	}

	return entry{tag: tag, typ: typeRational, count: uint32(len(rats)), data: data.Bytes()}
}

// JPEG wraps a TIFF structure into a JPEG APP1 segment.
func JPEG(tiff []byte) []byte {
	var out bytes.Buffer

	out.Write([]byte{0xFF, 0xD8})

	if tiff != nil {
		payload := append([]byte("Exif\x00\x00"), tiff...)

		out.Write([]byte{0xFF, 0xE1})
		_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
		out.Write(payload)
	}

	// A comment segment keeps the file longer than the header sniffers read.
	comment := bytes.Repeat([]byte{' '}, 64)

	out.Write([]byte{0xFF, 0xFE})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(comment)+2))
	out.Write(comment)
	out.Write([]byte{0xFF, 0xD9})

	return out.Bytes()
}

// HEIC returns an ISO-BMFF container with a "heic" ftyp and an mdat box holding
// the Exif item: a 4 byte header offset, "Exif\0\0" and the TIFF structure.
func HEIC(tiff []byte) []byte {
	return isobmff("heic\x00\x00\x00\x00mif1heic", tiff)
}

// AVIF is HEIC with AVIF brands in the ftyp box.
func AVIF(tiff []byte) []byte {
	return isobmff("avif\x00\x00\x00\x00mif1avif", tiff)
}

func isobmff(ftyp string, tiff []byte) []byte {
	var out bytes.Buffer

	writeBox(&out, "ftyp", []byte(ftyp))
	writeBox(&out, "meta", bytes.Repeat([]byte{0}, 64))

	var item bytes.Buffer

	_ = binary.Write(&item, binary.BigEndian, uint32(6))

	if tiff != nil {
		item.WriteString("Exif\x00\x00")
		item.Write(tiff)
	}

	writeBox(&out, "mdat", item.Bytes())

	return out.Bytes()
}

func writeBox(w *bytes.Buffer, kind string, payload []byte) {
	_ = binary.Write(w, binary.BigEndian, uint32(len(payload)+8))
	w.WriteString(kind)
	w.Write(payload)
}

// WriteFile writes content into dir/name, creating dir if needed, and returns
// the full path.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating fixture dir %s: %v", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}

	return path
}
