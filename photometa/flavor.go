// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package photometa

import (
	"io"

	"github.com/evanoberholster/imagemeta/imagetype"
)

// Flavor is the way an image container stores its EXIF block.
type Flavor int

const (
	// FlavorStandard covers JPEG APP1 and TIFF-based containers.
	FlavorStandard Flavor = iota
	// FlavorHeicWrapped is an ISO-BMFF (HEIC/HEIF/AVIF) container with an Exif item.
	FlavorHeicWrapped
)

func (f Flavor) String() string {
	if f == FlavorHeicWrapped {
		return "heic"
	}

	return "standard"
}

// SniffFlavor inspects the leading bytes of r. Unknown or unreadable headers are
// treated as FlavorStandard; the EXIF decoder reports what it can't handle.
func SniffFlavor(r io.Reader) Flavor {
	t, err := imagetype.Scan(r)
	if err != nil {
		return FlavorStandard
	}

	if t == imagetype.ImageHEIF || t == imagetype.ImageAVIF {
		return FlavorHeicWrapped
	}

	return FlavorStandard
}
