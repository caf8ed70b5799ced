// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/cinapr/AutomaticLandmarkPhotoSorting/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
