// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutil holds small string helpers shared by the commands.
package textutil

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EmptyFolderName replaces names that sanitise to nothing.
const EmptyFolderName = "_"

// ASCIIFolding removes accents and trims spaces, keeping the case.
func ASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(s),
	)

	return s
}

// FolderName turns a place name into a single safe path element. Separators
// and control characters become '-', runs of spaces collapse, and leading or
// trailing dots and spaces are dropped. With ascii set accents are folded too.
func FolderName(s string, ascii bool) string {
	s = norm.NFC.String(s)
	if ascii {
		s = ASCIIFolding(s)
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '-'
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}

		return r
	}, s)

	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, ". ")

	if s == "" {
		return EmptyFolderName
	}

	return s
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
