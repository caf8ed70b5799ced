// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package organizer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"
)

// rename is replaced in tests to simulate cross-device moves.
var rename = os.Rename

// moveFile renames source to target, replacing target if it exists, and falls
// back to copy and delete when they live on different filesystems.
func moveFile(source, target string) error {
	renameErr := rename(source, target)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("moving file: %w", renameErr)
	}

	if err := copyFile(source, target); err != nil {
		return fmt.Errorf("copying across devices: %w", err)
	}

	if err := os.Remove(source); err != nil {
		log.Printf("⚠️ Copied %s to %s but could not remove the original: %v", source, target, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)

		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
