// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package atomicfile writes files via a temporary file and a rename.
package atomicfile

import (
	"fmt"
	"io/fs"
	"os"
)

// TempSuffix is appended to the target path while the file is being written.
const TempSuffix = ".tmp"

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte, mode fs.FileMode) error {
	tmpPath := path + TempSuffix

	if err := os.WriteFile(tmpPath, data, mode); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) //nolint:errcheck

		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// File is a file which becomes visible under its final path only after Commit.
//
// If atomic mode is disabled, File writes directly to the final path,
// and Abort removes the partially written file.
type File struct {
	*os.File

	path    string
	tmpPath string
}

// Create creates a new file for writing.
func Create(path string, mode fs.FileMode, atomic bool) (*File, error) {
	writePath := path
	if atomic {
		writePath = path + TempSuffix
	}

	f, err := os.OpenFile(writePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return nil, err
	}

	return &File{
		File:    f,
		path:    path,
		tmpPath: writePath,
	}, nil
}

// Path returns the final path of the file.
func (f *File) Path() string {
	return f.path
}

// Commit closes the file and moves it to the final path.
func (f *File) Commit() error {
	if err := f.File.Close(); err != nil {
		os.Remove(f.tmpPath) //nolint:errcheck

		return fmt.Errorf("failed to close file: %w", err)
	}

	if f.tmpPath == f.path {
		return nil
	}

	if err := os.Rename(f.tmpPath, f.path); err != nil {
		os.Remove(f.tmpPath) //nolint:errcheck

		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Abort closes the file and removes whatever was written so far.
func (f *File) Abort() error {
	f.File.Close() //nolint:errcheck

	if err := os.Remove(f.tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
