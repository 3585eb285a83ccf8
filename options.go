// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import (
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

// Options defines settings for Writer and Reader.
type Options struct {
	Logger *zap.Logger

	// Endianness is the byte order the Writer produces.
	//
	// For the Reader, Endianness declares the byte order of the loaded data.
	// The Reader never detects the byte order on its own: data written with a
	// non-native byte order appears byte-swapped unless declared here.
	Endianness Endianness

	// FileMode is used for files created by the Writer.
	FileMode fs.FileMode

	// AtomicWrite makes file targets visible only after a successful Close.
	AtomicWrite bool
}

// defaultOptions returns default initial values.
func defaultOptions() Options {
	return Options{
		Logger:      zap.NewNop(),
		Endianness:  Native,
		FileMode:    0o644,
		AtomicWrite: true,
	}
}

// OptionFunc allows setting Writer and Reader options.
type OptionFunc func(*Options) error

func applyOptions(opts []OptionFunc) (Options, error) {
	opt := defaultOptions()

	for _, o := range opts {
		if err := o(&opt); err != nil {
			return opt, err
		}
	}

	return opt, nil
}

// WithEndianness sets the byte order of the data.
func WithEndianness(e Endianness) OptionFunc {
	return func(opt *Options) error {
		switch e {
		case Native, Little, Big:
		default:
			return fmt.Errorf("%w: %d", ErrInvalidEndianness, int(e))
		}

		opt.Endianness = e

		return nil
	}
}

// WithFileMode sets permissions of created files.
func WithFileMode(mode fs.FileMode) OptionFunc {
	return func(opt *Options) error {
		if mode&^fs.ModePerm != 0 {
			return fmt.Errorf("file mode should only contain permission bits: %v", mode)
		}

		opt.FileMode = mode

		return nil
	}
}

// WithAtomicWrite enables or disables writing files through a temporary file.
//
// Default is enabled: the target path is replaced only when the Writer is closed
// without errors, and an aborted write leaves the previous file untouched.
func WithAtomicWrite(atomic bool) OptionFunc {
	return func(opt *Options) error {
		opt.AtomicWrite = atomic

		return nil
	}
}

// WithLogger sets logger for Writer and Reader.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(opt *Options) error {
		if logger == nil {
			return fmt.Errorf("logger should not be nil")
		}

		opt.Logger = logger

		return nil
	}
}
