// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package script

import (
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

// Options defines settings for script Reader and Writer.
type Options struct {
	Logger *zap.Logger

	// Indent is emitted once per indentation level at the start of a line.
	Indent string

	// FileMode is used for files created by the Writer.
	FileMode fs.FileMode
}

// defaultOptions returns default initial values.
func defaultOptions() Options {
	return Options{
		Logger:   zap.NewNop(),
		Indent:   "\t",
		FileMode: 0o644,
	}
}

// OptionFunc allows setting script options.
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

// WithLogger sets logger for script Reader and Writer.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(opt *Options) error {
		if logger == nil {
			return fmt.Errorf("logger should not be nil")
		}

		opt.Logger = logger

		return nil
	}
}

// WithIndent sets the indentation unit of the Writer.
func WithIndent(indent string) OptionFunc {
	return func(opt *Options) error {
		if indent == "" {
			return fmt.Errorf("indent should not be empty")
		}

		for _, c := range indent {
			if c != ' ' && c != '\t' {
				return fmt.Errorf("indent should only contain spaces and tabs: %q", indent)
			}
		}

		opt.Indent = indent

		return nil
	}
}

// WithFileMode sets permissions of files created by the Writer.
func WithFileMode(mode fs.FileMode) OptionFunc {
	return func(opt *Options) error {
		if mode&^fs.ModePerm != 0 {
			return fmt.Errorf("file mode should only contain permission bits: %v", mode)
		}

		opt.FileMode = mode

		return nil
	}
}
