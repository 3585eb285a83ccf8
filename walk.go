// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import "errors"

// SkipChildren can be returned from a WalkFunc to not descend into a container.
var SkipChildren = errors.New("skip children") //nolint:errname

// WalkFunc is called by Walk for every visited chunk.
type WalkFunc func(c Chunk, depth int) error

// Walk visits c, its siblings and all their sub-chunks depth-first.
//
// Chunk IDs are not interpreted, so unknown chunks are visited and skipped like any other.
func Walk(c Chunk, fn WalkFunc) error {
	return walk(c, 0, fn)
}

func walk(c Chunk, depth int, fn WalkFunc) error {
	for ; c.Valid(); c = c.Next() {
		err := fn(c, depth)
		if errors.Is(err, SkipChildren) {
			continue
		}

		if err != nil {
			return err
		}

		if c.IsContainer() {
			if err = walk(c.First(), depth+1, fn); err != nil {
				return err
			}
		}
	}

	return nil
}
