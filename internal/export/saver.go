// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Saver persists a rendered artifact under name and returns where it went.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes artifacts into a local directory, replacing any file of
// the same name. Writes go through a temp file and rename so a reader never
// sees a partial artifact.
type DirSaver struct {
	Dir string
}

// NewDirSaver returns a saver rooted at dir.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

// Save writes data to Dir/name.
func (s *DirSaver) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	dst := filepath.Join(s.Dir, name)
	if err := os.Rename(tmpName, dst); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return dst, nil
}
