// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content loads long-form article files addressed by taxonomy slug
// paths, parses their frontmatter, and renders them with article components.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when no article file exists for a slug path.
var ErrNotFound = errors.New("content not found")

// Extensions lists the article file extensions tried, in preference order.
var Extensions = []string{".mdx", ".md"}

// Source reads raw article files.
type Source interface {
	Read(ctx context.Context, slugPath []string) ([]byte, error)
}

// Lister enumerates the article files of a source as slash-separated names
// relative to its root, e.g. "speech-recognition/ctc-decoding.mdx".
type Lister interface {
	Articles(ctx context.Context) ([]string, error)
}

// IsArticle reports whether name has an article extension.
func IsArticle(name string) bool {
	ext := path.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FSSource reads articles from a filesystem. For the slug path a/b it tries
// a/b.mdx, a/b.md, a/b/index.mdx and a/b/index.md.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source reading from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource returns a source reading from a local directory.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Read returns the first existing candidate file for slugPath.
func (s *FSSource) Read(ctx context.Context, slugPath []string) ([]byte, error) {
	for _, name := range Candidates(slugPath) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(s.fsys, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read content %s: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// Articles walks the filesystem for article files. A missing root has none.
func (s *FSSource) Articles(ctx context.Context) ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && IsArticle(name) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return names, nil
}

// Candidates returns the file names that may hold the article for
// slugPath. Paths with empty or traversal segments yield no candidates.
func Candidates(slugPath []string) []string {
	if !validPath(slugPath) {
		return nil
	}
	base := path.Join(slugPath...)
	names := make([]string, 0, 2*len(Extensions))
	for _, ext := range Extensions {
		names = append(names, base+ext)
	}
	for _, ext := range Extensions {
		names = append(names, path.Join(base, "index"+ext))
	}
	return names
}

func validPath(slugPath []string) bool {
	if len(slugPath) == 0 {
		return false
	}
	for _, seg := range slugPath {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return false
		}
	}
	return true
}
