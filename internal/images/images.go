// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images moves image assets emitted by the notebook converter out of
// the posts directory and rewrites the references to them.
package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"
)

const imageExt = ".png"

// Move records one relocated image.
type Move struct {
	From string
	To   string
}

// Find returns the images belonging to a post: files named <prefix>*.png and
// PNG files inside the <prefix>_files directory newer converters write.
func Find(prefix string) ([]string, error) {
	siblings, err := filepath.Glob(prefix + "*" + imageExt)
	if err != nil {
		return nil, fmt.Errorf("globbing images for %s: %w", prefix, err)
	}
	nested, err := filepath.Glob(filepath.Join(prefix+"_files", "*"+imageExt))
	if err != nil {
		return nil, fmt.Errorf("globbing images for %s: %w", prefix, err)
	}
	found := append(siblings, nested...)
	sort.Strings(found)
	return found, nil
}

// Destination maps an image path under postsDir to the same relative path
// under imagesDir.
func Destination(src, postsDir, imagesDir string) (string, error) {
	rel, err := filepath.Rel(postsDir, src)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("image %s is outside posts directory %s", src, postsDir)
	}
	return filepath.Join(imagesDir, rel), nil
}

// Relocate moves every image of the post at prefix from postsDir to
// imagesDir. The images root is expected to exist; subdirectories below it
// are created as needed.
func Relocate(prefix, postsDir, imagesDir string) ([]Move, error) {
	found, err := Find(prefix)
	if err != nil {
		return nil, err
	}

	moves := make([]Move, 0, len(found))
	for _, src := range found {
		dst, err := Destination(src, postsDir, imagesDir)
		if err != nil {
			return moves, err
		}
		if err := move(src, dst); err != nil {
			return moves, err
		}
		moves = append(moves, Move{From: src, To: dst})
	}
	return moves, nil
}

// move renames src to dst, copying and removing when a rename cannot cross
// filesystems.
func move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if err := copy.Copy(src, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", src, dst, errors.Join(renameErr, err))
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}
