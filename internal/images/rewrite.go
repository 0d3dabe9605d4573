// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RewritePaths replaces references to the posts directory in the markdown
// file at mdPath with imagesURL. The absolute posts directory path is always
// replaced; references to relocated images relative to the posts directory
// are rewritten as well. The file is replaced atomically.
func RewritePaths(mdPath, postsDir, imagesURL string, moves []Move) error {
	absPosts, err := filepath.Abs(postsDir)
	if err != nil {
		return fmt.Errorf("resolving posts directory: %w", err)
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("reading post: %w", err)
	}

	rewritten := replacer(absPosts, postsDir, imagesURL, moves).Replace(string(data))
	if rewritten == string(data) {
		return nil
	}
	return writeAtomic(mdPath, []byte(rewritten))
}

// replacer builds the substitutions for RewritePaths. Longer needles come
// first so that a full path is consumed before any of its suffixes can match.
func replacer(absPosts, postsDir, imagesURL string, moves []Move) *strings.Replacer {
	url := strings.TrimSuffix(imagesURL, "/")
	abs := filepath.ToSlash(absPosts)
	pairs := map[string]string{
		abs: url,
	}
	for _, m := range moves {
		rel, err := filepath.Rel(postsDir, m.From)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		pairs[abs+"/"+rel] = url + "/" + rel
		pairs[rel] = url + "/" + rel
	}

	needles := make([]string, 0, len(pairs))
	for k := range pairs {
		needles = append(needles, k)
	}
	sort.Slice(needles, func(i, j int) bool {
		if len(needles[i]) != len(needles[j]) {
			return len(needles[i]) > len(needles[j])
		}
		return needles[i] < needles[j]
	})

	args := make([]string, 0, 2*len(needles))
	for _, n := range needles {
		args = append(args, n, pairs[n])
	}
	return strings.NewReplacer(args...)
}

func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
