// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fsutil locates qnexp documents on disk.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/qnexp/internal/ctxlog"
)

// Extensions accepted for documents, in order of preference.
var Extensions = []string{".json", ".hcl"}

// FindFiles recursively searches root for files whose base name is one of
// names. The result is sorted.
func FindFiles(root string, names ...string) ([]string, error) {
	if len(names) == 0 {
		panic("names must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(names, d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// DocumentNames returns base+ext for every accepted extension.
func DocumentNames(base string) []string {
	out := make([]string, len(Extensions))
	for i, ext := range Extensions {
		out[i] = base + ext
	}
	return out
}

// ResolveDocuments turns each path into document files. A file is taken as
// is. A directory is searched recursively for files named base.json or
// base.hcl. Paths are cleaned, duplicates are removed and the result is sorted.
func ResolveDocuments(ctx context.Context, base string, paths ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var out []string
	for _, path := range paths {
		logger.Debug("Resolving document path.", "path", path, "document", base)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("path not found: %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			out = append(out, filepath.Clean(path))
			continue
		}
		found, err := FindFiles(path, DocumentNames(base)...)
		if err != nil {
			return nil, fmt.Errorf("error searching %s: %w", path, err)
		}
		logger.Debug("Directory scanned.", "path", path, "found", len(found))
		out = append(out, found...)
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

// ResolveDocument resolves path to exactly one document file. A directory
// must contain base.json or base.hcl directly; the JSON file wins when both
// exist.
func ResolveDocument(path, base string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range DocumentNames(base) {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s document in %s", base, path)
}
