package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// descriptorExtensions lists the build descriptor file extensions.
var descriptorExtensions = []string{".csproj", ".fsproj", ".vbproj", ".sln"}

// Discover walks root and returns the paths of all build descriptors, sorted.
// Ignored directories are skipped entirely.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDescriptor(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

// IsDescriptor reports whether path names a build descriptor.
func IsDescriptor(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range descriptorExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isExcludedDir returns true for directories that never hold sources.
func isExcludedDir(name string) bool {
	switch strings.ToLower(name) {
	case "bin", "obj", ".git", "node_modules":
		return true
	}
	return false
}
