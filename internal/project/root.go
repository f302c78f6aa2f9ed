// Package project locates devgenie configuration and build descriptors.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "devgenie.yaml"

// ErrNoConfig is returned when no devgenie.yaml exists in a directory or
// any of its parents.
var ErrNoConfig = errors.New("devgenie.yaml not found (in the current directory or any parent)")

// FindConfig walks up from the current working directory until it finds
// devgenie.yaml and returns its path.
func FindConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindConfigFrom(cwd)
}

// FindConfigFrom walks up from startDir until it finds devgenie.yaml.
func FindConfigFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}
