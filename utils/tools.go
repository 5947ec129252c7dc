package utils

import (
	"path/filepath"
)

func Absolute(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.Abs(path)
	}
	return path, nil
}
