package utils

import "path/filepath"

// ResolvePath returns path unchanged if it is absolute, otherwise joined
// onto baseDir.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
