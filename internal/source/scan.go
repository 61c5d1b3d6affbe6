package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// compressedSuffixes are recognised after an .svg extension.
var compressedSuffixes = []string{".gz", ".xz", ".bz2"}

// supportedExtensions lists the single extensions a directory scan accepts.
var supportedExtensions = []string{
	".svg", ".svgz", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp",
}

// IsSupported reports whether a file name has a supported source extension.
func IsSupported(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(lower, ".svg"+suffix) {
			return true
		}
	}
	return slices.Contains(supportedExtensions, filepath.Ext(lower))
}

// BaseName strips the directory and the source extension, including a
// compression suffix: "dir/logo.svg.gz" becomes "logo".
func BaseName(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(lower, ".svg"+suffix) {
			return name[:len(name)-len(".svg"+suffix)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Scan lists the supported source files directly inside dirPath, sorted by name.
func Scan(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}

		if IsSupported(entry.Name()) {
			files = append(files, fullPath)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no supported source files found in directory: %s", dirPath)
	}

	slices.Sort(files)
	return files, nil
}
