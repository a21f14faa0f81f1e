package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource reads the assembly file at path. Files longer than maxLen bytes
// are rejected without reading them whole; maxLen <= 0 means no limit.
func ReadSource(path string, maxLen int) (string, error) {
	fullPath, _, err := GetPathInfo(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if maxLen > 0 {
		r = io.LimitReader(f, int64(maxLen)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fullPath, err)
	}
	if maxLen > 0 && len(data) > maxLen {
		return "", fmt.Errorf("%s is larger than %d bytes", fullPath, maxLen)
	}
	return string(data), nil
}

// DefaultOutputPath swaps the extension of inPath for .bin.
func DefaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".bin"
	}
	return strings.TrimSuffix(inPath, ext) + ".bin"
}

func WriteBinary(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
