// Package pathutil provides safe path handling for report and database files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolve cleans a path, rejects traversal patterns, and returns it absolute.
func resolve(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path contains directory traversal pattern: %s", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	return absPath, nil
}

// ValidateConfigPath validates a YAML configuration file path.
func ValidateConfigPath(path string) (string, error) {
	absPath, err := resolve(path)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	if ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("config file must have .yaml or .yml extension, got %s", ext)
	}

	return absPath, nil
}

// ValidateInputPath validates a report file path and requires the file to exist.
func ValidateInputPath(path string) (string, error) {
	absPath, err := resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("report file not accessible: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("report path is a directory: %s", absPath)
	}

	return absPath, nil
}

// ValidateOutputPath validates an output file path. The parent directory
// must already exist.
func ValidateOutputPath(path string) (string, error) {
	absPath, err := resolve(path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("parent directory does not exist: %s", dir)
	}

	return absPath, nil
}

// JoinAndValidate safely joins path components and ensures the result stays
// within the base directory.
func JoinAndValidate(baseDir string, elems ...string) (string, error) {
	for _, elem := range elems {
		if strings.Contains(elem, "..") {
			return "", fmt.Errorf("path element contains directory traversal: %s", elem)
		}
	}

	joined := filepath.Join(append([]string{baseDir}, elems...)...)

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("getting absolute base directory: %w", err)
	}

	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("getting absolute joined path: %w", err)
	}

	base := absBase
	if !strings.HasSuffix(base, string(filepath.Separator)) {
		base += string(filepath.Separator)
	}

	if !strings.HasPrefix(absJoined, base) && absJoined != absBase {
		return "", fmt.Errorf("joined path %s is not within base directory %s", joined, baseDir)
	}

	return absJoined, nil
}
