package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// FindGoModFile searches for a go.mod file starting from startDir and walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", fmt.Errorf("no go.mod found above %s", startDir)
		}
		currentDir = parent
	}
}

// ParseModuleName extracts the module path from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(goModPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}
	return modFile.Module.Mod.Path, nil
}

// ModulePathFor returns the module path of the nearest go.mod above dir
func ModulePathFor(dir string) (string, error) {
	goModPath, err := FindGoModFile(dir)
	if err != nil {
		return "", err
	}
	return ParseModuleName(goModPath)
}
