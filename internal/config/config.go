// Package config loads the optional YAML configuration for the CLI. Config
// values act as defaults; command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DS-100/nb-to-gradescope/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for submission PDF generation.
type Config struct {
	Tags    TagsConfig    `yaml:"tags"`
	Convert ConvertConfig `yaml:"convert"`
	Page    PageConfig    `yaml:"page"`
}

// TagsConfig overrides the cell tag sets that mark exportable cells.
// Every listed tag must be present on a cell for it to be exported.
type TagsConfig struct {
	Student  []string `yaml:"student"`  // Default: [written, student]
	Solution []string `yaml:"solution"` // Default: [written, solution]
}

// ConvertConfig defines pipeline defaults.
type ConvertConfig struct {
	PagesPerQuestion int     `yaml:"pagesPerQuestion"` // 0 = library default (2)
	Folder           string  `yaml:"folder"`           // Empty = "question_pdfs"
	Output           string  `yaml:"output"`           // Empty = "gradescope.pdf"
	Zoom             float64 `yaml:"zoom"`             // 0 = 1.0
	Renderer         string  `yaml:"renderer"`         // "wkhtmltopdf" (default) or "chrome"
	NoBanner         bool    `yaml:"noBanner"`         // Skip the email banner page
}

// PageConfig defines PDF page settings for each question PDF.
type PageConfig struct {
	Size   string  `yaml:"size"`   // "letter", "a4", "legal" (default: "letter")
	Margin float64 `yaml:"margin"` // inches (default: 0.25)
}

// DefaultConfig returns a neutral configuration; zero values defer to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/nb2gradescope/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "nb2gradescope", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
