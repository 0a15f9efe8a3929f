package main

import (
	"errors"
	"os"

	gradescope "github.com/DS-100/nb-to-gradescope"
	"github.com/DS-100/nb-to-gradescope/internal/config"
)

// Exit codes for the nb2gradescope CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitRenderer = 4 // Missing renderer binary or render failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer errors (exit 4)
	if errors.Is(err, gradescope.ErrRendererNotFound) ||
		errors.Is(err, gradescope.ErrBrowserConnect) ||
		errors.Is(err, gradescope.ErrPageCreate) ||
		errors.Is(err, gradescope.ErrPageLoad) ||
		errors.Is(err, gradescope.ErrPDFRender) {
		return ExitRenderer
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, gradescope.ErrNotebookRead) ||
		errors.Is(err, gradescope.ErrPDFAssemble) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, gradescope.ErrEmptyFilename) ||
		errors.Is(err, gradescope.ErrEmailNotFound) ||
		errors.Is(err, gradescope.ErrNoQuestionTag) ||
		errors.Is(err, gradescope.ErrInvalidPageSize) ||
		errors.Is(err, gradescope.ErrInvalidMargin) ||
		errors.Is(err, gradescope.ErrInvalidZoom) ||
		errors.Is(err, gradescope.ErrInvalidPageCount) ||
		errors.Is(err, gradescope.ErrInvalidRenderer) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrOutputNotDir) {
		return ExitUsage
	}

	return ExitGeneral
}
