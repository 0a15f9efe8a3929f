package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	gradescope "github.com/DS-100/nb-to-gradescope"
	"github.com/DS-100/nb-to-gradescope/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"renderer missing", gradescope.ErrRendererNotFound, ExitRenderer},
		{"render failed", gradescope.ErrPDFRender, ExitRenderer},
		{"browser connect", gradescope.ErrBrowserConnect, ExitRenderer},
		{"notebook read", gradescope.ErrNotebookRead, ExitIO},
		{"pdf assemble", gradescope.ErrPDFAssemble, ExitIO},
		{"file not found", os.ErrNotExist, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"empty filename", gradescope.ErrEmptyFilename, ExitUsage},
		{"email missing", gradescope.ErrEmailNotFound, ExitUsage},
		{"no question tag", gradescope.ErrNoQuestionTag, ExitUsage},
		{"bad page size", gradescope.ErrInvalidPageSize, ExitUsage},
		{"bad extension", ErrInvalidExtension, ExitUsage},
		{"bad timeout", ErrInvalidTimeout, ExitUsage},
		{"output not dir", ErrOutputNotDir, ExitUsage},
		{"unexpected", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("converting hw1.ipynb: %w", gradescope.ErrRendererNotFound)
	if got := exitCodeFor(err); got != ExitRenderer {
		t.Errorf("exitCodeFor(wrapped) = %d, want %d", got, ExitRenderer)
	}
}
