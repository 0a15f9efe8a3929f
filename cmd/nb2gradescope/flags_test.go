package main

import (
	"testing"
)

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	flags, files, err := parseConvertFlags([]string{
		"-n", "5",
		"--solution",
		"--pages-per-q", "3",
		"--folder", "pdfs",
		"-o", "out.pdf",
		"--zoom", "1.5",
		"-p", "a4",
		"--margin", "0.5",
		"--renderer", "chrome",
		"--no-banner",
		"--wait-save",
		"-w", "4",
		"-t", "45s",
		"hw1.ipynb", "hw2.ipynb",
	})
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if flags.questions != 5 {
		t.Errorf("questions = %d, want 5", flags.questions)
	}
	if !flags.solution {
		t.Error("solution = false, want true")
	}
	if flags.pagesPerQ != 3 {
		t.Errorf("pagesPerQ = %d, want 3", flags.pagesPerQ)
	}
	if flags.folder != "pdfs" {
		t.Errorf("folder = %q, want pdfs", flags.folder)
	}
	if flags.output != "out.pdf" {
		t.Errorf("output = %q, want out.pdf", flags.output)
	}
	if flags.zoom != 1.5 {
		t.Errorf("zoom = %g, want 1.5", flags.zoom)
	}
	if flags.pageSize != "a4" {
		t.Errorf("pageSize = %q, want a4", flags.pageSize)
	}
	if flags.margin != 0.5 {
		t.Errorf("margin = %g, want 0.5", flags.margin)
	}
	if flags.renderer != "chrome" {
		t.Errorf("renderer = %q, want chrome", flags.renderer)
	}
	if !flags.noBanner || !flags.waitSave {
		t.Error("noBanner/waitSave not set")
	}
	if flags.workers != 4 {
		t.Errorf("workers = %d, want 4", flags.workers)
	}
	if flags.timeout != "45s" {
		t.Errorf("timeout = %q, want 45s", flags.timeout)
	}

	if len(files) != 2 || files[0] != "hw1.ipynb" || files[1] != "hw2.ipynb" {
		t.Errorf("files = %v, want the two notebooks", files)
	}
}

func TestParseConvertFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags, files, err := parseConvertFlags([]string{"hw1.ipynb"})
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	// Zero values signal "unset" so the config file can fill them.
	if flags.questions != 0 || flags.pagesPerQ != 0 || flags.zoom != 0 || flags.margin != 0 {
		t.Errorf("numeric flags not zero by default: %+v", flags)
	}
	if flags.folder != "" || flags.output != "" || flags.pageSize != "" || flags.renderer != "" {
		t.Errorf("string flags not empty by default: %+v", flags)
	}
	if len(files) != 1 {
		t.Errorf("files = %v, want one notebook", files)
	}
}

func TestParseConvertFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	if _, _, err := parseConvertFlags([]string{"--bogus"}); err == nil {
		t.Error("parseConvertFlags() accepted an unknown flag")
	}
}
