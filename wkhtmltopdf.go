package gradescope

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/DS-100/nb-to-gradescope/internal/fileutil"
)

// wkhtmltopdfInstallURL points students at install instructions when the
// binary is missing.
const wkhtmltopdfInstallURL = "https://wkhtmltopdf.org/downloads.html"

// baseZoomFactor is multiplied with the user zoom; wkhtmltopdf renders cell
// HTML tiny at zoom 1, so the default output is scaled up fourfold.
const baseZoomFactor = 4.0

// renderOptions carries per-conversion page parameters into a backend.
type renderOptions struct {
	pageSize string  // "letter", "a4", "legal"
	margin   float64 // inches, all sides
	zoom     float64 // user zoom, before baseZoomFactor
}

// pdfRenderer abstracts HTML-to-PDF rendering backends.
type pdfRenderer interface {
	// CheckAvailable verifies the backend's binary exists before any work
	// starts. Missing binaries are fatal with a remediation message.
	CheckAvailable() error
	// RenderPDF renders an HTML document to a PDF file at outPath.
	RenderPDF(ctx context.Context, htmlContent, outPath string, opts *renderOptions) error
	Close() error
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Compile-time interface checks.
var (
	_ pdfRenderer   = (*wkConverter)(nil)
	_ CommandRunner = (*ExecRunner)(nil)
)

// wkConverter renders HTML to PDF by invoking the wkhtmltopdf CLI.
type wkConverter struct {
	runner   CommandRunner
	lookPath func(file string) (string, error)
}

// newWKConverter creates a wkConverter with a real command runner.
func newWKConverter() *wkConverter {
	return &wkConverter{
		runner:   &ExecRunner{},
		lookPath: exec.LookPath,
	}
}

// CheckAvailable locates wkhtmltopdf on the PATH.
func (c *wkConverter) CheckAvailable() error {
	if _, err := c.lookPath("wkhtmltopdf"); err != nil {
		return fmt.Errorf("%w: no wkhtmltopdf executable found; please install wkhtmltopdf before trying again - %s",
			ErrRendererNotFound, wkhtmltopdfInstallURL)
	}
	return nil
}

// RenderPDF writes the HTML to a temp file and shells out to wkhtmltopdf.
func (c *wkConverter) RenderPDF(ctx context.Context, htmlContent, outPath string, opts *renderOptions) error {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	args := buildWKArgs(tmpPath, outPath, opts)
	if _, stderr, err := c.runner.Run(ctx, "wkhtmltopdf", args...); err != nil {
		return fmt.Errorf("%w: wkhtmltopdf: %s: %v", ErrPDFRender, stderr, err)
	}
	return nil
}

// Close is a no-op; wkhtmltopdf holds no long-lived resources.
func (c *wkConverter) Close() error { return nil }

// buildWKArgs assembles the wkhtmltopdf command line. Page size, margins,
// encoding and zoom mirror the options the course material documents.
func buildWKArgs(inPath, outPath string, opts *renderOptions) []string {
	margin := fmt.Sprintf("%gin", opts.margin)
	return []string{
		"--page-size", paperName(opts.pageSize),
		"--margin-top", margin,
		"--margin-right", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--encoding", "UTF-8",
		"--zoom", fmt.Sprintf("%g", baseZoomFactor*opts.zoom),
		"--quiet",
		inPath,
		outPath,
	}
}
