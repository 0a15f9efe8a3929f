package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// convertFlags holds all flags for the convert command. Zero values mean
// "not set": the config file fills them next, then the library defaults.
type convertFlags struct {
	config  string
	quiet   bool
	verbose bool

	questions int
	solution  bool
	pagesPerQ int
	folder    string
	output    string
	zoom      float64
	pageSize  string
	margin    float64
	renderer  string
	noBanner  bool
	waitSave  bool

	workers int
	timeout string
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")

	fs.IntVarP(&f.questions, "questions", "n", 0, "expected question count (0 = unchecked)")
	fs.BoolVar(&f.solution, "solution", false, "export solution cells instead of student cells")
	fs.IntVar(&f.pagesPerQ, "pages-per-q", 0, "pages per question PDF (default 2)")
	fs.StringVar(&f.folder, "folder", "", "per-question PDF folder (default question_pdfs)")
	fs.StringVarP(&f.output, "output", "o", "", "merged PDF path (default gradescope.pdf)")
	fs.Float64Var(&f.zoom, "zoom", 0, "visual zoom factor (default 1.0)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (default 0.25)")
	fs.StringVar(&f.renderer, "renderer", "", "HTML-to-PDF backend: wkhtmltopdf, chrome")
	fs.BoolVar(&f.noBanner, "no-banner", false, "skip the email banner page")
	fs.BoolVar(&f.waitSave, "wait-save", false, "wait for the notebook front end's save to land")

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel notebook conversions (0 = 1)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-cell render timeout (e.g., 30s, 2m)")

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
