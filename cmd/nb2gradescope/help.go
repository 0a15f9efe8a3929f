package main

import (
	"fmt"
	"io"
)

// printUsage writes the top-level usage text.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `nb2gradescope - convert a tagged Jupyter notebook to a Gradescope PDF

Usage:
  nb2gradescope [convert] [flags] notebook.ipynb [more.ipynb ...]
  nb2gradescope doctor [--json]
  nb2gradescope version
  nb2gradescope help

Commands:
  convert   Export tagged answer cells to per-question PDFs and merge them
            (default when no command is given)
  doctor    Check renderer binaries and system requirements
  version   Print the version
  help      Show this help

Run 'nb2gradescope convert --help' for conversion flags.
`)
}

// printConvertUsage writes the convert command usage text.
func printConvertUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: nb2gradescope convert [flags] notebook.ipynb [more.ipynb ...]

Each notebook is exported to one PDF per tagged question, every question is
padded or truncated to a fixed page count, and the pages are merged into a
single submission PDF (gradescope.pdf by default).

Flags:
  -n, --questions int     expected question count; mismatch prints a warning
      --solution          export solution cells instead of student cells
      --pages-per-q int   pages per question PDF (default 2)
      --folder string     per-question PDF folder (default question_pdfs)
  -o, --output string     merged PDF path (default gradescope.pdf);
                          a directory when converting multiple notebooks
      --zoom float        visual zoom factor (default 1.0)
  -p, --page-size string  page size: letter, a4, legal (default letter)
      --margin float      page margin in inches (default 0.25)
      --renderer string   HTML-to-PDF backend: wkhtmltopdf (default), chrome
      --no-banner         skip the email banner page
      --wait-save         wait for the notebook front end's save to land
  -w, --workers int       parallel notebook conversions (default auto)
  -t, --timeout string    per-cell render timeout (e.g., 30s, 2m)
  -c, --config string     config file name or path
  -q, --quiet             only show errors
  -v, --verbose           show debug output
`)
}
