// Package gradescope converts a Jupyter notebook with tagged answer cells
// into a single PDF ready for upload to Gradescope.
//
// # Quick Start
//
// Create a service, convert a notebook, and close when done:
//
//	svc, err := gradescope.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, gradescope.Input{
//	    Filename:     "hw1.ipynb",
//	    NumQuestions: 7,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.Output)
//
// The result lists the per-question PDFs (left on disk for inspection) and
// the merged output path.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Renderer pre-flight check (wkhtmltopdf on PATH, or headless Chrome)
//  2. Optional wait for the notebook front end's save to land on disk
//  3. Notebook loading, tag filtering, and source stripping
//  4. Notebook to HTML export (Goldmark for markdown cells) and per-cell
//     node extraction
//  5. One PDF per question, padded or truncated to a fixed page count
//  6. Merge into the final submission PDF, banner page first
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := gradescope.New(
//	    gradescope.WithTimeout(2 * time.Minute),
//	    gradescope.WithRenderer(gradescope.RendererChrome),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := svc.Convert(ctx, gradescope.Input{
//	    Filename:         "hw1.ipynb",
//	    Solution:         true,
//	    PagesPerQuestion: 3,
//	    Zoom:             2,
//	    Page:             &gradescope.PageSettings{Size: "a4"},
//	})
//
// If the output font size is too small or large, adjust Zoom until it looks
// correct; zoom=2 makes everything twice as big.
//
// # Renderer Requirements
//
// The default backend shells out to the wkhtmltopdf binary, which must be on
// the PATH (https://wkhtmltopdf.org/downloads.html). The chrome backend uses
// go-rod, which downloads a managed Chromium on first run; set
// ROD_BROWSER_BIN to use a pre-installed browser.
package gradescope
