package gradescope

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/DS-100/nb-to-gradescope/internal/fileutil"
)

// Paper dimensions in inches per page size.
var paperDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// chromeConverter renders HTML to PDF using headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type chromeConverter struct {
	browser *rod.Browser
	timeout time.Duration
}

// Compile-time interface check.
var _ pdfRenderer = (*chromeConverter)(nil)

// newChromeConverter creates a chromeConverter with the given timeout.
func newChromeConverter(timeout time.Duration) *chromeConverter {
	return &chromeConverter{timeout: timeout}
}

// CheckAvailable locates a Chrome/Chromium binary without launching it.
func (c *chromeConverter) CheckAvailable() error {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if _, err := os.Stat(bin); err != nil {
			return fmt.Errorf("%w: ROD_BROWSER_BIN=%s: %v", ErrRendererNotFound, bin, err)
		}
		return nil
	}
	if _, found := launcher.LookPath(); !found {
		return fmt.Errorf("%w: Chrome/Chromium not found; install Chrome or set ROD_BROWSER_BIN", ErrRendererNotFound)
	}
	return nil
}

// ensureBrowser lazily connects to the browser.
func (c *chromeConverter) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.browser = rod.New().ControlURL(u)
	if err := c.browser.Connect(); err != nil {
		c.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// RenderPDF opens the HTML in headless Chrome and prints it to outPath.
func (c *chromeConverter) RenderPDF(ctx context.Context, htmlContent, outPath string, opts *renderOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.ensureBrowser(); err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := page.PDF(buildChromePDFOptions(opts))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFRender, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFRender, err)
	}

	if err := os.WriteFile(outPath, pdfBuf, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPDFRender, outPath, err)
	}
	return nil
}

// Close releases browser resources.
func (c *chromeConverter) Close() error {
	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

// buildChromePDFOptions constructs proto.PagePrintToPDF from renderOptions.
// Chrome's scale is capped at 2, so the wkhtmltopdf base factor doesn't
// apply; the user zoom maps directly.
func buildChromePDFOptions(opts *renderOptions) *proto.PagePrintToPDF {
	dims, ok := paperDimensions[opts.pageSize]
	if !ok {
		dims = paperDimensions[PageSizeLetter]
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(dims[0]),
		PaperHeight:     floatPtr(dims[1]),
		MarginTop:       floatPtr(opts.margin),
		MarginBottom:    floatPtr(opts.margin),
		MarginLeft:      floatPtr(opts.margin),
		MarginRight:     floatPtr(opts.margin),
		Scale:           floatPtr(opts.zoom),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
