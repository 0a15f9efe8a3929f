package gradescope

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/DS-100/nb-to-gradescope/internal/logging"
)

// pageAssembler abstracts PDF page manipulation and merging.
type pageAssembler interface {
	// Normalize forces the PDF at name to exactly pages pages: extra pages
	// are dropped with a warning, missing pages are padded with blanks.
	Normalize(name string, pages int, pageSize string) error
	// Merge concatenates the PDFs at names, in order, into output.
	Merge(names []string, output string) error
}

// pdfcpuAssembler implements pageAssembler with pdfcpu for page counting,
// trimming and merging, and gofpdf for producing blank filler pages.
type pdfcpuAssembler struct{}

// Compile-time interface check.
var _ pageAssembler = (*pdfcpuAssembler)(nil)

func (a *pdfcpuAssembler) Normalize(name string, pages int, pageSize string) error {
	count, err := api.PageCountFile(name)
	if err != nil {
		return fmt.Errorf("%w: counting pages of %s: %v", ErrPDFAssemble, name, err)
	}

	switch {
	case count == pages:
		return nil
	case count > pages:
		logging.Warning("%s has %d pages. Only the first %d pages will get output.", name, count, pages)
		return a.truncate(name, pages)
	default:
		return a.pad(name, count, pages, pageSize)
	}
}

// truncate keeps the first pages pages, overwriting the file in place.
func (a *pdfcpuAssembler) truncate(name string, pages int) error {
	selection := []string{fmt.Sprintf("1-%d", pages)}
	if err := api.TrimFile(name, "", selection, nil); err != nil {
		return fmt.Errorf("%w: truncating %s: %v", ErrPDFAssemble, name, err)
	}
	return nil
}

// pad appends blank pages until the file has pages pages.
func (a *pdfcpuAssembler) pad(name string, count, pages int, pageSize string) error {
	blank := name + ".blank"
	if err := writeBlankPDF(blank, pages-count, pageSize); err != nil {
		return err
	}
	defer os.Remove(blank)

	if count == 0 {
		// Nothing to keep; the filler is the whole file.
		return os.Rename(blank, name)
	}

	padded := name + ".padded"
	if err := api.MergeCreateFile([]string{name, blank}, padded, false, nil); err != nil {
		return fmt.Errorf("%w: padding %s: %v", ErrPDFAssemble, name, err)
	}
	if err := os.Rename(padded, name); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFAssemble, err)
	}
	return nil
}

func (a *pdfcpuAssembler) Merge(names []string, output string) error {
	// MergeCreateFile refuses to overwrite some pre-existing outputs, and a
	// stale merge from a previous run is worthless anyway.
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing stale %s: %v", ErrPDFAssemble, output, err)
	}
	if err := api.MergeCreateFile(names, output, false, nil); err != nil {
		return fmt.Errorf("%w: merging into %s: %v", ErrPDFAssemble, output, err)
	}
	return nil
}

// writeBlankPDF creates a PDF of empty pages at the given page size.
func writeBlankPDF(path string, pages int, pageSize string) error {
	pdf := gofpdf.New("P", "in", paperName(pageSize), "")
	for i := 0; i < pages; i++ {
		pdf.AddPage()
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: writing blank pages: %v", ErrPDFAssemble, err)
	}
	return nil
}
