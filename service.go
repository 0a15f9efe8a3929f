package gradescope

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DS-100/nb-to-gradescope/internal/logging"
)

// notebookLoader abstracts reading the notebook from disk.
type notebookLoader interface {
	Load(path string) (*Notebook, error)
}

// fileLoader reads nbformat JSON from the filesystem.
type fileLoader struct{}

func (fileLoader) Load(path string) (*Notebook, error) { return ReadNotebook(path) }

// Compile-time interface implementation checks.
var (
	_ notebookLoader = (*fileLoader)(nil)
	_ htmlExporter   = (*goldmarkExporter)(nil)
)

// Service orchestrates the notebook-to-Gradescope pipeline.
type Service struct {
	cfg       serviceConfig
	loader    notebookLoader
	exporter  htmlExporter
	renderer  pdfRenderer
	assembler pageAssembler
	stdout    io.Writer
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithRenderer, WithTimeout).
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg:       serviceConfig{timeout: defaultTimeout, renderer: RendererWKHTMLToPDF},
		loader:    fileLoader{},
		exporter:  newGoldmarkExporter(),
		assembler: &pdfcpuAssembler{},
		stdout:    os.Stdout,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create the renderer if not injected (e.g., by tests)
	if s.renderer == nil {
		switch s.cfg.renderer {
		case RendererWKHTMLToPDF:
			s.renderer = newWKConverter()
		case RendererChrome:
			s.renderer = newChromeConverter(s.cfg.timeout)
		default:
			return nil, fmt.Errorf("%w: %q (must be %s or %s)",
				ErrInvalidRenderer, s.cfg.renderer, RendererWKHTMLToPDF, RendererChrome)
		}
	}

	return s, nil
}

// Convert exports the notebook's tagged answer cells to per-question PDFs,
// normalizes each to a fixed page count, and merges them into one
// submission PDF. Intermediate PDFs are left on disk for inspection.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	input = input.withDefaults()

	// Pre-flight: the renderer binary is a hard precondition.
	if err := s.renderer.CheckAvailable(); err != nil {
		logging.Error("%v", err)
		return nil, err
	}

	// Confirm the front end's save landed before reading the file.
	if input.WaitForSave {
		fmt.Fprint(s.stdout, "Saving notebook... ")
		if waitForSave(ctx, input.Filename, saveWaitTimeout) {
			fmt.Fprintf(s.stdout, "Saved %q.\n", input.Filename)
		} else {
			logging.Warning("Timed out waiting for the notebook save")
			fmt.Fprintln(s.stdout, "Could not confirm the save. Make sure your notebook is saved before exporting!")
		}
	}

	nb, err := s.loader.Load(input.Filename)
	if err != nil {
		return nil, err
	}

	nb, err = filterForExport(nb, input.tagSet(), input.NoBanner)
	if err != nil {
		return nil, err
	}

	qids, err := questionIDs(nb.Cells)
	if err != nil {
		return nil, err
	}

	doc, err := s.exporter.ExportHTML(ctx, nb)
	if err != nil {
		return nil, err
	}

	nodes, err := extractCellNodes(doc)
	if err != nil {
		return nil, err
	}
	if len(nodes) != len(qids) {
		return nil, fmt.Errorf("%w: exported %d cells but found %d question tags",
			ErrHTMLExport, len(nodes), len(qids))
	}

	names, err := s.createQuestionPDFs(ctx, nodes, qids, input)
	if err != nil {
		return nil, err
	}

	if err := s.assembler.Merge(names, input.Output); err != nil {
		return nil, err
	}

	result := &Result{
		Output:         input.Output,
		QuestionPDFs:   names,
		QuestionsFound: countQuestions(names, input.NoBanner),
	}
	s.report(result, input)
	return result, nil
}

// createQuestionPDFs renders each cell node to its own normalized PDF,
// sequentially and in cell order.
func (s *Service) createQuestionPDFs(ctx context.Context, nodes, qids []string, input Input) ([]string, error) {
	if err := os.MkdirAll(input.Folder, 0o750); err != nil {
		return nil, fmt.Errorf("creating %s: %w", input.Folder, err)
	}

	opts := &renderOptions{
		pageSize: strings.ToLower(input.Page.Size),
		margin:   input.Page.Margin,
		zoom:     input.Zoom,
	}

	names := make([]string, 0, len(nodes))
	for i, node := range nodes {
		doc, err := fragmentDoc(node)
		if err != nil {
			return nil, err
		}

		name := filepath.Join(input.Folder, qids[i]+".pdf")

		cellCtx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
		err = s.renderer.RenderPDF(cellCtx, doc, name, opts)
		cancel()
		if err != nil {
			return nil, err
		}

		if err := s.assembler.Normalize(name, input.PagesPerQuestion, opts.pageSize); err != nil {
			return nil, err
		}

		fmt.Fprintf(s.stdout, "Created %s\n", name)
		names = append(names, name)
	}
	return names, nil
}

// countQuestions excludes the banner page from the question tally.
func countQuestions(names []string, noBanner bool) int {
	if noBanner {
		return len(names)
	}
	return len(names) - 1
}

// report checks the question count against the caller's expectation and
// prints the completion message.
func (s *Service) report(result *Result, input Input) {
	if input.NumQuestions > 0 && result.QuestionsFound != input.NumQuestions {
		logging.Warning("We expected there to be %d questions but there are only %d in "+
			"your final PDF. Gradescope will most likely not accept your "+
			"submission. Double check that you wrote your answers in the "+
			"cells that we provided.", input.NumQuestions, result.QuestionsFound)
	}

	fmt.Fprintf(s.stdout, "Done! The resulting PDF is located in this directory and is "+
		"called %s. Upload that PDF to Gradescope for grading.\n\n", result.Output)
	fmt.Fprintln(s.stdout, "If the font size of your PDF is too small/large, change the value "+
		"of the zoom argument when calling convert. For example, setting "+
		"zoom=2 makes everything twice as big.")
}

// Close releases renderer resources (the headless browser, when selected).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if input.Filename == "" {
		return ErrEmptyFilename
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if input.Zoom < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidZoom, input.Zoom)
	}
	if input.PagesPerQuestion < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageCount, input.PagesPerQuestion)
	}
	return nil
}
