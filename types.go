package gradescope

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Renderer backend names.
const (
	RendererWKHTMLToPDF = "wkhtmltopdf"
	RendererChrome      = "chrome"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 3.0
	DefaultMargin = 0.25
)

// Conversion defaults, matching the values students see in class material.
const (
	DefaultPagesPerQuestion = 2
	DefaultFolder           = "question_pdfs"
	DefaultOutput           = "gradescope.pdf"
	DefaultZoom             = 1.0
)

// Tag sets that mark exportable cells. Membership requires every tag in the
// set, not any of them.
var (
	StudentTags  = []string{"written", "student"}
	SolutionTags = []string{"written", "solution"}
)

// bannerTag marks the synthesized email banner cell so it sorts first and
// gets a question identifier like any other cell.
const bannerTag = "q_email"

// PageSettings configures PDF page dimensions for each question PDF.
type PageSettings struct {
	Size   string  // "letter", "a4", "legal"
	Margin float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:   PageSizeLetter,
		Margin: DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// paperName maps a page size constant to the capitalized name wkhtmltopdf
// and gofpdf expect.
func paperName(size string) string {
	switch strings.ToLower(size) {
	case PageSizeA4:
		return "A4"
	case PageSizeLegal:
		return "Legal"
	default:
		return "Letter"
	}
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// Input contains conversion parameters for a single notebook.
type Input struct {
	Filename         string        // Notebook path (required)
	NumQuestions     int           // Expected question count; 0 skips the check
	Solution         bool          // Export solution cells instead of student cells
	PagesPerQuestion int           // Pages per question PDF (0 = 2)
	Folder           string        // Per-question PDF folder (empty = "question_pdfs")
	Output           string        // Merged PDF path (empty = "gradescope.pdf")
	Zoom             float64       // Visual zoom factor (0 = 1.0)
	Page             *PageSettings // Page settings (nil = letter, 0.25in margins)
	NoBanner         bool          // Skip the email banner page
	WaitForSave      bool          // Poll for the front end's save before reading
	Tags             []string      // Override the required tag set (empty = StudentTags/SolutionTags)
}

// tagSet resolves the tag set that marks exportable cells.
func (in Input) tagSet() []string {
	if len(in.Tags) > 0 {
		return in.Tags
	}
	if in.Solution {
		return SolutionTags
	}
	return StudentTags
}

// withDefaults returns a copy of the input with zero values replaced by the
// documented defaults.
func (in Input) withDefaults() Input {
	if in.PagesPerQuestion == 0 {
		in.PagesPerQuestion = DefaultPagesPerQuestion
	}
	if in.Folder == "" {
		in.Folder = DefaultFolder
	}
	if in.Output == "" {
		in.Output = DefaultOutput
	}
	if in.Zoom == 0 {
		in.Zoom = DefaultZoom
	}
	if in.Page == nil {
		in.Page = DefaultPageSettings()
	}
	return in
}

// Result reports what a conversion produced.
type Result struct {
	Output         string   // Path of the merged PDF
	QuestionPDFs   []string // Per-question PDF paths, in merge order
	QuestionsFound int      // Detected questions, banner page excluded
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout  time.Duration
	renderer string
}

// defaultTimeout bounds a single cell's HTML-to-PDF render.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-cell render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("gradescope: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithRenderer selects the HTML-to-PDF backend: RendererWKHTMLToPDF (the
// default) or RendererChrome. Validation happens in New.
func WithRenderer(name string) Option {
	return func(s *Service) {
		s.cfg.renderer = name
	}
}

// WithStdout redirects the service's progress and completion messages,
// which go to os.Stdout by default.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		s.stdout = w
	}
}
