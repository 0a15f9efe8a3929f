package gradescope

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyFilename    = errors.New("notebook filename cannot be empty")
	ErrNotebookRead     = errors.New("failed to read notebook")
	ErrRendererNotFound = errors.New("no HTML-to-PDF renderer found")
	ErrEmailNotFound    = errors.New("was not able to get email from the ok.auth() cell; please run that cell and try again")
	ErrNoQuestionTag    = errors.New("tagged cell has no question tag")
	ErrHTMLExport       = errors.New("HTML export failed")
	ErrPDFRender        = errors.New("PDF generation failed")
	ErrPDFAssemble      = errors.New("PDF assembly failed")

	// Browser errors (chrome backend).
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Input validation errors.
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidMargin    = errors.New("invalid margin")
	ErrInvalidZoom      = errors.New("invalid zoom factor")
	ErrInvalidPageCount = errors.New("invalid pages per question")
	ErrInvalidRenderer  = errors.New("invalid renderer backend")
)
