package gradescope

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// loginMarker is the OkPy output line the email scraper looks for.
const loginMarker = "Successfully logged in as "

// codePlaceholder replaces the source of exported code cells so only their
// outputs carry over to the PDF.
const codePlaceholder = "output:"

// Multiline is a notebook text field that may be encoded either as a single
// JSON string or as an array of line fragments.
type Multiline string

// UnmarshalJSON accepts both encodings nbformat v4 allows.
func (m *Multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Multiline(s)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("multiline text must be a string or an array of strings: %w", err)
	}
	*m = Multiline(strings.Join(lines, ""))
	return nil
}

// MarshalJSON always emits the single-string encoding.
func (m Multiline) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

// Output is one captured execution output of a code cell.
type Output struct {
	OutputType string               `json:"output_type"`
	Name       string               `json:"name,omitempty"`
	Text       Multiline            `json:"text,omitempty"`
	Data       map[string]Multiline `json:"data,omitempty"`
	EName      string               `json:"ename,omitempty"`
	EValue     string               `json:"evalue,omitempty"`
	Traceback  []string             `json:"traceback,omitempty"`
}

// CellMetadata is the subset of cell metadata the exporter cares about.
type CellMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// Cell is an atomic unit of a notebook: markdown or code, with metadata and,
// for code cells, captured outputs.
type Cell struct {
	CellType string       `json:"cell_type"`
	Source   Multiline    `json:"source"`
	Metadata CellMetadata `json:"metadata"`
	Outputs  []*Output    `json:"outputs,omitempty"`
}

// Notebook is an on-disk nbformat v4 document. Mutations happen on the
// in-memory copy only; the file is never written back.
type Notebook struct {
	Cells         []*Cell         `json:"cells"`
	Metadata      json.RawMessage `json:"metadata"`
	NBFormat      int             `json:"nbformat"`
	NBFormatMinor int             `json:"nbformat_minor"`
}

// ReadNotebook parses the nbformat v4 JSON document at path.
func ReadNotebook(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookRead, err)
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrNotebookRead, path, err)
	}
	return &nb, nil
}

// HasTags reports whether the cell's metadata carries every tag in tags.
func (c *Cell) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, got := range c.Metadata.Tags {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// QuestionID derives the question identifier from the cell's tags: the first
// tag containing the substring "q". PDFs are named after it and the final
// merge follows its cell order.
func (c *Cell) QuestionID() (string, error) {
	for _, tag := range c.Metadata.Tags {
		if strings.Contains(tag, "q") {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: tags %v", ErrNoQuestionTag, c.Metadata.Tags)
}

// stripSource replaces a code cell's source with the output placeholder.
// Markdown cells keep their source.
func (c *Cell) stripSource() {
	if c.CellType == "code" {
		c.Source = codePlaceholder
	}
}

// findStudentEmail scans cell outputs for the OkPy login line
//
//	Successfully logged in as <email>
//
// and returns the trimmed email address.
func findStudentEmail(nb *Notebook) (string, error) {
	for _, cell := range nb.Cells {
		for _, out := range cell.Outputs {
			text := string(out.Text)
			if text == "" {
				text = string(out.Data["text/plain"])
			}
			if idx := strings.Index(text, loginMarker); idx >= 0 {
				return strings.TrimSpace(text[idx+len(loginMarker):]), nil
			}
		}
	}
	return "", ErrEmailNotFound
}

// newBannerCell synthesizes the markdown cell that becomes the leading page
// of the submission, displaying the submitter's email.
func newBannerCell(email string) *Cell {
	return &Cell{
		CellType: "markdown",
		Source:   Multiline("# " + email),
		Metadata: CellMetadata{Tags: []string{bannerTag}},
	}
}

// filterForExport reduces the notebook to the cells that belong in the
// submission: the optional email banner followed by every cell carrying the
// full tag set, with code sources stripped. The notebook is modified in
// memory only.
func filterForExport(nb *Notebook, tags []string, noBanner bool) (*Notebook, error) {
	var cells []*Cell
	if !noBanner {
		email, err := findStudentEmail(nb)
		if err != nil {
			return nil, err
		}
		cells = append(cells, newBannerCell(email))
	}

	for _, cell := range nb.Cells {
		if !cell.HasTags(tags) {
			continue
		}
		cell.stripSource()
		cells = append(cells, cell)
	}

	nb.Cells = cells
	return nb, nil
}

// questionIDs returns one identifier per cell, in cell order.
func questionIDs(cells []*Cell) ([]string, error) {
	ids := make([]string, 0, len(cells))
	for _, cell := range cells {
		id, err := cell.QuestionID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
