package gradescope

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

// htmlExporter abstracts notebook to HTML export.
type htmlExporter interface {
	ExportHTML(ctx context.Context, nb *Notebook) (string, error)
}

// cellCSS is the minimal stylesheet applied to every exported cell. The
// basic layout mirrors what graders see in the notebook front end.
const cellCSS = `body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 0; }
.cell { padding: 4px 0; }
.cell pre { font-family: "Courier New", monospace; font-size: 11px; white-space: pre-wrap; word-wrap: break-word; margin: 4px 0; }
.cell .input pre { color: #303f9f; }
.cell .output_error pre { color: #b71c1c; }
.cell img { max-width: 100%; }
.cell table { border-collapse: collapse; }
.cell th, .cell td { border: 1px solid #999; padding: 2px 6px; }`

// docTemplate wraps rendered cell fragments in a complete HTML5 document.
var docTemplate = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
{{.CSS}}
</style>
</head>
<body>
{{range .Cells}}{{.}}
{{end}}</body>
</html>
`))

// ansiEscape matches ANSI color and cursor sequences in captured tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes terminal escape sequences from captured output text.
func stripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// goldmarkExporter renders a filtered notebook to a single HTML document,
// one div.cell per notebook cell. Markdown goes through Goldmark; code cell
// outputs are rendered from their captured MIME data.
type goldmarkExporter struct {
	md goldmark.Markdown
}

// newGoldmarkExporter creates an exporter with GFM extensions and inline
// syntax highlighting.
func newGoldmarkExporter() *goldmarkExporter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					// Inline styles: question PDFs render standalone,
					// without an external stylesheet.
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			ghtml.WithXHTML(),
			// Notebook markdown is the user's own local document; raw HTML
			// in it must render, matching the notebook front end.
			ghtml.WithUnsafe(),
		),
	)
	return &goldmarkExporter{md: md}
}

// ExportHTML renders the notebook to a standalone HTML5 document. Supports
// context cancellation via goroutine + select since Goldmark doesn't
// natively take a context.
func (e *goldmarkExporter) ExportHTML(ctx context.Context, nb *Notebook) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		cells := make([]template.HTML, 0, len(nb.Cells))
		for _, cell := range nb.Cells {
			fragment, err := e.renderCell(cell)
			if err != nil {
				done <- result{err: err}
				return
			}
			cells = append(cells, fragment)
		}
		doc, err := renderDocument(cells)
		done <- result{html: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// renderCell produces one div.cell fragment for a notebook cell.
func (e *goldmarkExporter) renderCell(cell *Cell) (template.HTML, error) {
	var body strings.Builder

	switch cell.CellType {
	case "markdown":
		var buf bytes.Buffer
		if err := e.md.Convert([]byte(cell.Source), &buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLExport, err)
		}
		body.WriteString(`<div class="text_cell_render">`)
		body.Write(buf.Bytes())
		body.WriteString(`</div>`)
	default:
		body.WriteString(`<div class="input"><pre>`)
		body.WriteString(html.EscapeString(string(cell.Source)))
		body.WriteString(`</pre></div>`)
		for _, out := range cell.Outputs {
			body.WriteString(renderOutput(out))
		}
	}

	class := "cell code_cell"
	if cell.CellType == "markdown" {
		class = "cell text_cell"
	}
	return template.HTML(fmt.Sprintf(`<div class="%s">%s</div>`, class, body.String())), nil
}

// renderOutput converts one captured output to HTML, preferring richer MIME
// types the way nbconvert does.
func renderOutput(out *Output) string {
	switch out.OutputType {
	case "stream":
		return `<div class="output_stream"><pre>` +
			html.EscapeString(stripANSI(string(out.Text))) + `</pre></div>`
	case "error":
		tb := stripANSI(strings.Join(out.Traceback, "\n"))
		return `<div class="output_error"><pre>` + html.EscapeString(tb) + `</pre></div>`
	case "execute_result", "display_data":
		if data, ok := out.Data["text/html"]; ok {
			return `<div class="output_html">` + string(data) + `</div>`
		}
		if data, ok := out.Data["image/png"]; ok {
			b64 := strings.Map(dropSpace, string(data))
			return `<div class="output_png"><img src="data:image/png;base64,` + b64 + `"/></div>`
		}
		if data, ok := out.Data["text/plain"]; ok {
			return `<div class="output_text"><pre>` +
				html.EscapeString(stripANSI(string(data))) + `</pre></div>`
		}
	}
	return ""
}

// dropSpace removes whitespace runes; JSON-encoded base64 payloads keep
// their newlines.
func dropSpace(r rune) rune {
	switch r {
	case ' ', '\n', '\r', '\t':
		return -1
	}
	return r
}

// renderDocument wraps cell fragments in the full HTML document.
func renderDocument(cells []template.HTML) (string, error) {
	var buf bytes.Buffer
	err := docTemplate.Execute(&buf, struct {
		CSS   template.CSS
		Cells []template.HTML
	}{
		CSS:   template.CSS(cellCSS),
		Cells: cells,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLExport, err)
	}
	return buf.String(), nil
}

// extractCellNodes parses the exported document and returns one rendered
// HTML string per div carrying the "cell" class, in document order.
func extractCellNodes(doc string) ([]string, error) {
	root, err := xhtml.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing exported HTML: %v", ErrHTMLExport, err)
	}

	var nodes []string
	var walk func(n *xhtml.Node) error
	walk = func(n *xhtml.Node) error {
		if n.Type == xhtml.ElementNode && n.Data == "div" && hasClass(n, "cell") {
			var buf bytes.Buffer
			if err := xhtml.Render(&buf, n); err != nil {
				return fmt.Errorf("%w: rendering cell node: %v", ErrHTMLExport, err)
			}
			nodes = append(nodes, buf.String())
			return nil // cells don't nest
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return nodes, nil
}

// hasClass reports whether the node's class attribute contains the given
// class token.
func hasClass(n *xhtml.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// fragmentDoc wraps a single extracted cell node back into a standalone
// document so the renderer sees the stylesheet.
func fragmentDoc(node string) (string, error) {
	return renderDocument([]template.HTML{template.HTML(node)})
}
