// Package report builds formatted Microsoft Word documents: headings,
// styled paragraphs, data tables, embedded figures and page breaks.
//
// Basic usage:
//
//	rpt, err := report.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rpt.AddHeading("Results", 1)
//	rpt.AddParagraph("Measured values are listed below.", "")
//
//	data := report.TableData{
//	    Columns: []string{"Parameter", "Value"},
//	    Records: [][]any{
//	        {"Voltage", 12.03},
//	        {"Current", 1.57},
//	    },
//	}
//	if _, err := rpt.AddTable(data, report.WithTitle("Measurements")); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := rpt.Save("out/results.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Reports can also be appended to an existing document with Open, or
// started from a custom template with FromTemplate. The package keeps
// its own OOXML document model; no Word installation is involved.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Report assembles a Word document.
type Report struct {
	doc    *Document
	source []byte
	styles StyleSet
	config *Config
	images []*pendingImage
}

// Option configures a Report at construction time.
type Option func(*Report)

// WithStyles overrides the default style set.
func WithStyles(styles StyleSet) Option {
	return func(r *Report) {
		r.styles = styles
	}
}

// WithConfig overrides the global configuration for this report.
func WithConfig(config *Config) Option {
	return func(r *Report) {
		r.config = config
	}
}

// New creates a report from the built-in blank template (or the
// template named by the REPORT_TEMPLATE configuration).
func New(opts ...Option) (*Report, error) {
	r := newReport(opts...)

	if r.config.TemplatePath != "" {
		if err := r.loadTemplateFile(r.config.TemplatePath); err == nil {
			return r, nil
		} else if r.config.StrictMode {
			return nil, err
		} else {
			Warn("configured template %s could not be loaded, using the built-in template", r.config.TemplatePath)
		}
	}

	if err := r.loadTemplateBytes(builtinTemplateBytes()); err != nil {
		return nil, err
	}
	// The blank template carries a single placeholder paragraph.
	_ = r.RemoveParagraph(-1)
	return r, nil
}

// Open loads an existing document so new content is appended to it,
// separated by a page break. A missing file or an unsupported extension
// falls back to a fresh report without the break, since there is no
// existing content to separate from (strict mode: error).
func Open(path string, opts ...Option) (*Report, error) {
	r, loaded, err := openTemplate(path, opts...)
	if err != nil {
		return nil, err
	}
	if loaded {
		Info("report content will be appended to %s", path)
		r.AddPageBreak()
	}
	return r, nil
}

// FromTemplate starts a report on a template document without a
// separating page break. Template bytes are cached by path.
func FromTemplate(path string, opts ...Option) (*Report, error) {
	r, _, err := openTemplate(path, opts...)
	return r, err
}

func newReport(opts ...Option) *Report {
	r := &Report{
		styles: DefaultStyleSet(),
		config: GetGlobalConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// openTemplate loads the template at path. The second return value
// reports whether the file itself was loaded, false when the report
// fell back to the built-in template.
func openTemplate(path string, opts ...Option) (*Report, bool, error) {
	r := newReport(opts...)

	if err := r.loadTemplateFile(path); err != nil {
		if r.config.StrictMode {
			return nil, false, err
		}
		Warn("%v; the report starts from the built-in template", err)
		if err := r.loadTemplateBytes(builtinTemplateBytes()); err != nil {
			return nil, false, err
		}
		_ = r.RemoveParagraph(-1)
		return r, false, nil
	}
	return r, true, nil
}

// loadTemplateFile validates the extension, reads the file through the
// template cache and parses it.
func (r *Report) loadTemplateFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".docx" && ext != ".doc" {
		return NewDocumentError("open", path, fmt.Errorf("template must be a .docx or .doc file"))
	}

	source, err := defaultTemplateCache().Load(path)
	if err != nil {
		return err
	}
	return r.loadTemplateBytes(source)
}

// loadTemplateBytes parses a DOCX package into the document model.
func (r *Report) loadTemplateBytes(source []byte) error {
	reader, err := NewDocxReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return NewDocumentError("parse", "DOCX", err)
	}

	docXML, err := reader.GetDocumentXML()
	if err != nil {
		return NewDocumentError("extract", "document.xml", err)
	}

	doc, err := ParseDocument(strings.NewReader(docXML))
	if err != nil {
		return NewDocumentError("parse", "document.xml", err)
	}

	r.doc = doc
	r.source = source
	return nil
}

// Document exposes the underlying document model.
func (r *Report) Document() *Document {
	return r.doc
}

// Styles returns the style set the builder applies.
func (r *Report) Styles() StyleSet {
	return r.styles
}

// AddParagraph appends a paragraph with the given text and style.
// An empty style leaves the document default in place.
func (r *Report) AddParagraph(text, style string) {
	r.appendElement(newTextParagraph(text, style))
}

// AddHeading appends a heading paragraph of the given level (1-6).
// An out-of-range level degrades to a plain paragraph with a logged
// warning; in strict mode it is an error.
func (r *Report) AddHeading(text string, level int) error {
	if level < 1 || level > len(r.styles.Headings) {
		if r.config.StrictMode {
			return NewValidationError("level",
				fmt.Sprintf("heading level must be between 1 and %d, got %d", len(r.styles.Headings), level))
		}
		Warn("heading level must be between 1 and %d; %q is written as plain text", len(r.styles.Headings), text)
		r.AddParagraph(text, "")
		return nil
	}

	r.AddParagraph(text, r.styles.Headings[level-1])
	return nil
}

// AddPageBreak appends a paragraph containing a page break.
func (r *Report) AddPageBreak() {
	r.appendElement(&Paragraph{Runs: []Run{{Break: &Break{Type: "page"}}}})
}

// SetLastParagraphStyle restyles the last paragraph of the document.
func (r *Report) SetLastParagraphStyle(style string) error {
	last := r.lastParagraph()
	if last == nil {
		return NewDocumentError("style", "", fmt.Errorf("document has no paragraphs"))
	}
	last.SetStyle(style)
	return nil
}

// RemoveParagraph removes the paragraph at the given index. Negative
// indexes count from the end: -1 is the last paragraph.
func (r *Report) RemoveParagraph(index int) error {
	paragraphs := r.paragraphIndexes()
	if index < 0 {
		index = len(paragraphs) + index
	}
	if index < 0 || index >= len(paragraphs) {
		return NewDocumentError("remove", "",
			fmt.Errorf("paragraph index %d does not exist", index))
	}

	at := paragraphs[index]
	r.doc.Body.Elements = append(r.doc.Body.Elements[:at], r.doc.Body.Elements[at+1:]...)
	return nil
}

// Save writes the assembled document to path, creating parent
// directories as needed.
func (r *Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewDocumentError("save", path, err)
		}
	}

	data, err := r.assemble()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewDocumentError("save", path, err)
	}

	Info("report saved to %s", path)
	return nil
}

// Write streams the assembled document to w.
func (r *Report) Write(w io.Writer) error {
	data, err := r.assemble()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes returns the assembled DOCX package.
func (r *Report) Bytes() ([]byte, error) {
	return r.assemble()
}

// appendElement adds an element to the document body.
func (r *Report) appendElement(elem BodyElement) {
	r.doc.Body.Elements = append(r.doc.Body.Elements, elem)
}

// lastParagraph returns the last paragraph in the body, or nil.
func (r *Report) lastParagraph() *Paragraph {
	for i := len(r.doc.Body.Elements) - 1; i >= 0; i-- {
		if p, ok := r.doc.Body.Elements[i].(*Paragraph); ok {
			return p
		}
	}
	return nil
}

// paragraphIndexes returns body element positions of all paragraphs.
func (r *Report) paragraphIndexes() []int {
	var indexes []int
	for i, elem := range r.doc.Body.Elements {
		if _, ok := elem.(*Paragraph); ok {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
