package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Document represents a Word document structure
type Document struct {
	XMLName xml.Name   `xml:"document"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Body    *Body      `xml:"body"`
}

// BodyElement represents any element that can appear in a document body
type BodyElement interface {
	isBodyElement()
}

// Body represents the document body. Elements preserves the order of
// paragraphs and tables; SectPr carries the section properties through
// a parse/marshal round trip untouched.
type Body struct {
	Elements []BodyElement `xml:"-"`
	SectPr   *RawXMLElement
}

// RawXMLElement holds a re-serialized XML element that the model does
// not interpret (drawings, section properties).
type RawXMLElement struct {
	Content []byte
}

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Properties *ParagraphProperties `xml:"pPr"`
	Runs       []Run                `xml:"r"`
}

// isBodyElement implements the BodyElement interface
func (p Paragraph) isBodyElement() {}

// ParagraphProperties represents paragraph formatting properties
type ParagraphProperties struct {
	Style     *Style     `xml:"pStyle"`
	Alignment *Alignment `xml:"jc"`
}

// Run represents a run of text with common properties
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	Text       *Text          `xml:"t"`
	Break      *Break         `xml:"br"`
	RawXML     []RawXMLElement
}

// RunProperties represents run formatting properties
type RunProperties struct {
	Bold      *Empty          `xml:"b"`
	Italic    *Empty          `xml:"i"`
	Underline *UnderlineStyle `xml:"u"`
	Color     *Color          `xml:"color"`
	Size      *Size           `xml:"sz"`
	Font      *Font           `xml:"rFonts"`
}

// Text represents text content
type Text struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Content string   `xml:",chardata"`
}

// Table represents a table in the document
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
}

// isBodyElement implements the BodyElement interface
func (t Table) isBodyElement() {}

// TableProperties represents table formatting properties
type TableProperties struct {
	Style *Style      `xml:"tblStyle"`
	Width *TableWidth `xml:"tblW"`
}

// TableGrid represents table column definitions
type TableGrid struct {
	Columns []GridColumn `xml:"gridCol"`
}

// GridColumn represents a table column
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// TableRow represents a row in a table
type TableRow struct {
	Properties *TableRowProperties `xml:"trPr"`
	Cells      []TableCell         `xml:"tc"`
}

// TableRowProperties represents row properties
type TableRowProperties struct {
	Height *Height `xml:"trHeight"`
}

// Height represents row height
type Height struct {
	Val int `xml:"val,attr"`
}

// TableCell represents a cell in a table
type TableCell struct {
	Properties *TableCellProperties `xml:"tcPr"`
	Paragraphs []Paragraph          `xml:"p"`
}

// TableCellProperties represents cell properties
type TableCellProperties struct {
	Width    *TableWidth `xml:"tcW"`
	GridSpan *GridSpan   `xml:"gridSpan"`
	VMerge   *VMerge     `xml:"vMerge"`
	Shading  *Shading    `xml:"shd"`
}

// TableWidth represents a table or cell width setting
type TableWidth struct {
	Type string `xml:"type,attr"`
	Val  int    `xml:"w,attr"`
}

// GridSpan represents cell column span
type GridSpan struct {
	Val int `xml:"val,attr"`
}

// VMerge represents vertical cell merging. Val is "restart" on the
// first cell of a merged range and empty on continuation cells.
type VMerge struct {
	Val string `xml:"val,attr,omitempty"`
}

// Shading represents cell shading
type Shading struct {
	Val   string `xml:"val,attr"`
	Color string `xml:"color,attr"`
	Fill  string `xml:"fill,attr"`
}

// Empty represents an empty element (used for boolean properties)
type Empty struct{}

// Style represents a style reference
type Style struct {
	Val string `xml:"val,attr"`
}

// Alignment represents text alignment
type Alignment struct {
	Val string `xml:"val,attr"`
}

// Color represents text color
type Color struct {
	Val string `xml:"val,attr"`
}

// Size represents font size in half-points
type Size struct {
	Val int `xml:"val,attr"`
}

// Font represents font information
type Font struct {
	ASCII string `xml:"ascii,attr"`
}

// UnderlineStyle represents underline formatting
type UnderlineStyle struct {
	Val string `xml:"val,attr"`
}

// Break represents a line or page break
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// ParseDocument parses a Word document XML
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Body == nil {
		doc.Body = &Body{}
	}

	return &doc, nil
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
// and carry section properties through untouched.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &table)
			case "sectPr":
				raw, err := encodeRawElement(d, t)
				if err != nil {
					return err
				}
				b.SectPr = &RawXMLElement{Content: raw}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}

	return nil
}

// UnmarshalXML implements custom XML unmarshaling for Run, preserving
// unknown children (drawings, pictures) as raw XML.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Text = &text
			case "br":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Break = &br
			default:
				raw, err := encodeRawElement(d, t)
				if err != nil {
					return err
				}
				r.RawXML = append(r.RawXML, RawXMLElement{Content: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}

	return nil
}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}

	for i := range p.Runs {
		if err := e.EncodeElement(p.Runs[i], xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for ParagraphProperties
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		if err := e.EncodeElement(p.Style, xml.StartElement{Name: xml.Name{Local: "w:pStyle"}}); err != nil {
			return err
		}
	}
	if p.Alignment != nil {
		if err := e.EncodeElement(p.Alignment, xml.StartElement{Name: xml.Name{Local: "w:jc"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for Run.
// RawXML content is injected after marshaling via markers, see marshal.go.
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	if r.Text != nil {
		if err := e.EncodeElement(r.Text, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
			return err
		}
	}
	if r.Break != nil {
		if err := e.Encode(r.Break); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for RunProperties
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Bold != nil {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:b"}}); err != nil {
			return err
		}
	}
	if p.Italic != nil {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:i"}}); err != nil {
			return err
		}
	}
	if p.Underline != nil {
		if err := e.EncodeElement(p.Underline, xml.StartElement{Name: xml.Name{Local: "w:u"}}); err != nil {
			return err
		}
	}
	if p.Color != nil {
		if err := e.EncodeElement(p.Color, xml.StartElement{Name: xml.Name{Local: "w:color"}}); err != nil {
			return err
		}
	}
	if p.Size != nil {
		if err := e.EncodeElement(p.Size, xml.StartElement{Name: xml.Name{Local: "w:sz"}}); err != nil {
			return err
		}
	}
	if p.Font != nil {
		if err := e.EncodeElement(p.Font, xml.StartElement{Name: xml.Name{Local: "w:rFonts"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for Text, preserving
// significant leading and trailing whitespace.
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Content != strings.TrimSpace(t.Content) || t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "xml:space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// MarshalXML implements xml.Marshaler to ensure Break is self-closing
func (b *Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "w:type"},
			Value: b.Type,
		})
	}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}
	for i := range t.Rows {
		if err := e.EncodeElement(t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableProperties
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		if err := e.EncodeElement(p.Style, xml.StartElement{Name: xml.Name{Local: "w:tblStyle"}}); err != nil {
			return err
		}
	}
	if p.Width != nil {
		if err := e.EncodeElement(p.Width, xml.StartElement{Name: xml.Name{Local: "w:tblW"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, col := range g.Columns {
		colStart := xml.StartElement{
			Name: xml.Name{Local: "w:gridCol"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(col.Width)}},
		}
		if err := e.EncodeElement(struct{}{}, colStart); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableRow
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil && r.Properties.Height != nil {
		trPr := xml.StartElement{Name: xml.Name{Local: "w:trPr"}}
		if err := e.EncodeToken(trPr); err != nil {
			return err
		}
		heightStart := xml.StartElement{
			Name: xml.Name{Local: "w:trHeight"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(r.Properties.Height.Val)}},
		}
		if err := e.EncodeElement(struct{}{}, heightStart); err != nil {
			return err
		}
		if err := e.EncodeToken(xml.EndElement{Name: trPr.Name}); err != nil {
			return err
		}
	}

	for i := range r.Cells {
		if err := e.EncodeElement(r.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableCell.
// A cell always contains at least one paragraph, Word rejects empty cells.
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}

	if len(c.Paragraphs) == 0 {
		if err := e.EncodeElement(Paragraph{}, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return err
		}
	}
	for i := range c.Paragraphs {
		if err := e.EncodeElement(c.Paragraphs[i], xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableCellProperties
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Width != nil {
		if err := e.EncodeElement(p.Width, xml.StartElement{Name: xml.Name{Local: "w:tcW"}}); err != nil {
			return err
		}
	}
	if p.GridSpan != nil {
		spanStart := xml.StartElement{
			Name: xml.Name{Local: "w:gridSpan"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(p.GridSpan.Val)}},
		}
		if err := e.EncodeElement(struct{}{}, spanStart); err != nil {
			return err
		}
	}
	if p.VMerge != nil {
		if err := e.EncodeElement(p.VMerge, xml.StartElement{Name: xml.Name{Local: "w:vMerge"}}); err != nil {
			return err
		}
	}
	if p.Shading != nil {
		if err := e.EncodeElement(p.Shading, xml.StartElement{Name: xml.Name{Local: "w:shd"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for TableWidth
func (w TableWidth) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(w.Val)},
		{Name: xml.Name{Local: "w:type"}, Value: w.Type},
	}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for VMerge
func (v VMerge) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = nil
	if v.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "w:val"},
			Value: v.Val,
		})
	}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Shading
func (s Shading) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: s.Val},
		{Name: xml.Name{Local: "w:color"}, Value: s.Color},
		{Name: xml.Name{Local: "w:fill"}, Value: s.Fill},
	}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Style
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: s.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Alignment
func (a Alignment) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: a.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Color
func (c Color) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: c.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Size
func (s Size) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(s.Val)}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for Font
func (f Font) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:ascii"}, Value: f.ASCII}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML implements custom XML marshaling for UnderlineStyle
func (u UnderlineStyle) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: u.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// GetText returns the text content of a run
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var texts []string
	for _, run := range p.Runs {
		if text := run.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "")
}

// GetText returns the concatenated text of all paragraphs in a cell
func (c *TableCell) GetText() string {
	var texts []string
	for _, para := range c.Paragraphs {
		if text := para.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// StyleName returns the paragraph style reference, or "" when unset.
func (p *Paragraph) StyleName() string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

// SetStyle sets the paragraph style reference.
func (p *Paragraph) SetStyle(style string) {
	if style == "" {
		return
	}
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	p.Properties.Style = &Style{Val: style}
}

// newTextParagraph builds a single-run paragraph with an optional style.
func newTextParagraph(text, style string) *Paragraph {
	p := &Paragraph{}
	p.SetStyle(style)
	if text != "" {
		p.Runs = append(p.Runs, Run{Text: &Text{Content: text}})
	}
	return p
}
