package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// namespaceURIToPrefix converts a full namespace URI to its prefix
func namespaceURIToPrefix(uri string) string {
	prefixMap := map[string]string{
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
		"http://schemas.microsoft.com/office/drawing/2010/main":                  "a14",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
		"http://www.w3.org/XML/1998/namespace":                                   "xml",
		"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
		"urn:schemas-microsoft-com:vml":                                          "v",
		"urn:schemas-microsoft-com:office:office":                                "o",
		"urn:schemas-microsoft-com:office:word":                                  "w10",
		"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
		"http://schemas.microsoft.com/office/word/2018/wordml":                   "w16",
		"http://schemas.microsoft.com/office/word/2015/wordml/symex":             "w16se",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":      "wpg",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":        "wpi",
		"http://schemas.microsoft.com/office/word/2006/wordml":                   "wne",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":      "wps",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":     "wpc",
	}

	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	// Return the URI as-is if no mapping found (shouldn't happen but safe fallback)
	return uri
}

// escapeXMLText escapes character data for inclusion in an XML document.
func escapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// writePrefixedName writes an element or attribute name, converting the
// namespace URI the decoder reported back to its conventional prefix.
func writePrefixedName(buf *strings.Builder, name xml.Name) {
	if name.Space != "" {
		buf.WriteString(namespaceURIToPrefix(name.Space))
		buf.WriteString(":")
	}
	buf.WriteString(name.Local)
}

// encodeRawElement re-serializes the element opened by start, consuming
// tokens from the decoder up to and including the matching end element.
// Namespace URIs are converted back to their conventional prefixes so the
// output can be written into a w:-prefixed document verbatim.
func encodeRawElement(d *xml.Decoder, start xml.StartElement) ([]byte, error) {
	var buf strings.Builder

	writeStart := func(t xml.StartElement) {
		buf.WriteString("<")
		writePrefixedName(&buf, t.Name)
		for _, attr := range t.Attr {
			buf.WriteString(" ")
			if attr.Name.Space == "xmlns" {
				buf.WriteString("xmlns:")
				buf.WriteString(attr.Name.Local)
			} else {
				writePrefixedName(&buf, attr.Name)
			}
			buf.WriteString("=\"")
			buf.WriteString(escapeXMLText(attr.Value))
			buf.WriteString("\"")
		}
		buf.WriteString(">")
	}

	writeStart(start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeStart(t)
		case xml.EndElement:
			depth--
			buf.WriteString("</")
			writePrefixedName(&buf, t.Name)
			buf.WriteString(">")
		case xml.CharData:
			buf.WriteString(escapeXMLText(string(t)))
		}
	}

	return []byte(buf.String()), nil
}

// attrString renders a document attribute the decoder captured, keeping
// namespace declarations intact.
func attrString(a xml.Attr) string {
	var name string
	switch {
	case a.Name.Space == "xmlns":
		name = "xmlns:" + a.Name.Local
	case a.Name.Space == "" && a.Name.Local == "xmlns":
		name = "xmlns"
	case a.Name.Space != "":
		name = namespaceURIToPrefix(a.Name.Space) + ":" + a.Name.Local
	default:
		name = a.Name.Local
	}
	return fmt.Sprintf(`%s="%s"`, name, escapeXMLText(a.Value))
}

// rawMarker is the placeholder format for raw XML injected after marshaling.
const rawMarker = "__RAWXML_MARKER_%d__"

// marshalDocument converts the document model back to word/document.xml
// bytes. Raw XML carried by runs (drawings) and the section properties
// cannot go through encoding/xml, so runs are temporarily rewritten to
// marker text and the markers replaced in the serialized output.
func marshalDocument(doc *Document) ([]byte, error) {
	if doc == nil || doc.Body == nil {
		return nil, NewDocumentError("marshal", "", fmt.Errorf("nil document"))
	}

	type savedRun struct {
		run    *Run
		text   *Text
		rawXML []RawXMLElement
	}

	rawXMLMap := make(map[string][]byte)
	var saved []savedRun
	markerIndex := 0

	markRuns := func(p *Paragraph) {
		for i := range p.Runs {
			run := &p.Runs[i]
			if len(run.RawXML) == 0 {
				continue
			}
			marker := fmt.Sprintf(rawMarker, markerIndex)
			markerIndex++

			var rawContent bytes.Buffer
			for _, raw := range run.RawXML {
				rawContent.Write(raw.Content)
			}
			rawXMLMap[marker] = rawContent.Bytes()

			saved = append(saved, savedRun{run: run, text: run.Text, rawXML: run.RawXML})
			if run.Text == nil {
				run.Text = &Text{Content: marker}
			} else {
				// Existing run text is kept, the marker is appended so
				// the raw content ends up as a sibling of the text.
				space := run.Text.Space
				if run.Text.Content != strings.TrimSpace(run.Text.Content) {
					space = "preserve"
				}
				run.Text = &Text{Content: run.Text.Content + marker, Space: space}
			}
			run.RawXML = nil
		}
	}

	for _, elem := range doc.Body.Elements {
		switch el := elem.(type) {
		case *Paragraph:
			markRuns(el)
		case *Table:
			for ri := range el.Rows {
				for ci := range el.Rows[ri].Cells {
					for pi := range el.Rows[ri].Cells[ci].Paragraphs {
						markRuns(&el.Rows[ri].Cells[ci].Paragraphs[pi])
					}
				}
			}
		}
	}

	// The document is reusable after marshaling, put the runs back.
	defer func() {
		for _, s := range saved {
			s.run.Text = s.text
			s.run.RawXML = s.rawXML
		}
	}()

	var bodyXML bytes.Buffer
	encoder := xml.NewEncoder(&bodyXML)
	for _, elem := range doc.Body.Elements {
		if err := encoder.Encode(elem); err != nil {
			return nil, NewDocumentError("marshal", "body element", err)
		}
	}
	if err := encoder.Flush(); err != nil {
		return nil, NewDocumentError("marshal", "body", err)
	}

	bodyStr := bodyXML.String()
	for marker, rawXML := range rawXMLMap {
		// A marker-only text element is replaced whole; a marker appended
		// to run text closes the text element before the raw content.
		whole := fmt.Sprintf("<w:t>%s</w:t>", marker)
		if strings.Contains(bodyStr, whole) {
			bodyStr = strings.Replace(bodyStr, whole, string(rawXML), 1)
			continue
		}
		bodyStr = strings.Replace(bodyStr, marker+"</w:t>", "</w:t>"+string(rawXML), 1)
	}

	var out bytes.Buffer
	out.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	out.WriteString("<w:document")
	for _, attr := range doc.Attrs {
		out.WriteString(" ")
		out.WriteString(attrString(attr))
	}
	out.WriteString("><w:body>")
	out.WriteString(bodyStr)
	if doc.Body.SectPr != nil {
		out.Write(doc.Body.SectPr.Content)
	}
	out.WriteString("</w:body></w:document>")

	return out.Bytes(), nil
}
