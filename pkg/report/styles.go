package report

import (
	"encoding/xml"
	"fmt"
)

// StyleSet names the document styles the builder applies. Every name
// must exist in the target document; styles missing from a foreign
// template are filled in from the built-in definitions at save time.
type StyleSet struct {
	// Headings maps heading level 1-6 to a paragraph style.
	Headings [6]string
	// Table is the table style applied to generated tables.
	Table string
	// TableText is the paragraph style for table body cells.
	TableText string
	// TableHeader is the paragraph style for the header row.
	TableHeader string
	// TableNote is the paragraph style of the note paragraph after a table.
	TableNote string
	// TableCaption is the paragraph style of the table caption.
	TableCaption string
	// Figure is the paragraph style of an embedded picture.
	Figure string
	// FigureCaption is the paragraph style of the figure caption.
	FigureCaption string

	// TableLabel, FigureLabel and ParameterLabel are the caption words
	// written before a title ("Table — Results") and above a row-name
	// column.
	TableLabel     string
	FigureLabel    string
	ParameterLabel string
}

// DefaultStyleSet returns the style names defined by the built-in template.
func DefaultStyleSet() StyleSet {
	return StyleSet{
		Headings:       [6]string{"Heading1", "Heading2", "Heading3", "Heading4", "Heading5", "Heading6"},
		Table:          "TableGrid",
		TableText:      "TableText",
		TableHeader:    "TableHeader",
		TableNote:      "TableNote",
		TableCaption:   "TableCaption",
		Figure:         "Figure",
		FigureCaption:  "FigureCaption",
		TableLabel:     "Table",
		FigureLabel:    "Figure",
		ParameterLabel: "Parameter",
	}
}

// Styles represents the w:styles element in styles.xml
type Styles struct {
	XMLName xml.Name        `xml:"styles"`
	Styles  []DocumentStyle `xml:"style"`
}

// DocumentStyle represents a single w:style element
type DocumentStyle struct {
	XMLName xml.Name `xml:"style"`
	Type    string   `xml:"type,attr"`
	StyleID string   `xml:"styleId,attr"`
	RawXML  []byte   `xml:",innerxml"`
}

// parseStyles parses a styles.xml part
func parseStyles(stylesXML []byte) (*Styles, error) {
	var styles Styles
	err := xml.Unmarshal(stylesXML, &styles)
	if err != nil {
		return nil, fmt.Errorf("failed to parse styles.xml: %w", err)
	}
	return &styles, nil
}

// ensureRequiredStyles adds the built-in style definitions to a styles
// part for every style ID the builder relies on that the part does not
// define. Existing definitions always win.
func ensureRequiredStyles(mainStylesXML []byte) ([]byte, error) {
	mainStyles, err := parseStyles(mainStylesXML)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool)
	for _, style := range mainStyles.Styles {
		existing[style.StyleID] = true
	}

	builtin, err := parseStyles([]byte(builtinStylesXML))
	if err != nil {
		return nil, err
	}

	var newStyles []DocumentStyle
	for _, style := range builtin.Styles {
		if style.StyleID == "" || existing[style.StyleID] {
			continue
		}
		newStyles = append(newStyles, style)
		existing[style.StyleID] = true
	}

	if len(newStyles) == 0 {
		return mainStylesXML, nil
	}

	return rebuildStylesXML(mainStylesXML, newStyles)
}

// rebuildStylesXML inserts new style definitions before the closing
// </w:styles> tag of the original part.
func rebuildStylesXML(originalXML []byte, newStyles []DocumentStyle) ([]byte, error) {
	xmlStr := string(originalXML)

	closingTag := "</w:styles>"
	closingIndex := -1
	for i := len(xmlStr) - len(closingTag); i >= 0; i-- {
		if xmlStr[i:i+len(closingTag)] == closingTag {
			closingIndex = i
			break
		}
	}
	if closingIndex < 0 {
		return nil, fmt.Errorf("styles.xml has no closing %s tag", closingTag)
	}

	var newStylesXML string
	for _, style := range newStyles {
		newStylesXML += fmt.Sprintf(`<w:style w:type="%s" w:styleId="%s">%s</w:style>`,
			style.Type, style.StyleID, string(style.RawXML))
	}

	result := xmlStr[:closingIndex] + newStylesXML + xmlStr[closingIndex:]
	return []byte(result), nil
}
