package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// ContentTypes represents the [Content_Types].xml part
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	XMLName     xml.Name `xml:"Default"`
	Extension   string   `xml:"Extension,attr"`
	ContentType string   `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a part name to a content type
type ContentTypeOverride struct {
	XMLName     xml.Name `xml:"Override"`
	PartName    string   `xml:"PartName,attr"`
	ContentType string   `xml:"ContentType,attr"`
}

var extensionContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const builtinDocumentXML = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
  <w:body>
    <w:p/>
    <w:sectPr>
      <w:pgSz w:w="11906" w:h="16838"/>
      <w:pgMar w:top="1134" w:right="851" w:bottom="1134" w:left="1701" w:header="709" w:footer="709" w:gutter="0"/>
    </w:sectPr>
  </w:body>
</w:document>`

// builtinStylesXML defines the styles the default style set refers to.
const builtinStylesXML = `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman"/><w:sz w:val="24"/></w:rPr></w:rPrDefault>
    <w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="0"/><w:spacing w:before="240" w:after="120"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading2">
    <w:name w:val="heading 2"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="1"/><w:spacing w:before="240" w:after="120"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="28"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading3">
    <w:name w:val="heading 3"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="2"/><w:spacing w:before="200" w:after="100"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="26"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading4">
    <w:name w:val="heading 4"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="3"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="24"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading5">
    <w:name w:val="heading 5"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="4"/></w:pPr>
    <w:rPr><w:b/><w:i/><w:sz w:val="24"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading6">
    <w:name w:val="heading 6"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="5"/></w:pPr>
    <w:rPr><w:i/><w:sz w:val="24"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="TableCaption">
    <w:name w:val="table caption"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:keepNext/><w:spacing w:before="200" w:after="60"/></w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="TableText">
    <w:name w:val="table text"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:spacing w:after="0"/></w:pPr>
    <w:rPr><w:sz w:val="22"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="TableHeader">
    <w:name w:val="table header"/><w:basedOn w:val="TableText"/>
    <w:pPr><w:jc w:val="center"/></w:pPr>
    <w:rPr><w:b/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="TableNote">
    <w:name w:val="table note"/><w:basedOn w:val="Normal"/>
    <w:rPr><w:i/><w:sz w:val="18"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Figure">
    <w:name w:val="figure"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:jc w:val="center"/><w:spacing w:after="60"/></w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="FigureCaption">
    <w:name w:val="figure caption"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:jc w:val="center"/><w:spacing w:after="200"/></w:pPr>
  </w:style>
  <w:style w:type="table" w:styleId="TableGrid">
    <w:name w:val="Table Grid"/>
    <w:tblPr>
      <w:tblBorders>
        <w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>
        <w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>
        <w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>
        <w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>
        <w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>
        <w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>
      </w:tblBorders>
    </w:tblPr>
  </w:style>
</w:styles>`

// builtinTemplateBytes assembles the blank DOCX package new reports start from.
func builtinTemplateBytes() []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	rels, _ := w.Create("_rels/.rels")
	io.WriteString(rels, xmlHeader+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)

	wordRels, _ := w.Create("word/_rels/document.xml.rels")
	io.WriteString(wordRels, xmlHeader+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`)

	doc, _ := w.Create("word/document.xml")
	io.WriteString(doc, xmlHeader+builtinDocumentXML)

	styles, _ := w.Create("word/styles.xml")
	io.WriteString(styles, xmlHeader+builtinStylesXML)

	ct, _ := w.Create("[Content_Types].xml")
	io.WriteString(ct, xmlHeader+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`)

	w.Close()
	return buf.Bytes()
}

// assemble writes the finished DOCX package: every part of the source
// template is copied through, with word/document.xml replaced by the
// marshaled model, pending images added to word/media/, and the
// relationships, content types and styles parts extended as needed.
func (r *Report) assemble() ([]byte, error) {
	docXML, err := marshalDocument(r.doc)
	if err != nil {
		return nil, err
	}

	zipReader, err := zip.NewReader(bytes.NewReader(r.source), int64(len(r.source)))
	if err != nil {
		return nil, NewDocumentError("read", "template package", err)
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	hasImages := len(r.images) > 0
	relsWritten := false

	for _, file := range zipReader.File {
		switch {
		case file.Name == "word/document.xml":
			if err := writePart(w, file.Name, docXML); err != nil {
				return nil, err
			}

		case file.Name == "word/_rels/document.xml.rels" && hasImages:
			content, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			updated, err := r.relationshipsWithImages(content)
			if err != nil {
				return nil, err
			}
			if err := writePart(w, file.Name, updated); err != nil {
				return nil, err
			}
			relsWritten = true

		case file.Name == "[Content_Types].xml" && hasImages:
			content, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			updated, err := r.contentTypesWithImages(content)
			if err != nil {
				return nil, err
			}
			if err := writePart(w, file.Name, updated); err != nil {
				return nil, err
			}

		case file.Name == "word/styles.xml":
			content, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			merged, err := ensureRequiredStyles(content)
			if err != nil {
				// An unparseable styles part is copied through untouched.
				merged = content
			}
			if err := writePart(w, file.Name, merged); err != nil {
				return nil, err
			}

		default:
			fw, err := w.Create(file.Name)
			if err != nil {
				return nil, NewDocumentError("write", file.Name, err)
			}
			fr, err := file.Open()
			if err != nil {
				return nil, NewDocumentError("open", file.Name, err)
			}
			_, err = io.Copy(fw, fr)
			fr.Close()
			if err != nil {
				return nil, NewDocumentError("copy", file.Name, err)
			}
		}
	}

	if hasImages && !relsWritten {
		updated, err := r.relationshipsWithImages(nil)
		if err != nil {
			return nil, err
		}
		if err := writePart(w, "word/_rels/document.xml.rels", updated); err != nil {
			return nil, err
		}
	}

	for _, img := range r.images {
		fw, err := w.Create("word/media/" + img.name)
		if err != nil {
			return nil, NewDocumentError("write", img.name, err)
		}
		if _, err := fw.Write(img.data); err != nil {
			return nil, NewDocumentError("write", img.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, NewDocumentError("finalize", "package", err)
	}

	return buf.Bytes(), nil
}

// relationshipsWithImages appends one image relationship per pending image.
func (r *Report) relationshipsWithImages(current []byte) ([]byte, error) {
	rels := Relationships{
		Namespace: "http://schemas.openxmlformats.org/package/2006/relationships",
	}
	if len(current) > 0 {
		rels.Relationship = parseRelationships(current)
	}

	for _, img := range r.images {
		rels.Relationship = append(rels.Relationship, Relationship{
			ID:     img.relID,
			Type:   imageRelationshipType,
			Target: "media/" + img.name,
		})
	}

	output, err := xml.Marshal(&rels)
	if err != nil {
		return nil, NewDocumentError("marshal", "relationships", err)
	}
	return append([]byte(xmlHeader), output...), nil
}

// contentTypesWithImages registers default content types for the
// extensions of all pending images.
func (r *Report) contentTypesWithImages(current []byte) ([]byte, error) {
	var contentTypes ContentTypes
	if err := xml.Unmarshal(current, &contentTypes); err != nil {
		return nil, NewDocumentError("parse", "[Content_Types].xml", err)
	}
	if contentTypes.Namespace == "" {
		contentTypes.Namespace = "http://schemas.openxmlformats.org/package/2006/content-types"
	}

	registered := make(map[string]bool)
	for _, def := range contentTypes.Defaults {
		registered[strings.ToLower(def.Extension)] = true
	}

	for _, img := range r.images {
		ext := strings.ToLower(img.ext)
		if registered[ext] {
			continue
		}
		contentType, ok := extensionContentTypes[ext]
		if !ok {
			contentType = "image/" + ext
		}
		contentTypes.Defaults = append(contentTypes.Defaults, ContentTypeDefault{
			Extension:   ext,
			ContentType: contentType,
		})
		registered[ext] = true
	}

	output, err := xml.Marshal(&contentTypes)
	if err != nil {
		return nil, NewDocumentError("marshal", "[Content_Types].xml", err)
	}
	return append([]byte(xmlHeader), output...), nil
}

func writePart(w *zip.Writer, name string, content []byte) error {
	fw, err := w.Create(name)
	if err != nil {
		return NewDocumentError("write", name, err)
	}
	if _, err := fw.Write(content); err != nil {
		return NewDocumentError("write", name, err)
	}
	return nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, NewDocumentError("open", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewDocumentError("read", file.Name, err)
	}
	return content, nil
}
