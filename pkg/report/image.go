package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

const imageRelationshipType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// WordprocessingML measures drawings in English Metric Units.
const emuPerCm = 360000

const defaultPictureWidthCm = 16.5

// pendingImage is a picture waiting to be written into word/media/
// when the package is assembled.
type pendingImage struct {
	data  []byte
	ext   string
	name  string
	relID string
}

type pictureConfig struct {
	widthCm float64
	caption string
}

// PictureOption configures AddPicture and AddPictureFile.
type PictureOption func(*pictureConfig)

// WithWidthCm sets the rendered width of the picture in centimeters.
// The default is 16.5 cm, the text width of an A4 page with the
// built-in margins. Height follows the aspect ratio of the image.
func WithWidthCm(cm float64) PictureOption {
	return func(c *pictureConfig) {
		c.widthCm = cm
	}
}

// WithCaption writes a caption paragraph below the picture.
func WithCaption(caption string) PictureOption {
	return func(c *pictureConfig) {
		c.caption = caption
	}
}

// AddPicture embeds a PNG, JPEG or GIF image read from src. The image
// is scaled to the configured width, the paragraph holding it gets the
// figure style, and an optional caption paragraph follows.
func (r *Report) AddPicture(src io.Reader, opts ...PictureOption) error {
	cfg := pictureConfig{widthCm: defaultPictureWidthCm}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.widthCm <= 0 {
		return NewValidationError("width",
			fmt.Sprintf("picture width must be positive, got %g cm", cfg.widthCm))
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return NewDocumentError("read", "image", err)
	}

	imgCfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return NewDocumentError("decode", "image", err)
	}
	if imgCfg.Width <= 0 || imgCfg.Height <= 0 {
		return NewDocumentError("decode", "image", fmt.Errorf("image has no dimensions"))
	}

	widthEMU := int64(cfg.widthCm * emuPerCm)
	heightEMU := widthEMU * int64(imgCfg.Height) / int64(imgCfg.Width)

	index := len(r.images) + 1
	img := &pendingImage{
		data:  data,
		ext:   format,
		name:  fmt.Sprintf("image%d.%s", index, format),
		relID: fmt.Sprintf("rIdImg%d", index),
	}
	r.images = append(r.images, img)

	p := newTextParagraph("", r.styles.Figure)
	p.Runs = append(p.Runs, Run{
		RawXML: []RawXMLElement{{Content: inlineDrawingXML(img, index, widthEMU, heightEMU)}},
	})
	r.appendElement(p)

	if cfg.caption != "" {
		caption := fmt.Sprintf("%s — %s", r.styles.FigureLabel, cfg.caption)
		r.appendElement(newTextParagraph(caption, r.styles.FigureCaption))
	}

	Debug("embedded %s (%dx%d px, %.1f cm wide)", img.name, imgCfg.Width, imgCfg.Height, cfg.widthCm)
	return nil
}

// AddPictureFile embeds the image file at path, see AddPicture.
func (r *Report) AddPictureFile(path string, opts ...PictureOption) error {
	f, err := os.Open(path)
	if err != nil {
		return NewDocumentError("open", path, err)
	}
	defer f.Close()
	return r.AddPicture(f, opts...)
}

// inlineDrawingXML renders the w:drawing element for an inline picture.
// Namespaces are declared locally so the drawing stays valid inside
// templates that do not declare them on w:document.
func inlineDrawingXML(img *pendingImage, docPrID int, widthEMU, heightEMU int64) []byte {
	return []byte(fmt.Sprintf(
		`<w:drawing>`+
			`<wp:inline distT="0" distB="0" distL="0" distR="0"`+
			` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`+
			` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`+
			` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`+
			` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`+
			`<wp:extent cx="%d" cy="%d"/>`+
			`<wp:docPr id="%d" name="%s"/>`+
			`<a:graphic>`+
			`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:pic>`+
			`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr>`+
			`<a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
			`</pic:spPr>`+
			`</pic:pic>`+
			`</a:graphicData>`+
			`</a:graphic>`+
			`</wp:inline>`+
			`</w:drawing>`,
		widthEMU, heightEMU,
		docPrID, img.name,
		docPrID, img.name,
		img.relID,
		widthEMU, heightEMU,
	))
}
