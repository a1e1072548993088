package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Alignment is a paragraph justification value (w:jc).
type Alignment string

// Supported alignments. Empty means inherit from the style.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Paragraph is the readable view of one body paragraph.
type Paragraph struct {
	// Text is the visible run text; tabs and breaks appear as \t and \n.
	Text      string
	StyleID   string
	StyleName string
	Alignment Alignment
	// Pictures holds the relationship ids of embedded images in order.
	Pictures []string
}

// HasPicture reports whether the paragraph embeds at least one image.
func (p Paragraph) HasPicture() bool { return len(p.Pictures) > 0 }

func (p *Paragraph) clone() Paragraph {
	c := *p
	if p.Pictures != nil {
		c.Pictures = append([]string(nil), p.Pictures...)
	}
	return c
}

// Picture is an image to place inline. Width and Height are in EMU.
type Picture struct {
	Data   []byte
	Width  int64
	Height int64
	Name   string
}

// containers whose text is not part of the paragraph's own runs.
var opaqueContainers = map[string]bool{
	"drawing":          true,
	"pict":             true,
	"AlternateContent": true,
	"object":           true,
}

// parseParagraph reads a raw <w:p> fragment. Malformed fragments yield
// whatever was read before the error, since the decoder already accepted
// the enclosing document.
func parseParagraph(raw []byte) *Paragraph {
	p := &Paragraph{}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var stack []string
	opaque := 0
	var text strings.Builder

	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			name := t.Name.Local
			if opaqueContainers[name] {
				opaque++
			}
			switch {
			case name == "blip":
				if id := attr(t, "embed"); id != "" {
					p.Pictures = append(p.Pictures, id)
				}
			case opaque > 0:
			case len(stack) == 3 && stack[0] == "p" && stack[1] == "pPr":
				switch name {
				case "pStyle":
					p.StyleID = attr(t, "val")
				case "jc":
					p.Alignment = Alignment(attr(t, "val"))
				}
			case parent() == "r":
				switch name {
				case "tab":
					text.WriteByte('\t')
				case "br", "cr":
					text.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if opaqueContainers[t.Name.Local] {
				opaque--
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if opaque == 0 && len(stack) >= 2 && stack[len(stack)-1] == "t" && parent() == "r" {
				text.Write(t)
			}
		}
	}

	p.Text = text.String()
	return p
}

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// nsDecls returns xmlns declarations for prefixes the root does not bind
// to the expected namespace.
func (d *Document) nsDecls(prefixes ...string) string {
	want := map[string]string{"w": nsW, "r": nsR, "wp": nsWP}
	var b strings.Builder
	for _, p := range prefixes {
		if d.rootNS[p] != want[p] {
			fmt.Fprintf(&b, ` xmlns:%s="%s"`, p, want[p])
		}
	}
	return b.String()
}

func writeParagraphProps(b *strings.Builder, styleID string, align Alignment) {
	if styleID == "" && align == AlignDefault {
		return
	}
	b.WriteString("<w:pPr>")
	if styleID != "" {
		b.WriteString(`<w:pStyle w:val="`)
		escape(b, styleID)
		b.WriteString(`"/>`)
	}
	if align != AlignDefault {
		b.WriteString(`<w:jc w:val="`)
		escape(b, string(align))
		b.WriteString(`"/>`)
	}
	b.WriteString("</w:pPr>")
}

func (d *Document) textParagraphXML(text, styleID string, align Alignment) []byte {
	var b strings.Builder
	b.WriteString("<w:p" + d.nsDecls("w") + ">")
	writeParagraphProps(&b, styleID, align)
	if text != "" {
		b.WriteString("<w:r>")
		writeRunText(&b, text)
		b.WriteString("</w:r>")
	}
	b.WriteString("</w:p>")
	return []byte(b.String())
}

// writeRunText splits text into w:t, w:tab and w:br elements.
func writeRunText(b *strings.Builder, text string) {
	start := 0
	flush := func(end int) {
		if end > start {
			b.WriteString(`<w:t xml:space="preserve">`)
			escape(b, text[start:end])
			b.WriteString("</w:t>")
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			flush(i)
			b.WriteString("<w:br/>")
			start = i + 1
		case '\t':
			flush(i)
			b.WriteString("<w:tab/>")
			start = i + 1
		case '\r':
			flush(i)
			start = i + 1
		}
	}
	flush(len(text))
}

func (d *Document) pictureParagraphXML(relID, partName string, id int, pic Picture, align Alignment) []byte {
	name := pic.Name
	if name == "" {
		name = partName
	}
	var b strings.Builder
	b.WriteString("<w:p" + d.nsDecls("w", "r", "wp") + ">")
	writeParagraphProps(&b, "", align)
	fmt.Fprintf(&b, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="%s" noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic xmlns:a="%s"><a:graphicData uri="%s">`+
		`<pic:pic xmlns:pic="%s"><pic:nvPicPr><pic:cNvPr id="0" name="`,
		pic.Width, pic.Height, id, id, nsA, nsA, nsPic, nsPic)
	escape(&b, name)
	fmt.Fprintf(&b, `"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic>`+
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		relID, pic.Width, pic.Height)
	return []byte(b.String())
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
