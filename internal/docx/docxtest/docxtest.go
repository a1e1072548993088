// Package docxtest builds small word-processing packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/></w:style>` +
	`<w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/></w:style>` +
	`</w:styles>`

const documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`

// SectPr is the section properties element every fixture body ends with.
const SectPr = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`

const documentTail = SectPr + `</w:body></w:document>`

// P returns a plain paragraph with one run.
func P(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// Styled returns a paragraph with a style id.
func Styled(styleID, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + styleID + `"/></w:pPr><w:r><w:t>` +
		html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// Split returns a paragraph whose text is spread over several runs.
func Split(parts ...string) string {
	var b bytes.Buffer
	b.WriteString(`<w:p>`)
	for _, p := range parts {
		b.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t>` + html.EscapeString(p) + `</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
	return b.String()
}

// Table returns a one-cell table containing text.
func Table(text string) string {
	return `<w:tbl><w:tr><w:tc>` + P(text) + `</w:tc></w:tr></w:tbl>`
}

// Build returns a complete package whose body holds the given children
// followed by SectPr. PNG is not declared in the content types.
func Build(body ...string) []byte {
	var doc bytes.Buffer
	doc.WriteString(documentHead)
	for _, b := range body {
		doc.WriteString(b)
	}
	doc.WriteString(documentTail)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/document.xml", doc.String()},
		{"word/_rels/document.xml.rels", documentRels},
		{"word/styles.xml", styles},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			panic(fmt.Sprintf("docxtest: %v", err))
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			panic(fmt.Sprintf("docxtest: %v", err))
		}
	}
	if err := zw.Close(); err != nil {
		panic(fmt.Sprintf("docxtest: %v", err))
	}
	return buf.Bytes()
}

// Write builds a package and stores it as name under dir.
func Write(t testing.TB, dir, name string, body ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(body...), 0o600); err != nil {
		t.Fatalf("docxtest: writing %s: %v", path, err)
	}
	return path
}

// PNG encodes a solid image of the given size.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x27, G: 0x28, B: 0x22, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("docxtest: encoding png: %v", err)
	}
	return buf.Bytes()
}

// ReadPart returns one part of a package, failing the test if it is absent.
func ReadPart(t testing.TB, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("docxtest: opening package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("docxtest: opening %s: %v", name, err)
		}
		defer rc.Close()
		var out bytes.Buffer
		if _, err := out.ReadFrom(rc); err != nil {
			t.Fatalf("docxtest: reading %s: %v", name, err)
		}
		return out.Bytes()
	}
	t.Fatalf("docxtest: part %s not found", name)
	return nil
}
