package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alnah/go-nb2docx/internal/fileutil"
)

// Package part names.
const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
)

// XML namespaces used in generated markup.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// EMUPerInch converts inches to English Metric Units used by DrawingML.
const EMUPerInch = 914400

// filePermissions for saved documents: rw-r--r--.
const filePermissions = 0o644

// node is one direct child of <w:body>, kept as raw XML.
// para is nil for anything that is not a paragraph.
type node struct {
	raw  []byte
	para *Paragraph
	name string // local element name, empty for whitespace or comments
}

// Document is an editable word-processing package held in memory.
type Document struct {
	zr       *zip.Reader
	head     []byte // document.xml up to and including <w:body>
	tail     []byte // </w:body> to end
	body     []*node
	rootNS   map[string]string // prefix -> namespace declared on the root element
	styles   []style
	rels     *relationships
	types    []byte
	media    map[string][]byte // new parts by name
	mediaSeq int
	maxDocPr int
}

// Open reads and parses the document at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- template path is user-provided
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// Read parses a document from its package bytes.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	d := &Document{zr: zr, media: make(map[string][]byte)}

	types, err := d.readPart(partContentTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, partContentTypes)
	}
	d.types = types

	docXML, err := d.readPart(partDocument)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, partDocument)
	}
	if err := d.parseDocument(docXML); err != nil {
		return nil, err
	}

	// Styles are optional; a document without them simply has no named styles.
	if stylesXML, err := d.readPart(partStyles); err == nil {
		if d.styles, err = parseStyles(stylesXML); err != nil {
			return nil, err
		}
	}

	d.rels = &relationships{}
	if relsXML, err := d.readPart(partDocumentRels); err == nil {
		if d.rels, err = parseRelationships(relsXML); err != nil {
			return nil, err
		}
	}

	d.resolveParagraphStyles()
	return d, nil
}

func (d *Document) readPart(name string) ([]byte, error) {
	for _, f := range d.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part not found: %s", name)
}

func (d *Document) hasPart(name string) bool {
	if _, ok := d.media[name]; ok {
		return true
	}
	for _, f := range d.zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// parseDocument splits document.xml into head, body children and tail.
func (d *Document) parseDocument(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	bodyDepth := -1
	headEnd, tailStart := int64(-1), int64(-1)

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				d.rootNS = namespaceDecls(t)
			}
			if bodyDepth < 0 {
				if depth == 2 && t.Name.Local == "body" {
					bodyDepth = depth
					headEnd = dec.InputOffset()
				}
				continue
			}
			if tailStart < 0 && depth == bodyDepth+1 {
				if err := dec.Skip(); err != nil {
					return fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
				depth--
				n := &node{raw: data[off:dec.InputOffset()], name: t.Name.Local}
				if n.name == "p" {
					n.para = parseParagraph(n.raw)
				}
				d.body = append(d.body, n)
			}
		case xml.EndElement:
			if bodyDepth >= 0 && tailStart < 0 && depth == bodyDepth {
				tailStart = off
			}
			depth--
		default:
			if bodyDepth >= 0 && tailStart < 0 && depth == bodyDepth {
				d.body = append(d.body, &node{raw: data[off:dec.InputOffset()]})
			}
		}
	}

	if headEnd < 0 || tailStart < 0 {
		return fmt.Errorf("%w: no <w:body> element", ErrNotDocx)
	}
	d.head = data[:headEnd]
	d.tail = data[tailStart:]
	d.maxDocPr = maxDrawingID(data)
	return nil
}

func namespaceDecls(t xml.StartElement) map[string]string {
	ns := make(map[string]string)
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" {
			ns[a.Name.Local] = a.Value
		}
	}
	return ns
}

// maxDrawingID returns the highest docPr id so new drawings stay unique.
func maxDrawingID(data []byte) int {
	dec := xml.NewDecoder(bytes.NewReader(data))
	maxID := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return maxID
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "docPr" {
			if id, err := strconv.Atoi(attr(se, "id")); err == nil && id > maxID {
				maxID = id
			}
		}
	}
}

func (d *Document) resolveParagraphStyles() {
	for _, n := range d.body {
		if n.para != nil && n.para.StyleID != "" {
			n.para.StyleName = d.styleName(n.para.StyleID)
		}
	}
}

// Len returns the number of body paragraphs.
func (d *Document) Len() int {
	count := 0
	for _, n := range d.body {
		if n.para != nil {
			count++
		}
	}
	return count
}

// Paragraphs returns a snapshot of the body paragraphs in document order.
// Positions in the slice are the positions accepted by the edit methods.
func (d *Document) Paragraphs() []Paragraph {
	out := make([]Paragraph, 0, len(d.body))
	for _, n := range d.body {
		if n.para != nil {
			out = append(out, n.para.clone())
		}
	}
	return out
}

// nodeIndex maps a paragraph position to its index in d.body.
// pos == Len() maps to the append point: before a trailing sectPr, or the end.
func (d *Document) nodeIndex(pos int, allowEnd bool) (int, error) {
	if pos < 0 {
		return 0, fmt.Errorf("%w: %d", ErrPosition, pos)
	}
	seen := 0
	for i, n := range d.body {
		if n.para == nil {
			continue
		}
		if seen == pos {
			return i, nil
		}
		seen++
	}
	if allowEnd && pos == seen {
		return d.appendIndex(), nil
	}
	return 0, fmt.Errorf("%w: %d (document has %d paragraphs)", ErrPosition, pos, seen)
}

func (d *Document) appendIndex() int {
	for i := len(d.body) - 1; i >= 0; i-- {
		switch d.body[i].name {
		case "sectPr":
			return i
		case "":
			continue
		default:
			return len(d.body)
		}
	}
	return len(d.body)
}

// DeleteParagraph removes the paragraph at pos.
func (d *Document) DeleteParagraph(pos int) error {
	i, err := d.nodeIndex(pos, false)
	if err != nil {
		return err
	}
	d.body = append(d.body[:i], d.body[i+1:]...)
	return nil
}

func (d *Document) insertBefore(pos int, raw []byte) error {
	i, err := d.nodeIndex(pos, true)
	if err != nil {
		return err
	}
	n := &node{raw: raw, name: "p", para: parseParagraph(raw)}
	if n.para.StyleID != "" {
		n.para.StyleName = d.styleName(n.para.StyleID)
	}
	d.body = append(d.body, nil)
	copy(d.body[i+1:], d.body[i:])
	d.body[i] = n
	return nil
}

// InsertTextBefore inserts a single-run paragraph immediately before the
// paragraph at pos. styleName is the name shown in Word ("Heading 2");
// empty keeps the document default. pos == Len() appends to the body.
func (d *Document) InsertTextBefore(pos int, text, styleName string, align Alignment) error {
	styleID := ""
	if styleName != "" {
		id, err := d.StyleID(styleName)
		if err != nil {
			return err
		}
		styleID = id
	}
	return d.insertBefore(pos, d.textParagraphXML(text, styleID, align))
}

// InsertPictureBefore inserts a paragraph holding one inline picture
// immediately before the paragraph at pos.
func (d *Document) InsertPictureBefore(pos int, pic Picture, align Alignment) error {
	if len(pic.Data) == 0 || pic.Width <= 0 || pic.Height <= 0 {
		return ErrEmptyPicture
	}
	// Validate the position before registering any part.
	if _, err := d.nodeIndex(pos, true); err != nil {
		return err
	}
	relID, name := d.addMedia(pic.Data)
	d.maxDocPr++
	return d.insertBefore(pos, d.pictureParagraphXML(relID, name, d.maxDocPr, pic, align))
}

// Media returns the bytes of the image part referenced by relID.
func (d *Document) Media(relID string) ([]byte, bool) {
	name, ok := d.rels.partName(relID)
	if !ok {
		return nil, false
	}
	if data, ok := d.media[name]; ok {
		return data, true
	}
	data, err := d.readPart(name)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Bytes serializes the package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	replaced := map[string][]byte{
		partContentTypes: d.contentTypesXML(),
		partDocument:     d.documentXML(),
	}
	relsXML, err := d.rels.marshal()
	if err != nil {
		return nil, err
	}
	replaced[partDocumentRels] = relsXML

	for _, f := range d.zr.File {
		data, ok := replaced[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}
		delete(replaced, f.Name)
		if err := writeEntry(zw, f.Name, data, zip.Deflate); err != nil {
			return nil, err
		}
	}
	// Parts that did not exist in the template, e.g. a first relationships file.
	for _, name := range []string{partDocumentRels} {
		if data, ok := replaced[name]; ok {
			if err := writeEntry(zw, name, data, zip.Deflate); err != nil {
				return nil, err
			}
		}
	}
	for i := 1; i <= d.mediaSeq; i++ {
		name := mediaPartName(i)
		if data, ok := d.media[name]; ok {
			// PNG is already compressed.
			if err := writeEntry(zw, name, data, zip.Store); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the package to path atomically.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, filePermissions)
}

func writeEntry(zw *zip.Writer, name string, data []byte, method uint16) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (d *Document) documentXML() []byte {
	size := len(d.head) + len(d.tail)
	for _, n := range d.body {
		size += len(n.raw)
	}
	out := make([]byte, 0, size)
	out = append(out, d.head...)
	for _, n := range d.body {
		out = append(out, n.raw...)
	}
	return append(out, d.tail...)
}
