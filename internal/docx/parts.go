package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	relTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	pngDefault   = `<Default Extension="png" ContentType="image/png"/>`
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

type stylesPart struct {
	Styles []style `xml:"style"`
}

type style struct {
	Type string  `xml:"type,attr"`
	ID   string  `xml:"styleId,attr"`
	Name valAttr `xml:"name"`
}

type valAttr struct {
	Val string `xml:"val,attr"`
}

func parseStyles(data []byte) ([]style, error) {
	var sp stylesPart
	if err := xml.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("%w: styles: %v", ErrMalformedXML, err)
	}
	return sp.Styles, nil
}

func isParagraphStyle(s style) bool {
	return s.Type == "" || s.Type == "paragraph"
}

// StyleID resolves a paragraph style by its display name, case-insensitively.
// Word stores built-in names in lower case ("heading 2"), so "Heading 2"
// matches. An id equal to the name without spaces is accepted as a fallback.
func (d *Document) StyleID(name string) (string, error) {
	for _, s := range d.styles {
		if isParagraphStyle(s) && strings.EqualFold(s.Name.Val, name) {
			return s.ID, nil
		}
	}
	compact := strings.ReplaceAll(name, " ", "")
	for _, s := range d.styles {
		if isParagraphStyle(s) && strings.EqualFold(s.ID, compact) {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
}

func (d *Document) styleName(id string) string {
	for _, s := range d.styles {
		if s.ID == id && s.Name.Val != "" {
			return s.Name.Val
		}
	}
	return id
}

// StyleNames lists the paragraph style names defined by the document.
func (d *Document) StyleNames() []string {
	var names []string
	for _, s := range d.styles {
		if isParagraphStyle(s) && s.Name.Val != "" {
			names = append(names, s.Name.Val)
		}
	}
	return names
}

// ---------------------------------------------------------------------------
// Relationships
// ---------------------------------------------------------------------------

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func parseRelationships(data []byte) (*relationships, error) {
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("%w: relationships: %v", ErrMalformedXML, err)
	}
	return &rels, nil
}

// partName returns the package part an internal relationship points at.
func (r *relationships) partName(id string) (string, bool) {
	for _, rel := range r.Items {
		if rel.ID != id || rel.TargetMode == "External" {
			continue
		}
		if strings.HasPrefix(rel.Target, "/") {
			return strings.TrimPrefix(rel.Target, "/"), true
		}
		return "word/" + rel.Target, true
	}
	return "", false
}

func (r *relationships) nextID() string {
	maxID := 0
	for _, rel := range r.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}
	return "rId" + strconv.Itoa(maxID+1)
}

func (r *relationships) marshal() ([]byte, error) {
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding relationships: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// ---------------------------------------------------------------------------
// Media and content types
// ---------------------------------------------------------------------------

func mediaPartName(seq int) string {
	return "word/media/nb2docx-" + strconv.Itoa(seq) + ".png"
}

// addMedia registers a PNG part and returns its relationship id and part name.
func (d *Document) addMedia(data []byte) (relID, name string) {
	for {
		d.mediaSeq++
		name = mediaPartName(d.mediaSeq)
		if !d.hasPart(name) {
			break
		}
	}
	d.media[name] = data
	relID = d.rels.nextID()
	d.rels.Items = append(d.rels.Items, relationship{
		ID:     relID,
		Type:   relTypeImage,
		Target: strings.TrimPrefix(name, "word/"),
	})
	return relID, name[strings.LastIndex(name, "/")+1:]
}

type contentTypes struct {
	Defaults []struct {
		Extension string `xml:"Extension,attr"`
	} `xml:"Default"`
}

// contentTypesXML returns the content types part, declaring PNG when media
// was added and the template did not declare it.
func (d *Document) contentTypesXML() []byte {
	if len(d.media) == 0 {
		return d.types
	}
	var ct contentTypes
	if err := xml.Unmarshal(d.types, &ct); err == nil {
		for _, def := range ct.Defaults {
			if strings.EqualFold(def.Extension, "png") {
				return d.types
			}
		}
	}
	i := bytes.LastIndex(d.types, []byte("</"))
	if i < 0 {
		return d.types
	}
	out := make([]byte, 0, len(d.types)+len(pngDefault))
	out = append(out, d.types[:i]...)
	out = append(out, pngDefault...)
	return append(out, d.types[i:]...)
}
