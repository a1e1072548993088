package nb2docx

import (
	"github.com/alnah/go-nb2docx/internal/docx"
	"github.com/alnah/go-nb2docx/internal/textnorm"
)

// notFound marks an anchor absent from the template.
const notFound = -1

// Anchors are the paragraph texts that delimit the report sections.
type Anchors struct {
	Development string
	Code        string
	Conclusions string
}

// Scan is the result of ScanTemplate. Positions are paragraph ordinals,
// notFound when the anchor is absent.
type Scan struct {
	Development int
	Code        int
	Conclusions int

	// Prune lists, ascending, the stale paragraphs between the development
	// and conclusions anchors. The code anchor is never listed.
	Prune []int
}

// ScanTemplate locates the anchors and the paragraphs to prune.
// Each anchor's first match wins. Scanning stops at the conclusions anchor;
// without a development anchor nothing is pruned.
func ScanTemplate(paragraphs []docx.Paragraph, anchors Anchors) Scan {
	dev := textnorm.Normalize(anchors.Development)
	code := textnorm.Normalize(anchors.Code)
	conc := textnorm.Normalize(anchors.Conclusions)

	scan := Scan{Development: notFound, Code: notFound, Conclusions: notFound}
	inBody := false
	for i, p := range paragraphs {
		text := textnorm.Normalize(p.Text)
		if text == conc {
			scan.Conclusions = i
			break
		}
		switch {
		case inBody && text == code:
			if scan.Code == notFound {
				scan.Code = i
			}
		case inBody:
			scan.Prune = append(scan.Prune, i)
		case text == dev:
			scan.Development = i
			inBody = true
		case text == code && scan.Code == notFound:
			scan.Code = i
		}
	}
	return scan
}

// findAnchor returns the first paragraph whose text equals name, or notFound.
func findAnchor(paragraphs []docx.Paragraph, name string) int {
	key := textnorm.Normalize(name)
	for i, p := range paragraphs {
		if textnorm.Normalize(p.Text) == key {
			return i
		}
	}
	return notFound
}
