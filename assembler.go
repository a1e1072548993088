package nb2docx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/alnah/go-nb2docx/internal/docx"
	"github.com/alnah/go-nb2docx/internal/hints"
	"github.com/alnah/go-nb2docx/internal/pipeline"
	"github.com/alnah/go-nb2docx/internal/raster"
)

// headingMarker is a digit followed by a closing parenthesis, as in "3) Results".
var headingMarker = regexp.MustCompile(`[0-9]\)`)

// HeadingText returns the heading declared by a cell's first source line:
// the text after the first marker, up to the next one, without leading
// whitespace or the line ending. ok is false when the line has no marker.
// A marker with nothing after it yields an empty heading.
func HeadingText(line string) (text string, ok bool) {
	loc := headingMarker.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	rest := line[loc[1]:]
	if next := headingMarker.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	rest = strings.TrimRight(strings.TrimLeftFunc(rest, unicode.IsSpace), "\r\n")
	return rest, true
}

// cursor tracks insertions after one anchor. Each pass owns one; positions
// are never recomputed by rescanning the document.
type cursor struct {
	anchor int
	n      int
}

// next is where the following paragraph goes.
func (c *cursor) next() int { return c.anchor + c.n + 1 }

func (c *cursor) advance() { c.n++ }

// assembly holds the settings of one assembly run.
type assembly struct {
	doc           *docx.Document
	artifacts     Artifacts
	anchors       Anchors
	headingStyle  string
	plainHeadings bool
	imageWidth    int64 // EMU
	logger        *slog.Logger
	result        *Result
}

// run prunes stale content, then fills the development and code sections.
// Both anchors are located once, on the pruned template, so inserted
// headings never stand in for an anchor.
func (a *assembly) run(ctx context.Context, cells []Cell) error {
	if err := a.prune(); err != nil {
		return err
	}
	paragraphs := a.doc.Paragraphs()
	dev := findAnchor(paragraphs, a.anchors.Development)
	code := findAnchor(paragraphs, a.anchors.Code)

	inserted, err := a.developmentPass(ctx, cells, dev)
	if err != nil {
		return err
	}
	if code != notFound && dev != notFound && dev < code {
		code += inserted
	}
	return a.codePass(ctx, cells, code)
}

// prune deletes the paragraphs ScanTemplate marks, last first so earlier
// positions stay valid.
func (a *assembly) prune() error {
	scan := ScanTemplate(a.doc.Paragraphs(), a.anchors)
	if scan.Development != notFound && scan.Conclusions == notFound {
		a.warn("conclusions anchor not found, pruned to the end of the document",
			"anchor", a.anchors.Conclusions)
	}
	for i := len(scan.Prune) - 1; i >= 0; i-- {
		if err := a.doc.DeleteParagraph(scan.Prune[i]); err != nil {
			return fmt.Errorf("pruning paragraph %d: %w", scan.Prune[i], err)
		}
	}
	a.result.Pruned = len(scan.Prune)
	a.logger.Debug("template pruned", "paragraphs", len(scan.Prune))
	return nil
}

// developmentPass inserts a heading for every numbered text cell and the
// output image of every output cell, in cell order, after the development
// anchor. It returns the number of paragraphs inserted.
func (a *assembly) developmentPass(ctx context.Context, cells []Cell, anchor int) (int, error) {
	if anchor == notFound {
		a.warn("development anchor not found, no headings or output images inserted",
			"anchor", a.anchors.Development)
		return 0, nil
	}

	cur := cursor{anchor: anchor}
	for _, cell := range cells {
		if err := ctx.Err(); err != nil {
			return cur.n, err
		}
		if !cell.HasOutput {
			if err := a.insertHeading(&cur, cell); err != nil {
				return cur.n, err
			}
			continue
		}
		if cell.Outputs == 0 {
			continue
		}
		if cell.OutputImage == nil {
			a.warn("first output has no image/png payload, skipped", "cell", cell.Index)
			continue
		}
		if err := a.insertPicture(&cur, cell.Index, RoleImage); err != nil {
			return cur.n, err
		}
		a.result.OutputImages++
	}
	return cur.n, nil
}

// codePass inserts the code image of every output cell after the code
// anchor at position anchor.
func (a *assembly) codePass(ctx context.Context, cells []Cell, anchor int) error {
	if anchor == notFound {
		a.warn("code anchor not found, no code images inserted", "anchor", a.anchors.Code)
		return nil
	}

	cur := cursor{anchor: anchor}
	for _, cell := range cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !cell.HasOutput {
			continue
		}
		if err := a.insertPicture(&cur, cell.Index, RoleCode); err != nil {
			return err
		}
		a.result.CodeImages++
	}
	return nil
}

func (a *assembly) insertHeading(cur *cursor, cell Cell) error {
	text, ok := HeadingText(cell.FirstLine())
	if !ok {
		return nil
	}
	if a.plainHeadings {
		text = pipeline.PlainText(text)
	}

	err := a.doc.InsertTextBefore(cur.next(), text, a.headingStyle, docx.AlignJustify)
	if errors.Is(err, docx.ErrStyleNotFound) {
		return fmt.Errorf("%w: %q%s", ErrStyleNotFound, a.headingStyle, hints.ForStyleNotFound(a.doc.StyleNames()))
	}
	if err != nil {
		return fmt.Errorf("inserting heading for cell %d: %w", cell.Index, err)
	}
	cur.advance()
	a.result.Headings++
	a.logger.Debug("heading inserted", "cell", cell.Index, "text", text)
	return nil
}

func (a *assembly) insertPicture(cur *cursor, index int, role Role) error {
	data, err := a.artifacts.Read(index, role)
	if err != nil {
		return err
	}
	info, err := raster.Probe(data)
	if err != nil {
		return fmt.Errorf("%w: %d%s: %v", ErrImageDecode, index, role, err)
	}

	pic := docx.Picture{
		Data:   data,
		Width:  a.imageWidth,
		Height: max(info.FitWidth(a.imageWidth), 1),
		Name:   fmt.Sprintf("%d%s.png", index, role),
	}
	if err := a.doc.InsertPictureBefore(cur.next(), pic, docx.AlignCenter); err != nil {
		return fmt.Errorf("inserting %s: %w", pic.Name, err)
	}
	cur.advance()
	a.logger.Debug("picture inserted", "cell", index, "role", string(role))
	return nil
}

func (a *assembly) warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
	a.result.Warnings = append(a.result.Warnings, warningText(msg, args...))
}

// warningText renders msg and its key/value pairs the way Result.Warnings
// stores them: "msg (key=value, ...)".
func warningText(msg string, args ...any) string {
	if len(args) < 2 {
		return msg
	}
	pairs := make([]string, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", args[i], args[i+1]))
	}
	return msg + " (" + strings.Join(pairs, ", ") + ")"
}
