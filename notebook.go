package nb2docx

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// maxNotebookSize caps notebook input. Notebooks embed their images as
// base64, so this is generous.
const maxNotebookSize = 512 << 20

// mimePNG is the only output payload the report uses.
const mimePNG = "image/png"

// Cell is one notebook cell.
type Cell struct {
	Index     int      // position in the full cell sequence, header included
	Source    []string // lines, each keeping its trailing newline
	HasOutput bool     // the outputs key is present, even if empty
	Outputs   int      // number of output elements

	// OutputImage is the decoded PNG of the first output, nil when that
	// output carries no image. Later outputs are never consulted.
	OutputImage []byte
}

// FirstLine returns the first source line, or "" for an empty cell.
func (c Cell) FirstLine() string {
	if len(c.Source) == 0 {
		return ""
	}
	return c.Source[0]
}

// CodeText returns the source with each line's leading whitespace removed,
// concatenated. Blank lines disappear since their newline is leading
// whitespace too.
func (c Cell) CodeText() string {
	var b strings.Builder
	for _, line := range c.Source {
		b.WriteString(strings.TrimLeftFunc(line, unicode.IsSpace))
	}
	return b.String()
}

// Notebook is the parsed notebook. Cells[0] is the header cell.
type Notebook struct {
	Path  string
	Cells []Cell
}

// Body returns the cells after the header. Their Index values keep
// counting from the full sequence, so the first one has Index 1.
func (n *Notebook) Body() []Cell {
	if len(n.Cells) <= 1 {
		return nil
	}
	return n.Cells[1:]
}

type rawNotebook struct {
	Cells *[]rawCell `json:"cells"`
}

type rawCell struct {
	Source  json.RawMessage `json:"source"`
	Outputs json.RawMessage `json:"outputs"`
}

type rawOutput struct {
	Data map[string]json.RawMessage `json:"data"`
}

// ReadNotebook reads and parses the notebook at path.
func ReadNotebook(path string) (*Notebook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookRead, err)
	}
	if info.Size() > maxNotebookSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrNotebookRead, path, info.Size(), maxNotebookSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- notebook path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookRead, err)
	}
	nb, err := ParseNotebook(data)
	if err != nil {
		return nil, err
	}
	nb.Path = path
	return nb, nil
}

// ParseNotebook parses notebook JSON. Source fields may be a list of lines
// or a single string; both are normalized to lines.
func ParseNotebook(data []byte) (*Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookParse, err)
	}
	if raw.Cells == nil {
		return nil, ErrNoCells
	}

	nb := &Notebook{Cells: make([]Cell, 0, len(*raw.Cells))}
	for i, rc := range *raw.Cells {
		cell, err := parseCell(i, rc)
		if err != nil {
			return nil, err
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func parseCell(index int, rc rawCell) (Cell, error) {
	cell := Cell{Index: index}

	source, err := multiline(rc.Source)
	if err != nil {
		return cell, fmt.Errorf("%w: cell %d source: %v", ErrNotebookParse, index, err)
	}
	cell.Source = source

	if rc.Outputs == nil {
		return cell, nil
	}
	cell.HasOutput = true

	var outputs []rawOutput
	if !isNull(rc.Outputs) {
		if err := json.Unmarshal(rc.Outputs, &outputs); err != nil {
			return cell, fmt.Errorf("%w: cell %d outputs: %v", ErrNotebookParse, index, err)
		}
	}
	cell.Outputs = len(outputs)
	if len(outputs) == 0 {
		return cell, nil
	}

	payload, ok := outputs[0].Data[mimePNG]
	if !ok {
		return cell, nil
	}
	encoded, err := multiline(payload)
	if err != nil {
		return cell, fmt.Errorf("%w: cell %d %s: %v", ErrNotebookParse, index, mimePNG, err)
	}
	img, err := base64.StdEncoding.DecodeString(stripSpace(strings.Join(encoded, "")))
	if err != nil {
		return cell, fmt.Errorf("%w: cell %d: %v", ErrImageDecode, index, err)
	}
	cell.OutputImage = img
	return cell, nil
}

// multiline decodes nbformat's "multiline string": a list of lines is kept
// as stored, a single string is split after each newline. Absent and null
// decode to no lines.
func multiline(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return splitLines(s), nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, errors.New("want string or list of strings")
	}
	return lines, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// splitLines splits s after each newline, the way nbformat stores lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
