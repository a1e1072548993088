package docx_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-nb2docx/internal/docx"
	"github.com/alnah/go-nb2docx/internal/docx/docxtest"
)

func texts(doc *docx.Document) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, p.Text)
	}
	return out
}

func mustRead(t *testing.T, data []byte) *docx.Document {
	t.Helper()
	doc, err := docx.Read(data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return doc
}

// roundTrip serializes and reparses doc.
func roundTrip(t *testing.T, doc *docx.Document) (*docx.Document, []byte) {
	t.Helper()
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	return mustRead(t, data), data
}

// ---------------------------------------------------------------------------
// TestRead - Paragraph extraction
// ---------------------------------------------------------------------------

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []string
		want []string
	}{
		{
			name: "plain paragraphs",
			body: []string{docxtest.P("Intro"), docxtest.P("desarrollo"), docxtest.P("")},
			want: []string{"Intro", "desarrollo", ""},
		},
		{
			name: "runs are concatenated",
			body: []string{docxtest.Split("des", "arro", "llo")},
			want: []string{"desarrollo"},
		},
		{
			name: "tables are not paragraphs",
			body: []string{docxtest.P("a"), docxtest.Table("inside"), docxtest.P("b")},
			want: []string{"a", "b"},
		},
		{
			name: "tabs and breaks",
			body: []string{`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`},
			want: []string{"a\tb\nc"},
		},
		{
			name: "hyperlink text counts",
			body: []string{`<w:p><w:hyperlink r:id="rId9"><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p>`},
			want: []string{"link"},
		},
		{
			name: "deleted text is ignored",
			body: []string{`<w:p><w:del><w:r><w:delText>gone</w:delText></w:r></w:del><w:r><w:t>kept</w:t></w:r></w:p>`},
			want: []string{"kept"},
		},
		{
			name: "escaped characters",
			body: []string{docxtest.P("a < b & c")},
			want: []string{"a < b & c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustRead(t, docxtest.Build(tt.body...))
			if got := texts(doc); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("texts = %q, want %q", got, tt.want)
			}
			if doc.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", doc.Len(), len(tt.want))
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "not a zip", data: []byte("hello"), wantErr: docx.ErrNotDocx},
		{name: "empty", data: nil, wantErr: docx.ErrNotDocx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := docx.Read(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParagraph_Style(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.Styled("Heading2", "Section"), docxtest.P("body")))
	paras := doc.Paragraphs()

	if paras[0].StyleID != "Heading2" {
		t.Errorf("StyleID = %q, want Heading2", paras[0].StyleID)
	}
	if paras[0].StyleName != "heading 2" {
		t.Errorf("StyleName = %q, want %q", paras[0].StyleName, "heading 2")
	}
	if paras[1].StyleID != "" {
		t.Errorf("unstyled paragraph StyleID = %q, want empty", paras[1].StyleID)
	}
}

// ---------------------------------------------------------------------------
// TestDeleteParagraph
// ---------------------------------------------------------------------------

func TestDeleteParagraph(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a"), docxtest.Table("t"), docxtest.P("b"), docxtest.P("c")))

	if err := doc.DeleteParagraph(1); err != nil {
		t.Fatalf("DeleteParagraph(1) error: %v", err)
	}
	if got := texts(doc); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("after delete = %q, want [a c]", got)
	}

	back, data := roundTrip(t, doc)
	if got := texts(back); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("after round trip = %q, want [a c]", got)
	}
	body := string(docxtest.ReadPart(t, data, "word/document.xml"))
	if !strings.Contains(body, "<w:tbl>") {
		t.Error("table was not preserved")
	}
	if !strings.Contains(body, docxtest.SectPr) {
		t.Error("section properties were not preserved")
	}
}

func TestDeleteParagraph_OutOfRange(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a")))
	for _, pos := range []int{-1, 1, 5} {
		if err := doc.DeleteParagraph(pos); !errors.Is(err, docx.ErrPosition) {
			t.Errorf("DeleteParagraph(%d) error = %v, want ErrPosition", pos, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestInsertTextBefore
// ---------------------------------------------------------------------------

func TestInsertTextBefore(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a"), docxtest.P("b")))

	if err := doc.InsertTextBefore(1, "Heading <1>", "Heading 2", docx.AlignJustify); err != nil {
		t.Fatalf("InsertTextBefore() error: %v", err)
	}
	if err := doc.InsertTextBefore(doc.Len(), "end", "", docx.AlignDefault); err != nil {
		t.Fatalf("InsertTextBefore(Len) error: %v", err)
	}

	back, data := roundTrip(t, doc)
	want := []string{"a", "Heading <1>", "b", "end"}
	if got := texts(back); !reflect.DeepEqual(got, want) {
		t.Fatalf("texts = %q, want %q", got, want)
	}

	h := back.Paragraphs()[1]
	if h.StyleID != "Heading2" {
		t.Errorf("StyleID = %q, want Heading2", h.StyleID)
	}
	if h.Alignment != docx.AlignJustify {
		t.Errorf("Alignment = %q, want %q", h.Alignment, docx.AlignJustify)
	}

	// Appended content stays ahead of the section properties.
	body := string(docxtest.ReadPart(t, data, "word/document.xml"))
	if strings.Index(body, ">end<") > strings.Index(body, "<w:sectPr>") {
		t.Error("appended paragraph was written after sectPr")
	}
}

func TestInsertTextBefore_MultiLine(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a")))
	if err := doc.InsertTextBefore(0, "one\ntwo\tthree", "", docx.AlignDefault); err != nil {
		t.Fatal(err)
	}
	back, _ := roundTrip(t, doc)
	if got := back.Paragraphs()[0].Text; got != "one\ntwo\tthree" {
		t.Errorf("Text = %q, want %q", got, "one\ntwo\tthree")
	}
}

func TestInsertTextBefore_Errors(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a")))

	err := doc.InsertTextBefore(0, "x", "No Such Style", docx.AlignDefault)
	if !errors.Is(err, docx.ErrStyleNotFound) {
		t.Errorf("unknown style error = %v, want ErrStyleNotFound", err)
	}
	err = doc.InsertTextBefore(2, "x", "", docx.AlignDefault)
	if !errors.Is(err, docx.ErrPosition) {
		t.Errorf("position error = %v, want ErrPosition", err)
	}
	if doc.Len() != 1 {
		t.Errorf("failed inserts changed Len() to %d", doc.Len())
	}
}

// ---------------------------------------------------------------------------
// TestInsertPictureBefore
// ---------------------------------------------------------------------------

func TestInsertPictureBefore(t *testing.T) {
	t.Parallel()

	img := docxtest.PNG(t, 4, 2)
	doc := mustRead(t, docxtest.Build(docxtest.P("a"), docxtest.P("b")))

	pic := docx.Picture{Data: img, Width: 3 * docx.EMUPerInch, Height: 3 * docx.EMUPerInch / 2}
	if err := doc.InsertPictureBefore(1, pic, docx.AlignCenter); err != nil {
		t.Fatalf("InsertPictureBefore() error: %v", err)
	}
	if err := doc.InsertPictureBefore(0, pic, docx.AlignCenter); err != nil {
		t.Fatalf("second InsertPictureBefore() error: %v", err)
	}

	back, data := roundTrip(t, doc)
	paras := back.Paragraphs()
	if len(paras) != 4 {
		t.Fatalf("Len = %d, want 4", len(paras))
	}
	if !paras[0].HasPicture() || !paras[2].HasPicture() {
		t.Fatalf("pictures not at positions 0 and 2: %+v", paras)
	}
	if paras[2].Alignment != docx.AlignCenter {
		t.Errorf("Alignment = %q, want center", paras[2].Alignment)
	}
	if paras[0].Pictures[0] == paras[2].Pictures[0] {
		t.Errorf("pictures share relationship id %q", paras[0].Pictures[0])
	}

	got, ok := back.Media(paras[2].Pictures[0])
	if !ok {
		t.Fatal("Media() did not find inserted image")
	}
	if string(got) != string(img) {
		t.Error("Media() bytes differ from inserted image")
	}

	types := string(docxtest.ReadPart(t, data, "[Content_Types].xml"))
	if strings.Count(types, `Extension="png"`) != 1 {
		t.Errorf("content types should declare png once:\n%s", types)
	}
	body := string(docxtest.ReadPart(t, data, "word/document.xml"))
	if !strings.Contains(body, `cx="2743200"`) {
		t.Error("extent width not written in EMU")
	}
	if strings.Count(body, `<wp:docPr id="`) != 2 {
		t.Error("expected two drawing ids")
	}
}

func TestInsertPictureBefore_Empty(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a")))
	err := doc.InsertPictureBefore(0, docx.Picture{}, docx.AlignCenter)
	if !errors.Is(err, docx.ErrEmptyPicture) {
		t.Errorf("error = %v, want ErrEmptyPicture", err)
	}
}

// ---------------------------------------------------------------------------
// TestStyles
// ---------------------------------------------------------------------------

func TestStyleID(t *testing.T) {
	t.Parallel()

	doc := mustRead(t, docxtest.Build(docxtest.P("a")))

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "Heading 2", want: "Heading2"},
		{name: "heading 2", want: "Heading2"},
		{name: "Title", want: "Title"},
		{name: "Strong", wantErr: true},
		{name: "Heading 9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := doc.StyleID(tt.name)
			if tt.wantErr {
				if !errors.Is(err, docx.ErrStyleNotFound) {
					t.Errorf("error = %v, want ErrStyleNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("StyleID(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	names := doc.StyleNames()
	if !reflect.DeepEqual(names, []string{"Normal", "heading 1", "heading 2", "Title"}) {
		t.Errorf("StyleNames() = %q", names)
	}
}

// ---------------------------------------------------------------------------
// TestSave
// ---------------------------------------------------------------------------

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := docxtest.Write(t, dir, "template.docx", docxtest.P("a"))

	doc, err := docx.Open(src)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := doc.InsertTextBefore(0, "first", "", docx.AlignDefault); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "new-template.docx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	saved, err := docx.Open(out)
	if err != nil {
		t.Fatalf("Open(saved) error: %v", err)
	}
	if got := texts(saved); !reflect.DeepEqual(got, []string{"first", "a"}) {
		t.Errorf("saved texts = %q", got)
	}

	// The template itself is untouched.
	orig, err := docx.Open(src)
	if err != nil {
		t.Fatal(err)
	}
	if orig.Len() != 1 {
		t.Errorf("template Len() = %d, want 1", orig.Len())
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	if _, err := docx.Open(filepath.Join(t.TempDir(), "nope.docx")); err == nil {
		t.Error("Open() of missing file should fail")
	}
}
