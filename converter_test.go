package nb2docx

// Notes:
// - Converter tests run the real pipeline (notebook parsing, artifact store,
//   assembly, document writing) with stubRenderer standing in for Chrome
// - Templates are built with docxtest; output is reopened with docx.Open
// - Browser-backed renderers are covered by renderer_integration_test.go

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/alnah/go-nb2docx/internal/docx"
	"github.com/alnah/go-nb2docx/internal/docx/docxtest"
	"github.com/alnah/go-nb2docx/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	dir      string
	notebook string
	template string
	renderer *stubRenderer
	cfg      *Config
}

// newFixture writes a notebook with a header plus the given cells, and a
// template holding the three anchors, into a fresh directory.
func newFixture(t *testing.T, cells ...testCell) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Artifacts.Dir = dir
	all := append([]testCell{{source: []string{"# Lab 3\n", "Student: A"}}}, cells...)
	return &fixture{
		dir:      dir,
		notebook: writeNotebook(t, dir, "lab.ipynb", all...),
		template: docxtest.Write(t, dir, "report.docx", threeAnchors...),
		renderer: &stubRenderer{png: docxtest.PNG(t, 40, 10)},
		cfg:      cfg,
	}
}

func (f *fixture) converter(t *testing.T) *Converter {
	t.Helper()
	conv, err := NewConverter(WithConfig(f.cfg), WithCodeRenderer(f.renderer), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

func (f *fixture) input() Input {
	return Input{Notebook: f.notebook, Template: f.template}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ---------------------------------------------------------------------------
// TestConvert - End to end
// ---------------------------------------------------------------------------

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	outputPNG := docxtest.PNG(t, 30, 20)
	f := newFixture(t,
		testCell{source: []string{"1) Intro"}},
		testCell{source: []string{"print(1)"}, outputs: []map[string]any{pngOutput(outputPNG)}},
	)

	res, err := f.converter(t).Convert(context.Background(), f.input())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	wantPath := filepath.Join(f.dir, "new-report.docx")
	if res.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, wantPath)
	}
	doc, err := docx.Open(wantPath)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}

	ps := doc.Paragraphs()
	var got []string
	for _, p := range ps {
		switch {
		case p.HasPicture() && p.Alignment == docx.AlignCenter:
			got = append(got, "<picture>")
		case p.HasPicture():
			got = append(got, "<uncentered picture>")
		default:
			got = append(got, p.Text)
		}
	}
	want := []string{"desarrollo", "Intro", "<picture>", "código", "<picture>", "conclusiones"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paragraphs = %q, want %q", got, want)
	}
	if ps[1].StyleName != "heading 2" {
		t.Errorf("heading style = %q, want heading 2", ps[1].StyleName)
	}

	if !reflect.DeepEqual(f.renderer.codes, []string{"print(1)"}) {
		t.Errorf("rendered code = %q", f.renderer.codes)
	}
	if exists(filepath.Join(f.dir, "lab")) {
		t.Error("artifact directory still exists")
	}
	if res.Headings != 1 || res.OutputImages != 1 || res.CodeImages != 1 || len(res.Warnings) != 0 {
		t.Errorf("result = %+v", res)
	}

	// The template itself is left untouched.
	tmpl, err := docx.Open(f.template)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Len() != 3 {
		t.Errorf("template has %d paragraphs, want 3", tmpl.Len())
	}
}

// A cell whose first output carries no picture still gets its code image.
func TestConvert_OutputWithoutImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		testCell{source: []string{"1) Intro"}},
		testCell{source: []string{"print('hi')"}, outputs: []map[string]any{textOutput("hi\n")}},
	)

	res, err := f.converter(t).Convert(context.Background(), f.input())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	doc, err := docx.Open(res.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, p := range doc.Paragraphs() {
		if p.HasPicture() {
			got = append(got, "<picture>")
			continue
		}
		got = append(got, p.Text)
	}
	want := []string{"desarrollo", "Intro", "código", "<picture>", "conclusiones"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paragraphs = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(f.renderer.codes, []string{"print('hi')"}) {
		t.Errorf("rendered code = %q", f.renderer.codes)
	}
	if res.OutputImages != 0 || res.CodeImages != 1 || len(res.Warnings) != 1 {
		t.Errorf("result = %+v, want one code image and one warning", res)
	}
}

func TestConvert_RerunReplacesContent(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		testCell{source: []string{"1) Intro"}},
		testCell{source: []string{"x"}, outputs: []map[string]any{pngOutput(docxtest.PNG(t, 5, 5))}},
	)
	conv := f.converter(t)

	first, err := conv.Convert(context.Background(), f.input())
	if err != nil {
		t.Fatal(err)
	}
	// Feed the generated report back in as the template.
	second, err := conv.Convert(context.Background(), Input{Notebook: f.notebook, Template: first.OutputPath})
	if err != nil {
		t.Fatalf("second Convert() error: %v", err)
	}

	if second.Pruned != 3 {
		t.Errorf("Pruned = %d, want the 3 paragraphs inserted by the first run", second.Pruned)
	}
	doc, err := docx.Open(second.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 6 {
		t.Errorf("Len() = %d, want 6 (no duplicated content)", doc.Len())
	}
	if filepath.Base(second.OutputPath) != "new-new-report.docx" {
		t.Errorf("OutputPath = %q", second.OutputPath)
	}
}

func TestConvert_OutputOverride(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCell{source: []string{"1) A"}})
	out := filepath.Join(f.dir, "final.docx")
	in := f.input()
	in.Output = out

	res, err := f.converter(t).Convert(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if res.OutputPath != out || !exists(out) {
		t.Errorf("OutputPath = %q, exists = %v", res.OutputPath, exists(out))
	}
}

func TestConvert_OutputDir(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCell{source: []string{"1) A"}})
	f.cfg.Output.Dir = t.TempDir()
	f.cfg.Output.Prefix = "final-"

	res, err := f.converter(t).Convert(context.Background(), f.input())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(f.cfg.Output.Dir, "final-report.docx"); res.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, want)
	}
}

func TestConvert_KeepArtifacts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCell{source: []string{"x"}, outputs: []map[string]any{pngOutput(docxtest.PNG(t, 5, 5))}})
	f.cfg.Artifacts.Keep = true

	if _, err := f.converter(t).Convert(context.Background(), f.input()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"1img.png", "1code.png"} {
		if !exists(filepath.Join(f.dir, "lab", name)) {
			t.Errorf("%s not kept", name)
		}
	}
}

func TestConvert_MissingAnchorIsWarning(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCell{source: []string{"1) A"}})
	f.template = docxtest.Write(t, f.dir, "bare.docx", docxtest.P("just text"))

	res, err := f.converter(t).Convert(context.Background(), f.input())
	if err != nil {
		t.Fatalf("Convert() error: %v, want success with warnings", err)
	}
	if len(res.Warnings) != 2 {
		t.Errorf("Warnings = %q, want development and code warnings", res.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestConvert - Failures leave no output
// ---------------------------------------------------------------------------

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, f *fixture) Input
		wantErr error
	}{
		{
			name:    "empty notebook path",
			setup:   func(t *testing.T, f *fixture) Input { return Input{Template: f.template} },
			wantErr: ErrEmptyNotebookPath,
		},
		{
			name:    "empty template path",
			setup:   func(t *testing.T, f *fixture) Input { return Input{Notebook: f.notebook} },
			wantErr: ErrEmptyTemplatePath,
		},
		{
			name: "malformed notebook",
			setup: func(t *testing.T, f *fixture) Input {
				if err := os.WriteFile(f.notebook, []byte("{"), 0o600); err != nil {
					t.Fatal(err)
				}
				return f.input()
			},
			wantErr: ErrNotebookParse,
		},
		{
			name: "notebook without cells",
			setup: func(t *testing.T, f *fixture) Input {
				if err := os.WriteFile(f.notebook, []byte(`{"metadata": {}}`), 0o600); err != nil {
					t.Fatal(err)
				}
				return f.input()
			},
			wantErr: ErrNoCells,
		},
		{
			name: "missing template",
			setup: func(t *testing.T, f *fixture) Input {
				in := f.input()
				in.Template = filepath.Join(f.dir, "absent.docx")
				return in
			},
			wantErr: ErrTemplateOpen,
		},
		{
			name: "template is not a document",
			setup: func(t *testing.T, f *fixture) Input {
				if err := os.WriteFile(f.template, []byte("plain text"), 0o600); err != nil {
					t.Fatal(err)
				}
				return f.input()
			},
			wantErr: ErrTemplateInvalid,
		},
		{
			name: "render failure",
			setup: func(t *testing.T, f *fixture) Input {
				f.renderer.err = ErrRenderTimeout
				return f.input()
			},
			wantErr: ErrRenderTimeout,
		},
		{
			name: "unknown heading style",
			setup: func(t *testing.T, f *fixture) Input {
				f.cfg.Document.HeadingStyle = "Subtitle"
				return f.input()
			},
			wantErr: ErrStyleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t,
				testCell{source: []string{"1) Intro"}},
				testCell{source: []string{"x"}, outputs: []map[string]any{pngOutput(docxtest.PNG(t, 5, 5))}},
			)
			in := tt.setup(t, f)

			_, err := f.converter(t).Convert(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if exists(filepath.Join(f.dir, "new-report.docx")) {
				t.Error("output written despite failure")
			}
			if exists(filepath.Join(f.dir, "lab")) {
				t.Error("artifact directory left behind")
			}
		})
	}
}

func TestConvert_Cancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testCell{source: []string{"x"}, outputs: []map[string]any{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.converter(t).Convert(ctx, f.input())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter
// ---------------------------------------------------------------------------

func TestNewConverter_Renderers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode  string
		check func(CodeRenderer) bool
	}{
		{mode: "local", check: func(r CodeRenderer) bool { _, ok := r.(*localRenderer); return ok }},
		{mode: "remote", check: func(r CodeRenderer) bool { _, ok := r.(*remoteRenderer); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.Render.Mode = tt.mode
			conv, err := NewConverter(WithConfig(cfg))
			if err != nil {
				t.Fatalf("NewConverter() error: %v", err)
			}
			defer conv.Close()
			if !tt.check(conv.renderer) {
				t.Errorf("renderer = %T", conv.renderer)
			}
		})
	}
}

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Output.Prefix = ""
		if _, err := NewConverter(WithConfig(cfg)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Render.Theme = "no-such-theme"
		_, err := NewConverter(WithConfig(cfg))
		if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, pipeline.ErrUnknownTheme) {
			t.Errorf("error = %v, want ErrInvalidConfig wrapping ErrUnknownTheme", err)
		}
	})
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	r := &stubRenderer{}
	conv, err := NewConverter(WithCodeRenderer(r))
	if err != nil {
		t.Fatal(err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !r.closed {
		t.Error("renderer not closed")
	}
}

func TestWithConfig_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithConfig(nil) did not panic")
		}
	}()
	WithConfig(nil)
}
