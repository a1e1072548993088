package nb2docx

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-nb2docx/internal/config"
)

// Input names the files of one conversion.
type Input struct {
	Notebook string // .ipynb path (required)
	Template string // .docx path (required)
	Output   string // optional; default <output dir or template dir>/<prefix><template name>
}

// Validate checks that required fields are present.
func (in Input) Validate() error {
	if in.Notebook == "" {
		return ErrEmptyNotebookPath
	}
	if in.Template == "" {
		return ErrEmptyTemplatePath
	}
	return nil
}

// outputPath resolves where the report is written.
func (in Input) outputPath(out config.OutputConfig) string {
	if in.Output != "" {
		return in.Output
	}
	dir := out.Dir
	if dir == "" {
		dir = filepath.Dir(in.Template)
	}
	return filepath.Join(dir, out.Prefix+filepath.Base(in.Template))
}

// Result summarizes a conversion.
type Result struct {
	OutputPath   string
	Headings     int // heading paragraphs inserted in the development section
	OutputImages int // output pictures inserted in the development section
	CodeImages   int // code pictures inserted in the code section
	Pruned       int // stale paragraphs removed
	Warnings     []string
}

// String renders the counts on one line.
func (r *Result) String() string {
	return fmt.Sprintf("%d headings, %d output images, %d code images, %d paragraphs pruned",
		r.Headings, r.OutputImages, r.CodeImages, r.Pruned)
}

// Config holds every report setting: anchors, output naming, document
// formatting, code rendering and artifact handling.
type Config = config.Config

// DefaultConfig returns the settings used when WithConfig is not given.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig reads a YAML config by path or by name (name.yaml in the
// working directory or the user config directory). Absent keys keep their
// default values.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// Option configures a Converter.
type Option func(*Converter)

// WithConfig replaces the default configuration.
// Panics if cfg is nil (programmer error).
func WithConfig(cfg *Config) Option {
	if cfg == nil {
		panic("nb2docx: WithConfig config must not be nil")
	}
	return func(c *Converter) {
		c.cfg = cfg
	}
}

// WithLogger sets the logger for warnings and progress. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCodeRenderer replaces the browser-backed renderer chosen by
// render.mode. The Converter closes it in Close.
func WithCodeRenderer(r CodeRenderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}
