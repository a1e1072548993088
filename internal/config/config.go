package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-nb2docx/internal/fileutil"
	"github.com/alnah/go-nb2docx/internal/textnorm"
	"github.com/alnah/go-nb2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAnchorLength   = 100
	MaxPrefixLength   = 50
	MaxStyleLength    = 100
	MaxPathLength     = 4096
	MaxURLLength      = 8192 // carbon URLs embed their whole state
	MaxSelectorLength = 1024
	MaxNameLength     = 50 // theme and language names
)

// Render modes.
const (
	RenderLocal  = "local"
	RenderRemote = "remote"
)

// Image width bounds in inches.
const (
	MinImageWidth = 0.5
	MaxImageWidth = 20
)

// Default values, matching the reports the tool was first written for.
const (
	DefaultDevelopmentAnchor = "desarrollo"
	DefaultCodeAnchor        = "código"
	DefaultConclusionsAnchor = "conclusiones"
	DefaultPrefix            = "new-"
	DefaultHeadingStyle      = "Heading 2"
	DefaultImageWidth        = 3.0
	DefaultTheme             = "monokai"
	DefaultLanguage          = "python"
	DefaultTimeout           = "30s"
	DefaultReadyTimeout      = "1s"
	DefaultRemoteURL         = "https://carbon.now.sh/?bg=rgba%2887%2C136%2C178%2C0%29&t=monokai&wt=none&l=python&width=680&ds=true&dsyoff=20px&dsblur=68px&wc=true&wa=true&pv=56px&ph=56px&ln=false&fl=1&fm=Hack&fs=14px&lh=133%25&si=false&es=2x&wm=false"
	DefaultEditorSelector    = "#export-container > div > div.react-codemirror2.CodeMirror__container.window-theme__none > div > div.CodeMirror-scroll > div.CodeMirror-sizer > div"
	DefaultExportSelector    = "#__next > main > div.jsx-1200824569.page > div.jsx-2146564046.editor > div.jsx-e3415c9b8e46575.toolbar > div.jsx-2146564046.toolbar-second-row > div.jsx-2146564046.share-buttons > div.jsx-3153731481.export-menu-container > div > button.jsx-2184717013"
)

// Config holds all configuration for report generation.
type Config struct {
	Anchors   AnchorsConfig   `yaml:"anchors"`
	Output    OutputConfig    `yaml:"output"`
	Document  DocumentConfig  `yaml:"document"`
	Render    RenderConfig    `yaml:"render"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

// AnchorsConfig names the template paragraphs that delimit the report sections.
type AnchorsConfig struct {
	Development string `yaml:"development"`
	Code        string `yaml:"code"`
	Conclusions string `yaml:"conclusions"`
}

// OutputConfig controls where the assembled report is written.
type OutputConfig struct {
	Prefix string `yaml:"prefix"` // prepended to the template file name
	Dir    string `yaml:"dir"`    // empty = next to the template
}

// DocumentConfig controls how inserted paragraphs look.
type DocumentConfig struct {
	HeadingStyle   string  `yaml:"headingStyle"`   // style name as shown in Word
	ImageWidth     float64 `yaml:"imageWidth"`     // inches
	MaxImagePixels int     `yaml:"maxImagePixels"` // 0 = keep output images as produced
	PlainHeadings  bool    `yaml:"plainHeadings"`  // strip inline Markdown from headings
}

// RenderConfig controls how code images are produced.
type RenderConfig struct {
	Mode           string `yaml:"mode"` // "local" or "remote"
	Theme          string `yaml:"theme"`
	Language       string `yaml:"language"`
	Timeout        string `yaml:"timeout"`      // per-cell render budget
	ReadyTimeout   string `yaml:"readyTimeout"` // remote page readiness wait
	Headless       bool   `yaml:"headless"`
	URL            string `yaml:"url"`
	EditorSelector string `yaml:"editorSelector"`
	ExportSelector string `yaml:"exportSelector"`
	AssetsDir      string `yaml:"assetsDir"` // custom card template and styles, empty = embedded
}

// ArtifactsConfig controls the per-run image directory.
type ArtifactsConfig struct {
	Dir  string `yaml:"dir"`  // parent of the per-notebook directory, empty = working dir
	Keep bool   `yaml:"keep"` // skip removal at end of run
}

// TimeoutDuration returns the parsed render timeout. Call after Validate.
func (r RenderConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(r.Timeout)
	return d
}

// ReadyTimeoutDuration returns the parsed readiness timeout. Call after Validate.
func (r RenderConfig) ReadyTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(r.ReadyTimeout)
	return d
}

// Validate checks field lengths, ranges and enumerations.
// Called automatically by LoadConfig; callers that build a Config by hand
// (flags, env vars) should call it again after merging.
func (c *Config) Validate() error {
	anchors := []struct {
		field string
		value string
	}{
		{"anchors.development", c.Anchors.Development},
		{"anchors.code", c.Anchors.Code},
		{"anchors.conclusions", c.Anchors.Conclusions},
	}
	seen := make(map[string]string, len(anchors))
	for _, a := range anchors {
		if err := validateFieldLength(a.field, a.value, MaxAnchorLength); err != nil {
			return err
		}
		key := textnorm.Normalize(a.value)
		if key == "" {
			return fmt.Errorf("%w: %s: must not be blank", ErrInvalidValue, a.field)
		}
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s: same text as %s", ErrInvalidValue, a.field, other)
		}
		seen[key] = a.field
	}

	if err := validateFieldLength("output.prefix", c.Output.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if c.Output.Prefix == "" {
		return fmt.Errorf("%w: output.prefix: must not be empty (would overwrite the template)", ErrInvalidValue)
	}
	if fileutil.IsFilePath(c.Output.Prefix) {
		return fmt.Errorf("%w: output.prefix: must not contain path separators", ErrInvalidValue)
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("document.headingStyle", c.Document.HeadingStyle, MaxStyleLength); err != nil {
		return err
	}
	if strings.TrimSpace(c.Document.HeadingStyle) == "" {
		return fmt.Errorf("%w: document.headingStyle: must not be empty", ErrInvalidValue)
	}
	if c.Document.ImageWidth < MinImageWidth || c.Document.ImageWidth > MaxImageWidth {
		return fmt.Errorf("%w: document.imageWidth: must be between %.1f and %.1f inches, got %.2f",
			ErrInvalidValue, MinImageWidth, MaxImageWidth, c.Document.ImageWidth)
	}
	if c.Document.MaxImagePixels < 0 {
		return fmt.Errorf("%w: document.maxImagePixels: must not be negative, got %d", ErrInvalidValue, c.Document.MaxImagePixels)
	}

	return c.Render.validate()
}

func (r *RenderConfig) validate() error {
	switch strings.ToLower(r.Mode) {
	case RenderLocal, RenderRemote:
	default:
		return fmt.Errorf("%w: render.mode: %q (must be local or remote)", ErrInvalidValue, r.Mode)
	}
	if err := validateFieldLength("render.theme", r.Theme, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.language", r.Language, MaxNameLength); err != nil {
		return err
	}
	if err := validatePositiveDuration("render.timeout", r.Timeout); err != nil {
		return err
	}
	if err := validatePositiveDuration("render.readyTimeout", r.ReadyTimeout); err != nil {
		return err
	}
	if err := validateFieldLength("render.url", r.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.editorSelector", r.EditorSelector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.exportSelector", r.ExportSelector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.assetsDir", r.AssetsDir, MaxPathLength); err != nil {
		return err
	}
	if strings.EqualFold(r.Mode, RenderRemote) {
		if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
			return fmt.Errorf("%w: render.url: remote mode needs an http(s) URL, got %q", ErrInvalidValue, r.URL)
		}
		if r.EditorSelector == "" || r.ExportSelector == "" {
			return fmt.Errorf("%w: render: remote mode needs editorSelector and exportSelector", ErrInvalidValue)
		}
	}
	return nil
}

func validatePositiveDuration(field, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidValue, field, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Anchors: AnchorsConfig{
			Development: DefaultDevelopmentAnchor,
			Code:        DefaultCodeAnchor,
			Conclusions: DefaultConclusionsAnchor,
		},
		Output: OutputConfig{Prefix: DefaultPrefix},
		Document: DocumentConfig{
			HeadingStyle:  DefaultHeadingStyle,
			ImageWidth:    DefaultImageWidth,
			PlainHeadings: true,
		},
		Render: RenderConfig{
			Mode:           RenderLocal,
			Theme:          DefaultTheme,
			Language:       DefaultLanguage,
			Timeout:        DefaultTimeout,
			ReadyTimeout:   DefaultReadyTimeout,
			Headless:       true,
			URL:            DefaultRemoteURL,
			EditorSelector: DefaultEditorSelector,
			ExportSelector: DefaultExportSelector,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as a path; otherwise it is
// searched by name (see CandidatePaths). Keys absent from the file keep
// their DefaultConfig values. There is no silent fallback when the file is
// missing.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, suitable for a starting config file.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// CandidatePaths lists where a config called name is looked up, in order:
// the working directory, then the user config directory (go-nb2docx/).
func CandidatePaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-nb2docx", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := CandidatePaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
