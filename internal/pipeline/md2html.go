package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for code conversion.
var (
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrUnknownTheme    = errors.New("unknown highlighting theme")
	ErrUnknownLanguage = errors.New("unknown source language")
)

// HTMLConverter abstracts source code to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, code string) (string, error)
}

// Colors holds the card colors taken from the highlighting theme.
type Colors struct {
	Background string
	Foreground string
}

// CodeConverter highlights source code through a goldmark fenced block.
type CodeConverter struct {
	md       goldmark.Markdown
	language string
	colors   Colors
}

// NewCodeConverter creates a CodeConverter for a chroma theme and language.
// Both names are checked against chroma's registries so a typo fails
// before any browser work starts.
func NewCodeConverter(theme, language string) (*CodeConverter, error) {
	style, ok := styles.Registry[strings.ToLower(theme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	if lexers.Get(language) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithCustomStyle(style),
				highlighting.WithGuessLanguage(false),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles, the card page has no theme stylesheet
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &CodeConverter{md: md, language: language, colors: styleColors(style)}, nil
}

// Colors returns the theme's background and foreground.
func (c *CodeConverter) Colors() Colors {
	return c.colors
}

func styleColors(style *chroma.Style) Colors {
	entry := style.Get(chroma.Background)
	colors := Colors{Background: "#ffffff", Foreground: "#000000"}
	if entry.Background.IsSet() {
		colors.Background = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		colors.Foreground = entry.Colour.String()
	}
	return colors
}

// ToHTML returns the highlighted <pre> fragment for code.
// Goldmark has no context support, so conversion runs in a goroutine
// and the caller may stop waiting on cancellation.
func (c *CodeConverter) ToHTML(ctx context.Context, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)
	source := fencedBlock(PrepareCode(code), c.language)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(source), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// fencedBlock wraps code in a backtick fence longer than any backtick run
// inside it, so the code can never close its own block.
func fencedBlock(code, language string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", max(3, longest+1))

	var b strings.Builder
	b.Grow(len(code) + 2*len(fence) + len(language) + 3)
	b.WriteString(fence)
	b.WriteString(language)
	b.WriteByte('\n')
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(fence)
	b.WriteByte('\n')
	return b.String()
}
