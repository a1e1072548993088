package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrCardRender indicates the card page template failed to execute.
var ErrCardRender = errors.New("card template rendering failed")

// CardSelector is the element the local renderer screenshots.
// Card templates must contain exactly one element with this id.
const CardSelector = "#card"

// CardData feeds the card page template.
type CardData struct {
	CSS        template.CSS
	Background template.CSS
	Foreground template.CSS
	Code       template.HTML // highlighted fragment from CodeConverter
	Language   string
}

// CardPage renders the HTML page holding one highlighted code card.
type CardPage struct {
	tmpl *template.Template
}

// NewCardPage parses the card template.
func NewCardPage(tmplContent string) (*CardPage, error) {
	tmpl, err := template.New("card").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing card template: %w", err)
	}
	return &CardPage{tmpl: tmpl}, nil
}

// Render executes the template.
func (c *CardPage) Render(ctx context.Context, data *CardData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: nil data", ErrCardRender)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	return buf.String(), nil
}

// CodeCard highlights code and places it into a complete card page.
func CodeCard(ctx context.Context, conv *CodeConverter, page *CardPage, css, code string) (string, error) {
	fragment, err := conv.ToHTML(ctx, code)
	if err != nil {
		return "", err
	}
	colors := conv.Colors()
	return page.Render(ctx, &CardData{
		CSS:        template.CSS(css),               // #nosec G203 -- stylesheet comes from embedded or operator-provided assets
		Background: template.CSS(colors.Background), // #nosec G203 -- chroma colour string
		Foreground: template.CSS(colors.Foreground), // #nosec G203 -- chroma colour string
		Code:       template.HTML(fragment),         // #nosec G203 -- goldmark output, raw HTML disabled
		Language:   conv.language,
	})
}
