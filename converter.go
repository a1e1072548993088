package nb2docx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-nb2docx/internal/config"
	"github.com/alnah/go-nb2docx/internal/docx"
)

// Converter assembles reports from notebooks and templates.
// Create with NewConverter, use Convert for each report, and Close when done.
type Converter struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer CodeRenderer
}

// NewConverter creates a Converter. Without options it uses
// config.DefaultConfig and the local code renderer.
// The browser is not started until the first code image is rendered.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.renderer == nil {
		r, err := NewCodeRenderer(c.cfg.Render)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.renderer = r
	}
	return c, nil
}

// Convert reads the notebook, renders its artifacts, fills the template
// and writes the report. Nothing is written unless every step succeeds.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	nb, err := ReadNotebook(input.Notebook)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("notebook read", "path", input.Notebook, "cells", len(nb.Cells))

	doc, err := openTemplate(input.Template)
	if err != nil {
		return nil, err
	}

	store, err := NewArtifactStore(c.cfg.Artifacts.Dir, input.Notebook)
	if err != nil {
		return nil, err
	}
	if !c.cfg.Artifacts.Keep {
		defer func() {
			if rmErr := store.Remove(); rmErr != nil {
				c.logger.Warn("artifact directory not removed", "dir", store.Dir(), "error", rmErr)
			}
		}()
	}

	body := nb.Body()
	producer := newStoreProducer(store, c.renderer, c.cfg.Document.MaxImagePixels)
	if err := produceArtifacts(ctx, producer, body, c.logger); err != nil {
		return nil, err
	}

	result = &Result{OutputPath: input.outputPath(c.cfg.Output)}
	a := &assembly{
		doc:       doc,
		artifacts: store,
		anchors: Anchors{
			Development: c.cfg.Anchors.Development,
			Code:        c.cfg.Anchors.Code,
			Conclusions: c.cfg.Anchors.Conclusions,
		},
		headingStyle:  c.cfg.Document.HeadingStyle,
		plainHeadings: c.cfg.Document.PlainHeadings,
		imageWidth:    int64(c.cfg.Document.ImageWidth * docx.EMUPerInch),
		logger:        c.logger,
		result:        result,
	}
	if err := a.run(ctx, body); err != nil {
		return nil, err
	}

	if err := doc.Save(result.OutputPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	c.logger.Info("report written", "path", result.OutputPath, "summary", result.String())
	return result, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// openTemplate loads the template, telling an unreadable file apart from
// one that is not a word-processing document.
func openTemplate(path string) (*docx.Document, error) {
	doc, err := docx.Open(path)
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, docx.ErrNotDocx) || errors.Is(err, docx.ErrMalformedXML) {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateInvalid, path, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrTemplateOpen, err)
}

// produceArtifacts creates every image the passes will read: {index}img for
// output cells whose first output carries a PNG, {index}code for every
// output cell. Cells are processed one at a time in order.
func produceArtifacts(ctx context.Context, p Producer, cells []Cell, logger *slog.Logger) error {
	for _, cell := range cells {
		if !cell.HasOutput {
			continue
		}
		if cell.OutputImage != nil {
			if _, err := p.Produce(ctx, cell.Index, RoleImage, cell.OutputImage); err != nil {
				return err
			}
		}
		path, err := p.Produce(ctx, cell.Index, RoleCode, []byte(cell.CodeText()))
		if err != nil {
			return err
		}
		logger.Debug("artifacts produced", "cell", cell.Index, "code", path)
	}
	return nil
}
