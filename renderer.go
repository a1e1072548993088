package nb2docx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-nb2docx/internal/assets"
	"github.com/alnah/go-nb2docx/internal/config"
	"github.com/alnah/go-nb2docx/internal/fileutil"
	"github.com/alnah/go-nb2docx/internal/hints"
	"github.com/alnah/go-nb2docx/internal/pipeline"
	"github.com/alnah/go-nb2docx/internal/process"
)

// CodeRenderer turns cell source into a PNG picture of the code.
type CodeRenderer interface {
	Render(ctx context.Context, code string) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ CodeRenderer = (*localRenderer)(nil)
	_ CodeRenderer = (*remoteRenderer)(nil)
)

// Card viewport. The scale factor doubles the screenshot resolution so the
// code stays sharp once Word scales the picture down.
const (
	viewportWidth  = 1200
	viewportHeight = 800
	viewportScale  = 2
)

// browserSession is a headless Chrome launched on first use.
// Rod downloads Chromium on first run if none is found.
type browserSession struct {
	headless bool
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// ensure lazily launches and connects to the browser.
func (s *browserSession) ensure() (*rod.Browser, error) {
	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().Headless(s.headless)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		s.launcher = l
		s.stop()
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	s.launcher = l
	s.browser = b
	return b, nil
}

// close disconnects from the browser and kills its process tree.
func (s *browserSession) close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.stop()
	return err
}

func (s *browserSession) stop() {
	if s.launcher == nil {
		return
	}
	// Chrome leads its own process group, so one kill reaches the helpers.
	if err := process.KillTree(s.launcher.PID()); err != nil {
		s.launcher.Kill()
	}
	s.launcher.Cleanup()
	s.launcher = nil
}

// newPage opens a blank tab bound to ctx.
func (s *browserSession) newPage(ctx context.Context) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.ensure()
	if err != nil {
		return nil, err
	}
	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page.Context(ctx), nil
}

// classify wraps err with sentinel unless the failure came from a deadline,
// which is reported as ErrRenderTimeout. Cancellation is returned as is.
func classify(ctx context.Context, err error, sentinel error) error {
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v%s", ErrRenderTimeout, err, hints.ForTimeout())
	default:
		return fmt.Errorf("%w: %v", sentinel, err)
	}
}

// NewCodeRenderer builds the renderer selected by cfg.Mode.
func NewCodeRenderer(cfg config.RenderConfig) (CodeRenderer, error) {
	if strings.EqualFold(cfg.Mode, config.RenderRemote) {
		return newRemoteRenderer(cfg), nil
	}
	return newLocalRenderer(cfg)
}

// localRenderer highlights code into an HTML card and screenshots it in
// headless Chrome. Nothing leaves the machine.
type localRenderer struct {
	session browserSession
	conv    *pipeline.CodeConverter
	page    *pipeline.CardPage
	css     string
	timeout time.Duration
}

func newLocalRenderer(cfg config.RenderConfig) (*localRenderer, error) {
	conv, err := pipeline.NewCodeConverter(cfg.Theme, cfg.Language)
	if err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(cfg.AssetsDir)
	if err != nil {
		return nil, err
	}
	card, err := assets.LoadCard(resolver)
	if err != nil {
		return nil, err
	}
	page, err := pipeline.NewCardPage(card.Template)
	if err != nil {
		return nil, err
	}

	return &localRenderer{
		session: browserSession{headless: cfg.Headless},
		conv:    conv,
		page:    page,
		css:     card.CSS,
		timeout: cfg.TimeoutDuration(),
	}, nil
}

// Render screenshots the card element of the page built for code.
func (r *localRenderer) Render(ctx context.Context, code string) ([]byte, error) {
	html, err := pipeline.CodeCard(ctx, r.conv, r.page, r.css, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeRender, err)
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeRender, err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.session.newPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: viewportScale,
	}); err != nil {
		return nil, classify(ctx, err, ErrPageCreate)
	}
	if err := page.Navigate("file://" + filepath.ToSlash(path)); err != nil {
		return nil, classify(ctx, err, ErrPageLoad)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, classify(ctx, err, ErrPageLoad)
	}

	el, err := page.Element(pipeline.CardSelector)
	if err != nil {
		return nil, classify(ctx, err, ErrSelectorNotFound)
	}
	img, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, classify(ctx, err, ErrCodeRender)
	}
	return img, nil
}

// Close releases browser resources.
func (r *localRenderer) Close() error {
	return r.session.close()
}

// remoteRenderer drives a carbon-style web editor: type the code, press
// export, collect the downloaded PNG.
type remoteRenderer struct {
	session        browserSession
	url            string
	editorSelector string
	exportSelector string
	timeout        time.Duration
	readyTimeout   time.Duration
}

func newRemoteRenderer(cfg config.RenderConfig) *remoteRenderer {
	return &remoteRenderer{
		session:        browserSession{headless: cfg.Headless},
		url:            cfg.URL,
		editorSelector: cfg.EditorSelector,
		exportSelector: cfg.ExportSelector,
		timeout:        cfg.TimeoutDuration(),
		readyTimeout:   cfg.ReadyTimeoutDuration(),
	}
}

// Render replaces the editor content with code and returns the export.
func (r *remoteRenderer) Render(ctx context.Context, code string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.session.newPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Navigate(r.url); err != nil {
		return nil, classify(ctx, err, ErrPageLoad)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, classify(ctx, err, ErrPageLoad)
	}

	editor, err := r.waitElement(page, r.editorSelector)
	if err != nil {
		return nil, err
	}
	if err := editor.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, classify(ctx, err, ErrCodeRender)
	}
	if err := page.KeyActions().Press(input.ControlLeft).Type(input.KeyA).Do(); err != nil {
		return nil, classify(ctx, err, ErrCodeRender)
	}
	if err := page.InsertText(code); err != nil {
		return nil, classify(ctx, err, ErrCodeRender)
	}

	exportBtn, err := r.waitElement(page, r.exportSelector)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "nb2docx-download-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	b, err := r.session.ensure()
	if err != nil {
		return nil, err
	}
	wait := b.Context(ctx).WaitDownload(dir)

	if err := exportBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, classify(ctx, err, ErrDownload)
	}

	info := wait()
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, err, ErrDownload)
	}
	if info == nil || info.GUID == "" {
		return nil, fmt.Errorf("%w: no download started", ErrDownload)
	}

	data, err := os.ReadFile(filepath.Join(dir, info.GUID)) // #nosec G304 -- name assigned by the browser inside our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return data, nil
}

// waitElement waits at most readyTimeout for selector to appear.
func (r *remoteRenderer) waitElement(page *rod.Page, selector string) (*rod.Element, error) {
	ctx := page.GetContext()
	p := page.Timeout(r.readyTimeout)
	el, err := p.Element(selector)
	p.CancelTimeout()
	if err != nil {
		if ctx.Err() != nil {
			return nil, classify(ctx, ctx.Err(), ErrSelectorNotFound)
		}
		return nil, fmt.Errorf("%w: %v%s", ErrSelectorNotFound, err, hints.ForSelectorNotFound(selector))
	}
	// Back to the render deadline for the following actions.
	return el.Context(ctx), nil
}

// Close releases browser resources.
func (r *remoteRenderer) Close() error {
	return r.session.close()
}
