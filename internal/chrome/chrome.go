package chrome

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	u "htmlpdf/internal/utils"
)

// Renderer drives a shared headless Chromium instance. The browser starts
// lazily on the first render and is reused by every later request, each
// request in its own tab.
type Renderer struct {
	cfg u.Config

	// sem caps simultaneous renders when pdf.max_concurrent > 0. A nil
	// sem leaves the render count unbounded.
	sem *semaphore.Weighted

	initOnce      sync.Once
	initErr       error
	profileDir    string
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewRenderer creates a Renderer from the given configuration. The browser
// is not launched until the first Render call.
func NewRenderer(cfg u.Config) *Renderer {
	r := &Renderer{cfg: cfg}
	if cfg.PDF.MaxConcurrent > 0 {
		r.sem = semaphore.NewWeighted(int64(cfg.PDF.MaxConcurrent))
	}
	return r
}

func (r *Renderer) ensureBrowser() error {
	r.initOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "chromedata-*")
		if err != nil {
			r.initErr = fmt.Errorf("cannot create temp profile dir: %w", err)
			return
		}
		r.profileDir = tmpDir

		allocatorOptions := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.UserDataDir(tmpDir),
			// Force software rendering and avoid Vulkan/ANGLE issues in minimal container environments.
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-gpu-compositing", true),
			chromedp.Flag("disable-features", "Vulkan,UseSkiaRenderer"),
			chromedp.Flag("use-gl", "swiftshader"),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if r.cfg.PDF.ChromePath != "" {
			allocatorOptions = append(allocatorOptions, chromedp.ExecPath(r.cfg.PDF.ChromePath))
		}
		if r.cfg.PDF.ChromeNoSandbox {
			allocatorOptions = append(allocatorOptions, chromedp.Flag("no-sandbox", true))
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions...)
		r.allocCancel = allocCancel
		r.browserCtx, r.browserCancel = chromedp.NewContext(allocCtx)
	})
	return r.initErr
}

// Render converts html to PDF bytes. No deadline is applied unless
// pdf.timeout_secs is set; the call blocks for as long as Chromium takes.
func (r *Renderer) Render(ctx context.Context, html string) ([]byte, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer r.sem.Release(1)
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()

	if r.cfg.PDF.TimeoutSecs > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, time.Duration(r.cfg.PDF.TimeoutSecs)*time.Second)
		defer cancelTimeout()
	}

	var pdfBuf []byte
	actions := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	}

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// Close tears down the shared browser and its temporary profile. Safe to
// call even if no render ever ran.
func (r *Renderer) Close() {
	if r.browserCancel != nil {
		r.browserCancel()
	}
	if r.allocCancel != nil {
		r.allocCancel()
	}
	if r.profileDir != "" {
		_ = os.RemoveAll(r.profileDir)
	}
}
