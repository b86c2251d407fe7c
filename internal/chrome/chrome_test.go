package chrome

import (
	"context"
	"testing"

	u "htmlpdf/internal/utils"
)

func testConfig() u.Config {
	var cfg u.Config
	cfg.PDF.ChromePath = "/definitely/missing/chrome"
	cfg.PDF.ChromeNoSandbox = true
	cfg.PDF.TimeoutSecs = 5
	return cfg
}

func TestNewRenderer_ConcurrencyCap(t *testing.T) {
	unbounded := NewRenderer(u.Config{})
	if unbounded.sem != nil {
		t.Fatalf("expected no semaphore when max_concurrent is 0")
	}

	cfg := u.Config{}
	cfg.PDF.MaxConcurrent = 2
	capped := NewRenderer(cfg)
	if capped.sem == nil {
		t.Fatalf("expected semaphore when max_concurrent is set")
	}
}

func TestRender_MissingBrowserBinaryFails(t *testing.T) {
	r := NewRenderer(testConfig())
	defer r.Close()

	if _, err := r.Render(context.Background(), "<html><body>hello</body></html>"); err == nil {
		t.Fatalf("expected render error for missing chrome binary")
	}
}

func TestRender_SemaphoreRespectsContext(t *testing.T) {
	cfg := testConfig()
	cfg.PDF.MaxConcurrent = 1
	r := NewRenderer(cfg)
	defer r.Close()

	// Hold the only slot, then a canceled context must fail fast without
	// ever touching the browser.
	if !r.sem.TryAcquire(1) {
		t.Fatalf("expected to acquire free slot")
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, "<html></html>"); err == nil {
		t.Fatalf("expected context error while waiting for render slot")
	}
}

func TestClose_WithoutRenderIsSafe(t *testing.T) {
	r := NewRenderer(u.Config{})
	r.Close()
}
