// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/config"
)

// Session owns one headless browser tab. All methods combine the caller's
// context with the session's master context so the tab dies with the session
// even when an operation outlives its own deadline.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
	logger      *zap.Logger
}

// NewSession launches a browser and opens a fresh tab. The parent context
// bounds the session's whole lifetime.
func NewSession(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Materialize the browser process now so startup failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("browser: failed to start: %w", err)
	}

	return &Session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		navTimeout:  cfg.NavigationTimeout,
		logger:      logger.Named("browser"),
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// run executes chromedp actions against the session tab, honoring the
// caller's deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(combined, actions...)
}

// Navigate loads a URL and waits for the document body.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.navTimeout)
		defer cancel()
	}
	s.logger.Info("Navigating", zap.String("url", url))
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: navigation to %s failed: %w", url, err)
	}
	return nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("browser: screenshot failed: %w", err)
	}
	return buf, nil
}

// Viewport returns the CSS viewport size in pixels.
func (s *Session) Viewport(ctx context.Context) (width, height float64, err error) {
	err = s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, cssViewport, _, _, err := page.GetLayoutMetrics().Do(ctx)
		if err != nil {
			return err
		}
		if cssViewport == nil {
			return fmt.Errorf("layout metrics returned no CSS viewport")
		}
		width = float64(cssViewport.ClientWidth)
		height = float64(cssViewport.ClientHeight)
		return nil
	}))
	if err != nil {
		return 0, 0, fmt.Errorf("browser: viewport query failed: %w", err)
	}
	return width, height, nil
}
