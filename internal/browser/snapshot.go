// internal/browser/snapshot.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/grounding"
)

// Element is one interactive element captured from the live page. It is a
// plain value snapshot: mutating the page afterwards does not change it.
type Element struct {
	Tag  string         `json:"tag"`
	Text string         `json:"text"`
	Rect grounding.Rect `json:"rect"`
}

// ViewportRect satisfies grounding.Candidate.
func (e Element) ViewportRect() grounding.Rect { return e.Rect }

// String renders a short label used in logs.
func (e Element) String() string {
	text := e.Text
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Sprintf("<%s> %q @ (%.0f,%.0f %.0fx%.0f)", e.Tag, text, e.Rect.X, e.Rect.Y, e.Rect.Width, e.Rect.Height)
}

// collectElementsJS gathers visible interactive elements with their viewport
// rectangles. It runs in the page; only JSON-friendly values cross back.
const collectElementsJS = `(() => {
	const selector = 'a, button, input, select, textarea, summary, ' +
		'[role="button"], [role="link"], [role="checkbox"], [role="tab"], ' +
		'[role="menuitem"], [onclick], [contenteditable="true"]';
	const out = [];
	for (const el of document.querySelectorAll(selector)) {
		const r = el.getBoundingClientRect();
		if (r.width <= 0 || r.height <= 0) continue;
		if (r.bottom < 0 || r.right < 0 ||
			r.top > window.innerHeight || r.left > window.innerWidth) continue;
		const style = window.getComputedStyle(el);
		if (style.visibility === 'hidden' || style.display === 'none') continue;
		out.push({
			tag: el.tagName.toLowerCase(),
			text: (el.innerText || el.value || el.getAttribute('aria-label') || '').trim().slice(0, 100),
			rect: { X: r.x, Y: r.y, Width: r.width, Height: r.height },
		});
	}
	return out;
})()`

// Candidates snapshots the interactive elements currently visible in the
// viewport.
func (s *Session) Candidates(ctx context.Context) ([]Element, error) {
	var elements []Element
	if err := s.run(ctx, chromedp.Evaluate(collectElementsJS, &elements)); err != nil {
		return nil, fmt.Errorf("browser: element snapshot failed: %w", err)
	}
	s.logger.Debug("Captured element snapshot", zap.Int("count", len(elements)))
	return elements, nil
}
