package graph

import (
	"fmt"

	"github.com/fyrsmithlabs/curvesim/internal/render"
)

// session holds the per-task rendering state: the figure, an explicit
// cursor over its panels, and the task-level legend. A session is
// created by BeforeTask and dropped by AfterTask; the callback itself
// stays free of task state between tasks.
type session struct {
	layout gridLayout
	figure render.Figure
	panels *panelCursor
	legend render.Legend
}

func newSession(layout gridLayout, figure render.Figure) *session {
	return &session{
		layout: layout,
		figure: figure,
		panels: &panelCursor{panels: figure.Panels()},
	}
}

// captureLegend stores the first panel legend seen for the task. Every
// panel is configured with identical series semantics, so the first
// panel's legend is representative (first-panel-wins).
func (s *session) captureLegend(legend render.Legend) {
	if s.legend == nil {
		s.legend = legend
	}
}

// panelCursor walks a pre-sized ordered panel sequence exactly once.
type panelCursor struct {
	panels []render.Panel
	next   int
}

// Next returns the next panel in row-major order. Requesting more
// panels than the grid holds fails with ErrPanelsExhausted; the cursor
// never wraps around.
func (c *panelCursor) Next() (render.Panel, error) {
	if c.next >= len(c.panels) {
		return nil, fmt.Errorf("%w: %d panels allocated", ErrPanelsExhausted, len(c.panels))
	}
	p := c.panels[c.next]
	c.next++
	return p, nil
}

// Taken returns how many panels have been handed out.
func (c *panelCursor) Taken() int {
	return c.next
}
