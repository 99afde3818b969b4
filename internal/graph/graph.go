// Package graph implements the task/strategy orchestration callback: it
// bridges per-strategy metric aggregators into a grid figure with one
// panel per simulation instance, computed ahead of time from task
// metadata, and persists the figure when the task ends.
package graph

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
	"github.com/fyrsmithlabs/curvesim/internal/render"
)

// GraphCallback renders one figure per task: a near-square grid of
// panels, one per (model, metric, eval-set, strategy-config)
// combination, each showing the series an aggregator collected during
// that strategy run.
//
// The callback is long-lived and owns no task state between tasks; all
// per-task state lives in a session created by BeforeTask. Lifecycle
// calls must arrive strictly sequentially from one task driver.
type GraphCallback struct {
	spec     callback.AggregatorSpec
	renderer render.Renderer
	path     string
	hint     render.SizeHint
	logger   *zap.Logger

	session *session
	results *callback.Results
	detach  func()
}

// Option configures a GraphCallback.
type Option func(*GraphCallback)

// WithOutputPath sets the directory the figure is persisted into.
// Without it AfterTask fails with ErrNoOutputPath.
func WithOutputPath(path string) Option {
	return func(c *GraphCallback) { c.path = path }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *GraphCallback) { c.logger = logger }
}

// WithSizeHint overrides the per-panel size hint passed to the renderer.
func WithSizeHint(hint render.SizeHint) Option {
	return func(c *GraphCallback) { c.hint = hint }
}

// New creates a GraphCallback for one aggregator family. The spec is a
// constructor, not an instance: every strategy run gets a fresh
// aggregator bound to a fresh accumulator.
func New(spec callback.AggregatorSpec, renderer render.Renderer, opts ...Option) *GraphCallback {
	c := &GraphCallback{
		spec:     spec,
		renderer: renderer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("graph")
	return c
}

// SaveArtifacts reports that this callback writes figure files. Task
// drivers may skip it on large workloads.
func (c *GraphCallback) SaveArtifacts() bool { return true }

// BeforeTask computes the grid layout from the task metadata and
// allocates the figure and panel cursor for the task.
func (c *GraphCallback) BeforeTask(curveData callback.CurveData, strategies callback.Strategies, filters callback.Filters) error {
	layout := computeLayout(curveData, strategies, filters)
	figure := c.renderer.NewFigure(layout.Rows, layout.Cols, c.hint)
	c.session = newSession(layout, figure)

	c.logger.Info("task started",
		zap.Int("total_curves", layout.TotalCurves),
		zap.Int("total_configs", layout.TotalConfigs),
		zap.Int("num_axes", layout.NumAxes),
		zap.Int("rows", layout.Rows),
		zap.Int("cols", layout.Cols),
	)
	return nil
}

// BeforeStrategy creates a fresh accumulator, instantiates the
// aggregator on it, and attaches the aggregator to the strategy for the
// duration of this run.
func (c *GraphCallback) BeforeStrategy(model, metric, evalSet string, s callback.Strategy) error {
	if c.session == nil {
		return fmt.Errorf("%w: BeforeStrategy before BeforeTask", ErrNoActiveTask)
	}

	c.results = callback.NewResults()
	agg := c.spec.New(c.results)
	c.detach = s.Callbacks().Attach(agg)

	c.logger.Debug("strategy observed",
		zap.String("model", model),
		zap.String("metric", metric),
		zap.String("eval_set", evalSet),
		zap.String("strategy", s.String()),
	)
	return nil
}

// AfterStrategy detaches the aggregator and draws its accumulated
// series onto the next panel. The detach always runs, even when no
// panel remains or drawing fails.
func (c *GraphCallback) AfterStrategy(model, metric, evalSet string, s callback.Strategy) error {
	if c.detach != nil {
		defer func() {
			c.detach()
			c.detach = nil
		}()
	}
	if c.session == nil {
		return fmt.Errorf("%w: AfterStrategy before BeforeTask", ErrNoActiveTask)
	}

	panel, err := c.session.panels.Next()
	if err != nil {
		return err
	}

	if err := c.plotLines(callback.SeriesIter, panel, c.results); err != nil {
		return err
	}

	c.session.captureLegend(panel.Legend())
	panel.SetTitle(fmt.Sprintf("%s\n%s-%s-%s", s, model, metric, evalSet))
	return nil
}

// AfterTask decorates the figure and persists it to
// {path}/{aggregator file name}. The session is dropped regardless of
// the outcome; a save failure surfaces to the driver rather than
// silently losing the figure.
func (c *GraphCallback) AfterTask() error {
	if c.session == nil {
		return fmt.Errorf("%w: AfterTask before BeforeTask", ErrNoActiveTask)
	}
	sess := c.session
	defer func() { c.session = nil }()

	sess.figure.SetTitle(c.spec.DisplayName)
	sess.figure.SetLegend(sess.legend)

	if c.path == "" {
		return ErrNoOutputPath
	}
	target := filepath.Join(c.path, c.spec.FileName)
	if err := sess.figure.Save(target); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}

	c.logger.Info("task figure saved",
		zap.String("path", target),
		zap.Int("panels_drawn", sess.panels.Taken()),
	)
	return nil
}

// plotLines draws every series in results other than xName against the
// xName series as overlaid lines on panel. At least two series are
// required: the X series plus one metric.
func (c *GraphCallback) plotLines(xName string, panel render.Panel, results *callback.Results) error {
	if results == nil || results.Len() < 2 {
		n := 0
		if results != nil {
			n = results.Len()
		}
		return fmt.Errorf("%w: have %d series, need at least 2", ErrNotEnoughSeries, n)
	}
	x, ok := results.Series(xName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingXSeries, xName)
	}

	lines := make([]render.Line, 0, results.Len()-1)
	for _, name := range results.Names() {
		if name == xName {
			continue
		}
		y, _ := results.Series(name)
		lines = append(lines, render.Line{Label: name, Y: y})
	}

	if err := panel.DrawLines(x, lines); err != nil {
		return fmt.Errorf("failed to draw lines: %w", err)
	}
	// The task-level legend is shown once at figure scope.
	panel.HideLegend()
	// Both axis captions carry the X series name.
	panel.SetAxisLabels(xName, xName)
	return nil
}
