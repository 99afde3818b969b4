// Package task drives simulation tasks: it walks every
// (model, metric, eval-set) curve surviving the task filters, runs every
// configured strategy variant over it, and invokes the registered
// simulation callbacks around the task and around each strategy run.
// Execution is strictly sequential: one goroutine, one lifecycle call at
// a time, in the order BeforeTask, {BeforeStrategy, iterations,
// AfterStrategy} per run, AfterTask.
package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
	"github.com/fyrsmithlabs/curvesim/internal/strategy"
)

// ErrMissingCurve is returned when a model declares a metric/eval-set
// pair without a matching curve.
var ErrMissingCurve = errors.New("no curve recorded for metric/eval-set pair")

// Task is the unit of work bounded by BeforeTask/AfterTask.
type Task struct {
	CurveData  callback.CurveData
	Strategies callback.Strategies
	Filters    callback.Filters

	// Large marks a workload on which artifact-producing observers
	// should be skipped.
	Large bool
}

// Runner executes tasks against a fixed set of simulation callbacks.
type Runner struct {
	callbacks []callback.SimulationCallback
	logger    *zap.Logger
	metrics   *Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics sets the OTEL metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a Runner invoking the given callbacks on every task.
func NewRunner(callbacks []callback.SimulationCallback, opts ...Option) *Runner {
	r := &Runner{
		callbacks: callbacks,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("task")
	return r
}

// Run executes one task. Any hook or strategy error aborts the task and
// is returned; nothing is retried.
func (r *Runner) Run(ctx context.Context, t Task) error {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))

	active := r.activeCallbacks(t, logger)

	for _, cb := range active {
		if err := cb.BeforeTask(t.CurveData, t.Strategies, t.Filters); err != nil {
			return fmt.Errorf("before task: %w", err)
		}
	}

	for _, model := range sortedKeys(t.CurveData) {
		if len(t.Filters.Models) > 0 && !containsString(t.Filters.Models, model) {
			continue
		}
		curves := t.CurveData[model]
		for _, metric := range filterStrings(curves.Metrics, t.Filters.Metrics) {
			for _, evalSet := range filterStrings(curves.EvalSets, t.Filters.EvalSets) {
				if err := r.runCurve(ctx, active, model, metric, evalSet, curves, t.Strategies, logger); err != nil {
					return err
				}
			}
		}
	}

	for _, cb := range active {
		if err := cb.AfterTask(); err != nil {
			return fmt.Errorf("after task: %w", err)
		}
	}

	logger.Info("task completed")
	return nil
}

// runCurve runs every configured strategy variant over one curve.
func (r *Runner) runCurve(
	ctx context.Context,
	active []callback.SimulationCallback,
	model, metric, evalSet string,
	curves callback.ModelCurves,
	strategies callback.Strategies,
	logger *zap.Logger,
) error {
	curve, ok := curves.Series[callback.CurveKey(metric, evalSet)]
	if !ok {
		return fmt.Errorf("%w: model %q, key %q", ErrMissingCurve, model, callback.CurveKey(metric, evalSet))
	}

	for _, name := range sortedKeys(strategies) {
		for _, cfg := range strategies[name].Configs {
			s, err := strategy.NewIterative(name, cfg, curve, logger)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", name, err)
			}

			for _, cb := range active {
				if err := cb.BeforeStrategy(model, metric, evalSet, s); err != nil {
					return fmt.Errorf("before strategy %s: %w", s, err)
				}
			}

			start := time.Now()
			result, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", s, err)
			}
			r.metrics.RecordStrategyRun(ctx, s.String(), result.Iterations, time.Since(start))

			logger.Debug("strategy run finished",
				zap.String("strategy", s.String()),
				zap.String("model", model),
				zap.String("metric", metric),
				zap.String("eval_set", evalSet),
				zap.Int("iterations", result.Iterations),
				zap.String("stopped", string(result.Stopped)),
			)

			for _, cb := range active {
				if err := cb.AfterStrategy(model, metric, evalSet, s); err != nil {
					return fmt.Errorf("after strategy %s: %w", s, err)
				}
			}
		}
	}
	return nil
}

// activeCallbacks drops artifact-producing observers on large
// workloads.
func (r *Runner) activeCallbacks(t Task, logger *zap.Logger) []callback.SimulationCallback {
	if !t.Large {
		return r.callbacks
	}
	active := make([]callback.SimulationCallback, 0, len(r.callbacks))
	for _, cb := range r.callbacks {
		if cb.SaveArtifacts() {
			logger.Info("skipping artifact-producing callback on large workload",
				zap.String("callback", fmt.Sprintf("%T", cb)))
			continue
		}
		active = append(active, cb)
	}
	return active
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// filterStrings keeps the values of have present in want, preserving
// order; an empty want keeps everything.
func filterStrings(have, want []string) []string {
	if len(want) == 0 {
		return have
	}
	out := make([]string, 0, len(have))
	for _, v := range have {
		if containsString(want, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
