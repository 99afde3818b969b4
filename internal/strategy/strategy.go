// Package strategy provides the iterative simulation driver the hook
// framework observes: a patience-based early-stopping loop over a
// precomputed metric curve. The driver invokes the simulation and
// per-iteration hooks on every registered observer in the fixed order
// before-iteration, iteration work, after-iteration, and halts when any
// observer votes stop or the patience threshold is exceeded.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

var (
	ErrEmptyCurve      = errors.New("metric curve is empty")
	ErrInvalidPatience = errors.New("patience must be >= 0")
)

// StopReason records why a run ended.
type StopReason string

const (
	// StopCompleted means the run exhausted its iteration budget.
	StopCompleted StopReason = "completed"
	// StopPatience means the run exceeded its patience threshold.
	StopPatience StopReason = "patience"
	// StopVote means an observer voted to halt.
	StopVote StopReason = "vote"
	// StopCancelled means the context was cancelled.
	StopCancelled StopReason = "cancelled"
)

// RunResult summarizes one strategy run.
type RunResult struct {
	Iterations int
	BestMetric float64
	Stopped    StopReason
}

// Iterative walks a metric curve one iteration at a time, tracking the
// best (lowest) metric seen and the count of consecutive iterations
// without improvement.
type Iterative struct {
	name     string
	config   callback.StrategyConfig
	curve    []float64
	registry callback.Registry
	logger   *zap.Logger
}

// NewIterative creates a driver over curve. The config's MaxIters caps
// the iteration count; zero means the whole curve.
func NewIterative(name string, config callback.StrategyConfig, curve []float64, logger *zap.Logger) (*Iterative, error) {
	if len(curve) == 0 {
		return nil, ErrEmptyCurve
	}
	if config.Patience < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPatience, config.Patience)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Iterative{
		name:   name,
		config: config,
		curve:  curve,
		logger: logger.Named("strategy"),
	}, nil
}

// String identifies the strategy and its config variant in panel titles.
func (s *Iterative) String() string {
	if s.config.Label == "" {
		return s.name
	}
	return fmt.Sprintf("%s(%s)", s.name, s.config.Label)
}

// Callbacks returns the strategy's observer list.
func (s *Iterative) Callbacks() *callback.Registry {
	return &s.registry
}

// Run executes the iteration loop. Observers are notified around the
// whole simulation and around every iteration; a run halts early when
// any observer votes stop on either per-iteration hook, or when the
// patience threshold is exceeded.
func (s *Iterative) Run(ctx context.Context) (RunResult, error) {
	maxIters := s.config.MaxIters
	if maxIters <= 0 || maxIters > len(s.curve) {
		maxIters = len(s.curve)
	}

	result := RunResult{BestMetric: math.Inf(1), Stopped: StopCompleted}

	s.registry.BeforeSimulation(s)
	defer s.registry.AfterSimulation(s)

	iterWoImprovement := 0
	for iter := 0; iter < maxIters; iter++ {
		if err := ctx.Err(); err != nil {
			result.Stopped = StopCancelled
			return result, err
		}
		metric := s.curve[iter]

		if s.registry.BeforeIter(s, iter, metric, iterWoImprovement, s.config.Patience) {
			result.Stopped = StopVote
			break
		}

		// Iteration work: fold the current metric into the best-so-far
		// and the no-improvement streak.
		if result.BestMetric-metric > s.config.MinImprovement {
			result.BestMetric = metric
			iterWoImprovement = 0
		} else {
			iterWoImprovement++
		}
		result.Iterations++

		if s.registry.AfterIter(s, iter, metric, iterWoImprovement, s.config.Patience) {
			result.Stopped = StopVote
			break
		}

		if iterWoImprovement > s.config.Patience {
			result.Stopped = StopPatience
			break
		}
	}

	s.logger.Debug("strategy run finished",
		zap.String("strategy", s.String()),
		zap.Int("iterations", result.Iterations),
		zap.Float64("best_metric", result.BestMetric),
		zap.String("stopped", string(result.Stopped)),
	)
	return result, nil
}
