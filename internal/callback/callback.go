package callback

import "fmt"

// Strategy is the view of a running strategy handed to hooks. Hooks must
// not mutate the strategy beyond its callback registry.
type Strategy interface {
	fmt.Stringer

	// Callbacks returns the strategy's mutable observer list.
	Callbacks() *Registry
}

// StrategyCallback is invoked by a strategy around a whole simulation run.
type StrategyCallback interface {
	// BeforeSimulation runs before the simulation starts.
	BeforeSimulation(s Strategy)
	// AfterSimulation runs after the simulation has finished.
	AfterSimulation(s Strategy)
}

// IterativeStrategyCallback extends StrategyCallback with per-iteration
// hooks. The boolean return is a stop vote: true requests that the
// iterative strategy halt now. A strategy may keep invoking the hooks
// after a positive vote, so implementations must tolerate over-calls.
type IterativeStrategyCallback interface {
	StrategyCallback

	// BeforeIter runs before each iteration.
	BeforeIter(s Strategy, iter int, metric float64, iterWoImprovement, patience int) bool
	// AfterIter runs after each iteration.
	AfterIter(s Strategy, iter int, metric float64, iterWoImprovement, patience int) bool
}

// BaseStrategyCallback provides no-op defaults for StrategyCallback.
// Embed it to implement only the hooks an observer cares about.
type BaseStrategyCallback struct{}

func (BaseStrategyCallback) BeforeSimulation(Strategy) {}
func (BaseStrategyCallback) AfterSimulation(Strategy)  {}

// BaseIterativeCallback provides defaults for IterativeStrategyCallback:
// no-op simulation hooks and "do not stop" iteration votes.
type BaseIterativeCallback struct {
	BaseStrategyCallback
}

func (BaseIterativeCallback) BeforeIter(Strategy, int, float64, int, int) bool { return false }
func (BaseIterativeCallback) AfterIter(Strategy, int, float64, int, int) bool  { return false }
