// Package callback defines the lifecycle-hook contracts through which
// observers follow iterative simulation strategies without modifying the
// simulation core.
//
// Two hook families exist:
//
//   - StrategyCallback and IterativeStrategyCallback are invoked by a
//     running strategy: once around the whole simulation, and once before
//     and after every iteration. The per-iteration hooks return a stop
//     vote; a strategy halts when any attached observer votes true.
//
//   - SimulationCallback is invoked by the task driver around a task and
//     around each strategy run within it.
//
// Observers attach to a strategy through its Registry. Attach returns a
// detach function so registration can be scoped to a single strategy run:
//
//	detach := strategy.Callbacks().Attach(agg)
//	defer detach()
//
// The Registry dispatches BeforeIter/AfterIter to every observer and ORs
// the votes without short-circuiting, so no observer may depend on being
// called first or last, and every observer sees every iteration.
//
// Aggregator callbacks (PatienceCallback, LearningCurveCallback) append
// per-iteration scalars into a Results accumulator scoped to one strategy
// run. They never vote to stop and never fail.
package callback
