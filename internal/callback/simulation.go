package callback

// ModelCurves holds the per-model task metadata handed to BeforeTask:
// which evaluation sets and metrics exist for the model, and the
// precomputed metric curves keyed by CurveKey(metric, evalSet).
type ModelCurves struct {
	EvalSets []string             `koanf:"eval_sets"`
	Metrics  []string             `koanf:"metrics"`
	Series   map[string][]float64 `koanf:"series"`
}

// CurveData maps model name to its curve metadata.
type CurveData map[string]ModelCurves

// CurveKey names the curve for one (metric, eval-set) pair inside
// ModelCurves.Series.
func CurveKey(metric, evalSet string) string {
	return metric + "/" + evalSet
}

// StrategyGroup describes one strategy family and its configured
// variants. Every config produces one strategy run per curve.
type StrategyGroup struct {
	Configs []StrategyConfig `koanf:"configs"`
}

// StrategyConfig is one configured variant of a strategy.
type StrategyConfig struct {
	Label          string  `koanf:"label"`
	Patience       int     `koanf:"patience"`
	MaxIters       int     `koanf:"max_iters"`
	MinImprovement float64 `koanf:"min_improvement"`
}

// Strategies maps strategy name to its group of configs.
type Strategies map[string]StrategyGroup

// Filters restricts which curves a task covers. An empty slice places no
// restriction on that axis.
type Filters struct {
	Models   []string `koanf:"models"`
	Metrics  []string `koanf:"metrics"`
	EvalSets []string `koanf:"eval_sets"`
}

// SimulationCallback is invoked by the task driver around a task and
// around each strategy run within it. Hook errors are not recovered by
// the driver; they abort the task.
type SimulationCallback interface {
	// BeforeTask runs before a task is processed.
	BeforeTask(curveData CurveData, strategies Strategies, filters Filters) error
	// AfterTask runs after a task is processed.
	AfterTask() error
	// BeforeStrategy runs before one strategy simulation.
	BeforeStrategy(model, metric, evalSet string, s Strategy) error
	// AfterStrategy runs after one strategy simulation.
	AfterStrategy(model, metric, evalSet string, s Strategy) error
	// SaveArtifacts reports whether invoking this observer produces
	// output artifacts. Drivers may skip artifact-producing observers
	// on large workloads; this is a recommendation, not enforcement.
	SaveArtifacts() bool
}

// BaseSimulationCallback provides no-op defaults for SimulationCallback
// with SaveArtifacts false.
type BaseSimulationCallback struct{}

func (BaseSimulationCallback) BeforeTask(CurveData, Strategies, Filters) error { return nil }
func (BaseSimulationCallback) AfterTask() error                                { return nil }
func (BaseSimulationCallback) BeforeStrategy(string, string, string, Strategy) error {
	return nil
}
func (BaseSimulationCallback) AfterStrategy(string, string, string, Strategy) error {
	return nil
}
func (BaseSimulationCallback) SaveArtifacts() bool { return false }
