package callback

// Series names recorded by the aggregator callbacks.
const (
	SeriesIter          = "iter"
	SeriesError         = "error"
	SeriesIterWoImprove = "iter_wo_improvement"
	SeriesPatience      = "patience"
)

// AggregatorSpec describes an aggregator family: its display name, the
// file name of the artifact built from its series, and a constructor
// binding a fresh instance to a per-run accumulator. Orchestration
// callbacks hold a spec rather than an instance so each strategy run
// gets its own aggregator.
type AggregatorSpec struct {
	DisplayName string
	FileName    string
	New         func(*Results) IterativeStrategyCallback
}

// PatienceCurves is the spec for the patience-tracking aggregator.
func PatienceCurves() AggregatorSpec {
	return AggregatorSpec{
		DisplayName: "Patience Curves",
		FileName:    "patience_curves",
		New: func(r *Results) IterativeStrategyCallback {
			return &PatienceCallback{results: r}
		},
	}
}

// LearningCurves is the spec for the error-tracking aggregator.
func LearningCurves() AggregatorSpec {
	return AggregatorSpec{
		DisplayName: "Learning Curves",
		FileName:    "learning_curves",
		New: func(r *Results) IterativeStrategyCallback {
			return &LearningCurveCallback{results: r}
		},
	}
}

// PatienceCallback records the iteration index, the count of iterations
// without improvement, and the configured patience threshold on every
// before-iteration hook. It is a pure observer: it never votes to stop
// and never fails.
type PatienceCallback struct {
	BaseIterativeCallback

	results *Results
}

// NewPatienceCallback binds a patience aggregator to results.
func NewPatienceCallback(results *Results) *PatienceCallback {
	return &PatienceCallback{results: results}
}

func (c *PatienceCallback) BeforeIter(_ Strategy, iter int, _ float64, iterWoImprovement, patience int) bool {
	c.results.Append(SeriesIter, float64(iter))
	c.results.Append(SeriesIterWoImprove, float64(iterWoImprovement))
	c.results.Append(SeriesPatience, float64(patience))
	return false
}

// LearningCurveCallback records the iteration index and the current
// metric value on every before-iteration hook. Pure observer, like
// PatienceCallback.
type LearningCurveCallback struct {
	BaseIterativeCallback

	results *Results
}

// NewLearningCurveCallback binds a learning-curve aggregator to results.
func NewLearningCurveCallback(results *Results) *LearningCurveCallback {
	return &LearningCurveCallback{results: results}
}

func (c *LearningCurveCallback) BeforeIter(_ Strategy, iter int, metric float64, _, _ int) bool {
	c.results.Append(SeriesIter, float64(iter))
	c.results.Append(SeriesError, metric)
	return false
}
