package callback

// Results accumulates per-iteration scalars into named series. One
// accumulator is scoped to exactly one strategy run. Series are created
// lazily on first append; a run with zero iterations leaves the
// accumulator empty, which consumers must handle.
//
// Results is not safe for concurrent use. The lifecycle protocol is
// single-threaded and sequential, so no locking is needed.
type Results struct {
	series map[string][]float64
	order  []string
}

// NewResults returns an empty accumulator.
func NewResults() *Results {
	return &Results{series: make(map[string][]float64)}
}

// Append adds one value to the named series, creating the series if it
// does not exist yet. Append never fails.
func (r *Results) Append(name string, value float64) {
	if _, ok := r.series[name]; !ok {
		r.series[name] = []float64{}
		r.order = append(r.order, name)
	}
	r.series[name] = append(r.series[name], value)
}

// Series returns the values recorded under name, in append order, and
// whether the series exists. Untouched series are absent, not empty.
func (r *Results) Series(name string) ([]float64, bool) {
	values, ok := r.series[name]
	return values, ok
}

// Names returns the series names in first-append order.
func (r *Results) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of series.
func (r *Results) Len() int {
	return len(r.series)
}
