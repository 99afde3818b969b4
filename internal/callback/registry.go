package callback

// registration is the unit Attach stores. Detach removes it by node
// identity, so observers themselves never need to be comparable.
type registration struct {
	cb IterativeStrategyCallback
}

// Registry is the mutable observer list a strategy exposes. The strategy
// invokes the simulation and iteration hooks on every registered observer;
// orchestration callbacks attach and detach observers per strategy run.
type Registry struct {
	entries []*registration
}

// Attach appends cb to the observer list and returns a detach function
// that removes it again. Deferring the detach scopes the registration to
// one strategy run and guarantees removal even when the run fails
// mid-way. Detach is idempotent, and the same observer may be attached
// more than once; each registration detaches independently.
func (r *Registry) Attach(cb IterativeStrategyCallback) (detach func()) {
	reg := &registration{cb: cb}
	r.entries = append(r.entries, reg)
	return func() {
		// Attach/detach pairs nest strictly per strategy run, so
		// scanning from the tail finds this registration first.
		for i := len(r.entries) - 1; i >= 0; i-- {
			if r.entries[i] == reg {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered observers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// BeforeSimulation notifies every observer that a simulation is starting.
func (r *Registry) BeforeSimulation(s Strategy) {
	for _, reg := range r.entries {
		reg.cb.BeforeSimulation(s)
	}
}

// AfterSimulation notifies every observer that a simulation has finished.
func (r *Registry) AfterSimulation(s Strategy) {
	for _, reg := range r.entries {
		reg.cb.AfterSimulation(s)
	}
}

// BeforeIter dispatches the before-iteration hook to every observer and
// returns the OR of their stop votes. Every observer is invoked even
// after one has voted to stop, so observers see every iteration and no
// order dependency exists between them.
func (r *Registry) BeforeIter(s Strategy, iter int, metric float64, iterWoImprovement, patience int) bool {
	stop := false
	for _, reg := range r.entries {
		if reg.cb.BeforeIter(s, iter, metric, iterWoImprovement, patience) {
			stop = true
		}
	}
	return stop
}

// AfterIter dispatches the after-iteration hook to every observer and
// returns the OR of their stop votes.
func (r *Registry) AfterIter(s Strategy, iter int, metric float64, iterWoImprovement, patience int) bool {
	stop := false
	for _, reg := range r.entries {
		if reg.cb.AfterIter(s, iter, metric, iterWoImprovement, patience) {
			stop = true
		}
	}
	return stop
}
