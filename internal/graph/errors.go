package graph

import "errors"

// Usage errors.
var (
	ErrNotEnoughSeries = errors.New("not enough series to construct line plot")
	ErrMissingXSeries  = errors.New("x series not recorded")
	ErrNoActiveTask    = errors.New("no task in progress")
)

// Configuration errors.
var (
	ErrNoOutputPath = errors.New("no output path configured")
)

// Exhaustion errors.
var (
	ErrPanelsExhausted = errors.New("no panels remain in the figure grid")
)
