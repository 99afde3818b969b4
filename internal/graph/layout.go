package graph

import (
	"math"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

// gridLayout is the panel grid computed ahead of a task from its
// metadata: one panel per (model, metric, eval-set, strategy-config)
// combination, arranged near-square.
type gridLayout struct {
	TotalCurves  int
	TotalConfigs int
	NumAxes      int
	Rows         int
	Cols         int
}

// computeLayout sizes the grid for a task. Filters restrict the curve
// count per axis; an empty filter slice places no restriction.
//
// TotalConfigs counts every configured strategy variant across all
// strategies and ignores the filters entirely. The asymmetry against
// TotalCurves is kept as observed upstream; see DESIGN.md before
// changing it.
func computeLayout(curveData callback.CurveData, strategies callback.Strategies, filters callback.Filters) gridLayout {
	var layout gridLayout

	for model, curves := range curveData {
		if len(filters.Models) > 0 && !containsString(filters.Models, model) {
			continue
		}
		metrics := intersectCount(curves.Metrics, filters.Metrics)
		evalSets := intersectCount(curves.EvalSets, filters.EvalSets)
		layout.TotalCurves += metrics * evalSets
	}

	for _, group := range strategies {
		layout.TotalConfigs += len(group.Configs)
	}

	layout.NumAxes = layout.TotalCurves * layout.TotalConfigs
	if layout.NumAxes == 0 {
		return layout
	}

	// Near-square grid; trailing panels past NumAxes stay blank.
	layout.Cols = int(math.Ceil(math.Sqrt(float64(layout.NumAxes))))
	layout.Rows = int(math.Ceil(float64(layout.NumAxes) / float64(layout.Cols)))
	return layout
}

// intersectCount returns |have ∩ want|, or |have| when want is empty.
func intersectCount(have, want []string) int {
	if len(want) == 0 {
		return len(have)
	}
	n := 0
	for _, v := range have {
		if containsString(want, v) {
			n++
		}
	}
	return n
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
