package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

func taskMetadata() (callback.CurveData, callback.Strategies) {
	curveData := callback.CurveData{
		"m1": callback.ModelCurves{
			EvalSets: []string{"train", "val"},
			Metrics:  []string{"mse", "mae"},
		},
	}
	strategies := callback.Strategies{
		"s1": callback.StrategyGroup{
			Configs: []callback.StrategyConfig{
				{Label: "p=2", Patience: 2, MaxIters: 10},
				{Label: "p=5", Patience: 5, MaxIters: 10},
			},
		},
	}
	return curveData, strategies
}

func TestComputeLayout_NoFilters(t *testing.T) {
	curveData, strategies := taskMetadata()

	layout := computeLayout(curveData, strategies, callback.Filters{})

	assert.Equal(t, 4, layout.TotalCurves)
	assert.Equal(t, 2, layout.TotalConfigs)
	assert.Equal(t, 8, layout.NumAxes)
	assert.Equal(t, 3, layout.Cols)
	assert.Equal(t, 3, layout.Rows)
}

func TestComputeLayout_MetricFilter(t *testing.T) {
	curveData, strategies := taskMetadata()

	layout := computeLayout(curveData, strategies, callback.Filters{Metrics: []string{"mse"}})

	assert.Equal(t, 2, layout.TotalCurves)
	assert.Equal(t, 4, layout.NumAxes)
	assert.Equal(t, 2, layout.Cols)
	assert.Equal(t, 2, layout.Rows)
}

func TestComputeLayout_EvalSetFilter(t *testing.T) {
	curveData, strategies := taskMetadata()

	layout := computeLayout(curveData, strategies, callback.Filters{EvalSets: []string{"val"}})

	assert.Equal(t, 2, layout.TotalCurves)
	assert.Equal(t, 4, layout.NumAxes)
}

func TestComputeLayout_ModelFilterExcludesAll(t *testing.T) {
	curveData, strategies := taskMetadata()

	layout := computeLayout(curveData, strategies, callback.Filters{Models: []string{"other"}})

	assert.Equal(t, 0, layout.TotalCurves)
	assert.Equal(t, 0, layout.NumAxes)
	assert.Equal(t, 0, layout.Rows)
	assert.Equal(t, 0, layout.Cols)
}

func TestComputeLayout_ConfigsIgnoreFilters(t *testing.T) {
	curveData, strategies := taskMetadata()

	// Strategy configs are counted regardless of any filter.
	layout := computeLayout(curveData, strategies, callback.Filters{
		Models:  []string{"other"},
		Metrics: []string{"nope"},
	})

	assert.Equal(t, 2, layout.TotalConfigs)
}

func TestComputeLayout_UnknownFilterValues(t *testing.T) {
	curveData, strategies := taskMetadata()

	layout := computeLayout(curveData, strategies, callback.Filters{Metrics: []string{"rmse"}})

	// No metric survives the intersection, so no curves remain.
	assert.Equal(t, 0, layout.TotalCurves)
	assert.Equal(t, 0, layout.NumAxes)
}

func TestComputeLayout_MultipleModels(t *testing.T) {
	curveData := callback.CurveData{
		"m1": callback.ModelCurves{EvalSets: []string{"val"}, Metrics: []string{"mse"}},
		"m2": callback.ModelCurves{EvalSets: []string{"train", "val"}, Metrics: []string{"mse", "mae"}},
	}
	strategies := callback.Strategies{
		"s1": callback.StrategyGroup{Configs: []callback.StrategyConfig{{Label: "a"}}},
		"s2": callback.StrategyGroup{Configs: []callback.StrategyConfig{{Label: "b"}, {Label: "c"}}},
	}

	layout := computeLayout(curveData, strategies, callback.Filters{})

	assert.Equal(t, 5, layout.TotalCurves)
	assert.Equal(t, 3, layout.TotalConfigs)
	assert.Equal(t, 15, layout.NumAxes)
	assert.Equal(t, 4, layout.Cols)
	assert.Equal(t, 4, layout.Rows)
}
