package monitor

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
	"github.com/fyrsmithlabs/curvesim/internal/strategy"
)

func TestLiveCallback_EventFlow(t *testing.T) {
	var msgs []tea.Msg
	cb := NewLiveCallback(func(msg tea.Msg) { msgs = append(msgs, msg) })

	curveData := callback.CurveData{
		"m1": callback.ModelCurves{EvalSets: []string{"val"}, Metrics: []string{"mse"}},
	}
	strategies := callback.Strategies{
		"greedy": callback.StrategyGroup{Configs: []callback.StrategyConfig{{Label: "p=2", Patience: 2}}},
	}

	require.NoError(t, cb.BeforeTask(curveData, strategies, callback.Filters{}))
	require.Len(t, msgs, 1)
	assert.Equal(t, TaskStartedMsg{TotalRuns: 1}, msgs[0])

	s, err := strategy.NewIterative("greedy",
		callback.StrategyConfig{Label: "p=2", Patience: 2},
		[]float64{0.9, 0.8, 0.7}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, cb.BeforeStrategy("m1", "mse", "val", s))
	assert.Equal(t, 1, s.Callbacks().Len())

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, cb.AfterStrategy("m1", "mse", "val", s))
	assert.Equal(t, 0, s.Callbacks().Len())

	require.NoError(t, cb.AfterTask())

	var iters int
	for _, msg := range msgs {
		if _, ok := msg.(IterMsg); ok {
			iters++
		}
	}
	assert.Equal(t, 3, iters)
	assert.IsType(t, TaskFinishedMsg{}, msgs[len(msgs)-1])
}

func TestLiveCallback_NeverVotesStop(t *testing.T) {
	cb := NewLiveCallback(func(tea.Msg) {})
	assert.False(t, cb.BeforeIter(nil, 0, 0.5, 0, 3))
	assert.False(t, cb.SaveArtifacts())
}

func TestCountRuns_Filters(t *testing.T) {
	curveData := callback.CurveData{
		"m1": callback.ModelCurves{EvalSets: []string{"train", "val"}, Metrics: []string{"mse", "mae"}},
		"m2": callback.ModelCurves{EvalSets: []string{"val"}, Metrics: []string{"mse"}},
	}
	strategies := callback.Strategies{
		"greedy": callback.StrategyGroup{Configs: []callback.StrategyConfig{{Label: "a"}, {Label: "b"}}},
	}

	assert.Equal(t, 10, countRuns(curveData, strategies, callback.Filters{}))
	assert.Equal(t, 2, countRuns(curveData, strategies, callback.Filters{Models: []string{"m2"}}))
	assert.Equal(t, 6, countRuns(curveData, strategies, callback.Filters{Metrics: []string{"mse"}}))
}

func TestModel_Update(t *testing.T) {
	m := NewModel()

	next, _ := m.Update(TaskStartedMsg{TotalRuns: 4})
	m = next.(Model)
	assert.Equal(t, 4, m.totalRuns)

	next, _ = m.Update(StrategyStartedMsg{Name: "greedy(p=2)", Model: "m1", Metric: "mse", EvalSet: "val"})
	m = next.(Model)
	next, _ = m.Update(IterMsg{Iter: 0, Metric: 0.9})
	m = next.(Model)
	next, _ = m.Update(IterMsg{Iter: 1, Metric: 0.8})
	m = next.(Model)
	assert.Len(t, m.history, 2)

	next, _ = m.Update(StrategyFinishedMsg{})
	m = next.(Model)
	assert.Equal(t, 1, m.completed)

	// A new strategy resets the sparkline history.
	next, _ = m.Update(StrategyStartedMsg{Name: "greedy(p=5)"})
	m = next.(Model)
	assert.Empty(t, m.history)

	next, cmd := m.Update(TaskFinishedMsg{})
	m = next.(Model)
	assert.True(t, m.done)
	assert.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "1/4 runs")
}
