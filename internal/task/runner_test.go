package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
	"github.com/fyrsmithlabs/curvesim/internal/graph"
	"github.com/fyrsmithlabs/curvesim/internal/render"
)

// recordingCallback logs every hook invocation in order.
type recordingCallback struct {
	callback.BaseSimulationCallback

	saveArtifacts bool
	calls         []string
}

func (c *recordingCallback) BeforeTask(callback.CurveData, callback.Strategies, callback.Filters) error {
	c.calls = append(c.calls, "before_task")
	return nil
}

func (c *recordingCallback) AfterTask() error {
	c.calls = append(c.calls, "after_task")
	return nil
}

func (c *recordingCallback) BeforeStrategy(model, metric, evalSet string, _ callback.Strategy) error {
	c.calls = append(c.calls, "before_strategy:"+model+"-"+metric+"-"+evalSet)
	return nil
}

func (c *recordingCallback) AfterStrategy(model, metric, evalSet string, _ callback.Strategy) error {
	c.calls = append(c.calls, "after_strategy:"+model+"-"+metric+"-"+evalSet)
	return nil
}

func (c *recordingCallback) SaveArtifacts() bool { return c.saveArtifacts }

func testTask() Task {
	curve := []float64{0.9, 0.8, 0.7, 0.65, 0.64, 0.64, 0.64}
	return Task{
		CurveData: callback.CurveData{
			"m1": callback.ModelCurves{
				EvalSets: []string{"train", "val"},
				Metrics:  []string{"mse"},
				Series: map[string][]float64{
					callback.CurveKey("mse", "train"): curve,
					callback.CurveKey("mse", "val"):   curve,
				},
			},
		},
		Strategies: callback.Strategies{
			"greedy": callback.StrategyGroup{
				Configs: []callback.StrategyConfig{
					{Label: "p=1", Patience: 1, MaxIters: 10},
					{Label: "p=3", Patience: 3, MaxIters: 10},
				},
			},
		},
	}
}

func TestRunner_LifecycleOrdering(t *testing.T) {
	rec := &recordingCallback{}
	r := NewRunner([]callback.SimulationCallback{rec}, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, r.Run(context.Background(), testTask()))

	// 2 curves x 2 configs = 4 strategy runs inside one task.
	require.Len(t, rec.calls, 2+4*2)
	assert.Equal(t, "before_task", rec.calls[0])
	assert.Equal(t, "after_task", rec.calls[len(rec.calls)-1])
	for i := 1; i < len(rec.calls)-1; i += 2 {
		assert.Contains(t, rec.calls[i], "before_strategy:")
		assert.Contains(t, rec.calls[i+1], "after_strategy:")
		// Strictly nested pairs: the after matches the preceding before.
		assert.Equal(t, rec.calls[i][len("before_strategy:"):], rec.calls[i+1][len("after_strategy:"):])
	}
}

func TestRunner_FiltersRestrictCurves(t *testing.T) {
	rec := &recordingCallback{}
	r := NewRunner([]callback.SimulationCallback{rec}, WithLogger(zaptest.NewLogger(t)))

	task := testTask()
	task.Filters = callback.Filters{EvalSets: []string{"val"}}
	require.NoError(t, r.Run(context.Background(), task))

	// 1 curve x 2 configs.
	require.Len(t, rec.calls, 2+2*2)
	for _, call := range rec.calls[1 : len(rec.calls)-1] {
		assert.Contains(t, call, "-val")
	}
}

func TestRunner_LargeSkipsArtifactCallbacks(t *testing.T) {
	saver := &recordingCallback{saveArtifacts: true}
	watcher := &recordingCallback{}
	r := NewRunner([]callback.SimulationCallback{saver, watcher}, WithLogger(zaptest.NewLogger(t)))

	task := testTask()
	task.Large = true
	require.NoError(t, r.Run(context.Background(), task))

	assert.Empty(t, saver.calls)
	assert.NotEmpty(t, watcher.calls)
}

func TestRunner_MissingCurve(t *testing.T) {
	rec := &recordingCallback{}
	r := NewRunner([]callback.SimulationCallback{rec}, WithLogger(zaptest.NewLogger(t)))

	task := testTask()
	delete(task.CurveData["m1"].Series, callback.CurveKey("mse", "train"))
	err := r.Run(context.Background(), task)
	require.ErrorIs(t, err, ErrMissingCurve)
}

func TestRunner_GraphIntegration(t *testing.T) {
	dir := t.TempDir()
	cb := graph.New(callback.LearningCurves(), render.NewTextRenderer(),
		graph.WithOutputPath(dir),
		graph.WithLogger(zaptest.NewLogger(t)),
	)
	r := NewRunner([]callback.SimulationCallback{cb}, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, r.Run(context.Background(), testTask()))

	data, err := os.ReadFile(filepath.Join(dir, "learning_curves.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Learning Curves")
	assert.Contains(t, string(data), "m1-mse-val")
}

func TestRunner_PatienceGraphIntegration(t *testing.T) {
	dir := t.TempDir()
	cb := graph.New(callback.PatienceCurves(), render.NewTextRenderer(),
		graph.WithOutputPath(dir),
		graph.WithLogger(zaptest.NewLogger(t)),
	)
	r := NewRunner([]callback.SimulationCallback{cb}, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, r.Run(context.Background(), testTask()))

	data, err := os.ReadFile(filepath.Join(dir, "patience_curves.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Patience Curves")
	assert.Contains(t, string(data), "iter_wo_improvement")
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	// Recording through the no-op global provider must not panic.
	m.RecordStrategyRun(context.Background(), "greedy(p=1)", 5, 0)

	var nilMetrics *Metrics
	nilMetrics.RecordStrategyRun(context.Background(), "greedy(p=1)", 5, 0)
}
