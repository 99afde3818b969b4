// Package monitor provides a live terminal view of a running
// simulation task: a bubbletea dashboard fed by a simulation callback,
// with a sparkline of the current strategy's metric and a progress bar
// across all strategy runs in the task.
package monitor

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

const (
	sparklineWidth  = 40
	sparklineHeight = 3
	historySize     = 40
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// Message types fed into the dashboard model.
type (
	// TaskStartedMsg announces the total number of strategy runs.
	TaskStartedMsg struct{ TotalRuns int }
	// StrategyStartedMsg announces the run now in progress.
	StrategyStartedMsg struct{ Name, Model, Metric, EvalSet string }
	// IterMsg carries one iteration sample.
	IterMsg struct {
		Iter              int
		Metric            float64
		IterWoImprovement int
		Patience          int
	}
	// StrategyFinishedMsg marks one completed run.
	StrategyFinishedMsg struct{}
	// TaskFinishedMsg ends the dashboard.
	TaskFinishedMsg struct{}
)

// LiveCallback streams lifecycle events into a dashboard. It observes
// both hook families: the task driver invokes its task/strategy hooks,
// and during each strategy run it attaches itself as an iteration
// observer. It never votes to stop and produces no artifacts.
type LiveCallback struct {
	callback.BaseIterativeCallback

	send   func(tea.Msg)
	detach func()
}

// NewLiveCallback creates a live callback forwarding events through
// send (tea.Program.Send in production).
func NewLiveCallback(send func(tea.Msg)) *LiveCallback {
	return &LiveCallback{send: send}
}

// SaveArtifacts reports that the live view writes nothing to disk.
func (c *LiveCallback) SaveArtifacts() bool { return false }

// BeforeTask announces the total run count for the progress bar.
func (c *LiveCallback) BeforeTask(curveData callback.CurveData, strategies callback.Strategies, filters callback.Filters) error {
	c.send(TaskStartedMsg{TotalRuns: countRuns(curveData, strategies, filters)})
	return nil
}

// AfterTask ends the dashboard.
func (c *LiveCallback) AfterTask() error {
	c.send(TaskFinishedMsg{})
	return nil
}

// BeforeStrategy attaches the callback as an iteration observer for
// the duration of the run.
func (c *LiveCallback) BeforeStrategy(model, metric, evalSet string, s callback.Strategy) error {
	c.detach = s.Callbacks().Attach(c)
	c.send(StrategyStartedMsg{Name: s.String(), Model: model, Metric: metric, EvalSet: evalSet})
	return nil
}

// AfterStrategy detaches the iteration observer and advances the
// progress bar.
func (c *LiveCallback) AfterStrategy(_, _, _ string, _ callback.Strategy) error {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
	c.send(StrategyFinishedMsg{})
	return nil
}

// BeforeIter forwards one iteration sample. Never votes to stop.
func (c *LiveCallback) BeforeIter(_ callback.Strategy, iter int, metric float64, iterWoImprovement, patience int) bool {
	c.send(IterMsg{Iter: iter, Metric: metric, IterWoImprovement: iterWoImprovement, Patience: patience})
	return false
}

// countRuns mirrors the run count the task driver will perform: curves
// surviving the filters times every configured strategy variant.
func countRuns(curveData callback.CurveData, strategies callback.Strategies, filters callback.Filters) int {
	configs := 0
	for _, group := range strategies {
		configs += len(group.Configs)
	}

	curves := 0
	for model, data := range curveData {
		if len(filters.Models) > 0 && !contains(filters.Models, model) {
			continue
		}
		curves += intersect(data.Metrics, filters.Metrics) * intersect(data.EvalSets, filters.EvalSets)
	}
	return curves * configs
}

func intersect(have, want []string) int {
	if len(want) == 0 {
		return len(have)
	}
	n := 0
	for _, v := range have {
		if contains(want, v) {
			n++
		}
	}
	return n
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Model is the bubbletea dashboard model.
type Model struct {
	progress progress.Model

	totalRuns int
	completed int
	current   string
	lastIter  int
	lastValue float64
	lastStall int
	patience  int
	history   []float64
	done      bool
	quitting  bool
}

// NewModel creates the dashboard model.
func NewModel() Model {
	return Model{
		progress: progress.New(
			progress.WithGradient("#00ffff", "#ff00ff"),
			progress.WithWidth(40),
		),
		history: make([]float64, 0, historySize),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case TaskStartedMsg:
		m.totalRuns = msg.TotalRuns
		m.completed = 0
		m.done = false
		return m, nil

	case StrategyStartedMsg:
		m.current = fmt.Sprintf("%s %s-%s-%s", msg.Name, msg.Model, msg.Metric, msg.EvalSet)
		m.history = m.history[:0]
		return m, nil

	case IterMsg:
		m.lastIter = msg.Iter
		m.lastValue = msg.Metric
		m.lastStall = msg.IterWoImprovement
		m.patience = msg.Patience
		m.history = append(m.history, msg.Metric)
		if len(m.history) > historySize {
			m.history = m.history[1:]
		}
		return m, nil

	case StrategyFinishedMsg:
		m.completed++
		return m, nil

	case TaskFinishedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	content += headerStyle.Render("curvesim") + "\n\n"

	if m.current != "" {
		content += labelStyle.Render("strategy ") + valueStyle.Render(m.current) + "\n"
		content += labelStyle.Render("iter     ") + valueStyle.Render(fmt.Sprintf("%d", m.lastIter))
		content += dimStyle.Render("  metric "+FormatMetric(m.lastValue))
		content += dimStyle.Render("  "+FormatPatience(m.lastStall, m.patience)) + "\n"
		content += renderSparkline(m.history) + "\n"
	}

	frac := 0.0
	if m.totalRuns > 0 {
		frac = float64(m.completed) / float64(m.totalRuns)
	}
	content += m.progress.ViewAs(frac) + " "
	content += dimStyle.Render(FormatProgress(m.completed, m.totalRuns)) + "\n"

	if m.done {
		content += dimStyle.Render("task complete") + "\n"
	} else {
		content += dimStyle.Render("[q] quit") + "\n"
	}
	return content
}

func renderSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	return sparklineStyle.Render(spark.View())
}
