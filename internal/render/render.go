// Package render defines the rendering boundary the orchestration
// callback draws through: a figure is a pre-sized grid of panels, each
// panel accepts overlaid line series. The package ships a terminal-chart
// implementation (TextRenderer) built on ntcharts braille line charts
// and lipgloss; the callback core depends only on the interfaces.
package render

// SizeHint suggests per-panel dimensions in renderer units. Figure width
// grows with the column count and height with the row count.
type SizeHint struct {
	PanelWidth  int
	PanelHeight int
}

// Line is one Y series drawn against a shared X series.
type Line struct {
	Label string
	Y     []float64
}

// LegendEntry pairs a series label with its rendered swatch.
type LegendEntry struct {
	Label  string
	Swatch string
}

// Legend is the label-to-swatch mapping captured from a panel.
type Legend []LegendEntry

// Panel is one drawable region of a figure.
type Panel interface {
	// SetTitle sets the panel title.
	SetTitle(title string)
	// DrawLines draws every line against x as an overlaid line plot.
	DrawLines(x []float64, lines []Line) error
	// SetAxisLabels sets the axis captions.
	SetAxisLabels(xLabel, yLabel string)
	// HideLegend suppresses this panel's own legend.
	HideLegend()
	// Legend returns the legend handles for what has been drawn.
	Legend() Legend
}

// Figure is a grid surface of rows x cols panels.
type Figure interface {
	// Panels returns every panel in row-major order. Panels that are
	// never drawn on stay blank.
	Panels() []Panel
	// SetTitle sets the figure-level title.
	SetTitle(title string)
	// SetLegend attaches one legend at figure scope.
	SetLegend(legend Legend)
	// Save persists the figure to path. The output format is owned by
	// the renderer.
	Save(path string) error
}

// Renderer allocates figures.
type Renderer interface {
	NewFigure(rows, cols int, hint SizeHint) Figure
}
