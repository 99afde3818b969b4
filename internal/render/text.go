package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoData is returned when a panel is asked to draw an empty X series.
var ErrNoData = errors.New("no data points to draw")

const (
	defaultPanelWidth  = 36
	defaultPanelHeight = 10
)

// Line colors cycle through this palette in draw order.
var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

var (
	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238"))

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	figureTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("51")).
				Bold(true)

	axisLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// TextRenderer renders figures as composed terminal charts persisted to
// plain-text files.
type TextRenderer struct{}

// NewTextRenderer returns a renderer producing text figures.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// NewFigure allocates a rows x cols grid of blank panels.
func (r *TextRenderer) NewFigure(rows, cols int, hint SizeHint) Figure {
	if hint.PanelWidth <= 0 {
		hint.PanelWidth = defaultPanelWidth
	}
	if hint.PanelHeight <= 0 {
		hint.PanelHeight = defaultPanelHeight
	}
	panels := make([]*textPanel, rows*cols)
	for i := range panels {
		panels[i] = &textPanel{width: hint.PanelWidth, height: hint.PanelHeight}
	}
	return &textFigure{rows: rows, cols: cols, panels: panels}
}

type textFigure struct {
	rows, cols int
	title      string
	legend     Legend
	panels     []*textPanel
}

func (f *textFigure) Panels() []Panel {
	out := make([]Panel, len(f.panels))
	for i, p := range f.panels {
		out[i] = p
	}
	return out
}

func (f *textFigure) SetTitle(title string) { f.title = title }

func (f *textFigure) SetLegend(legend Legend) { f.legend = legend }

// Save composes the panel grid row-major and writes it to path. A ".txt"
// extension is appended when path carries none.
func (f *textFigure) Save(path string) error {
	if path == "" {
		return errors.New("output path is empty")
	}
	if filepath.Ext(path) == "" {
		path += ".txt"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var rows []string
	for row := 0; row < f.rows; row++ {
		cells := make([]string, 0, f.cols)
		for col := 0; col < f.cols; col++ {
			cells = append(cells, f.panels[row*f.cols+col].view())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)

	var b strings.Builder
	if f.title != "" {
		b.WriteString(figureTitleStyle.Render(f.title))
		b.WriteString("\n")
	}
	if len(f.legend) > 0 {
		entries := make([]string, 0, len(f.legend))
		for _, e := range f.legend {
			entries = append(entries, e.Swatch+" "+e.Label)
		}
		b.WriteString(strings.Join(entries, "   "))
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	return nil
}

type textPanel struct {
	width, height  int
	title          string
	xLabel, yLabel string
	legendHidden   bool
	legend         Legend
	chart          string
}

func (p *textPanel) SetTitle(title string) { p.title = title }

func (p *textPanel) SetAxisLabels(xLabel, yLabel string) {
	p.xLabel = xLabel
	p.yLabel = yLabel
}

func (p *textPanel) HideLegend() { p.legendHidden = true }

func (p *textPanel) Legend() Legend {
	return append(Legend(nil), p.legend...)
}

// DrawLines plots every line against x as overlaid braille line charts
// sharing one coordinate system.
func (p *textPanel) DrawLines(x []float64, lines []Line) error {
	if len(x) == 0 {
		return ErrNoData
	}

	minX, maxX := bounds(x)
	minY, maxY := minX, minX
	first := true
	for _, line := range lines {
		if len(line.Y) == 0 {
			continue
		}
		lo, hi := bounds(line.Y)
		if first {
			minY, maxY = lo, hi
			first = false
			continue
		}
		minY = min(minY, lo)
		maxY = max(maxY, hi)
	}
	// Degenerate ranges blow up axis scaling.
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	lc := linechart.New(p.width, p.height, minX, maxX, minY, maxY,
		linechart.WithXYSteps(4, 3))
	lc.DrawXYAxisAndLabel()

	for i, line := range lines {
		style := palette[i%len(palette)]
		n := len(line.Y)
		if n > len(x) {
			n = len(x)
		}
		if n == 1 {
			pt := canvas.Float64Point{X: x[0], Y: line.Y[0]}
			lc.DrawBrailleLineWithStyle(pt, pt, style)
		}
		for j := 1; j < n; j++ {
			lc.DrawBrailleLineWithStyle(
				canvas.Float64Point{X: x[j-1], Y: line.Y[j-1]},
				canvas.Float64Point{X: x[j], Y: line.Y[j]},
				style,
			)
		}
		p.legend = append(p.legend, LegendEntry{
			Label:  line.Label,
			Swatch: style.Render("──"),
		})
	}

	p.chart = lc.View()
	return nil
}

func (p *textPanel) view() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString(panelTitleStyle.Render(p.title))
		b.WriteString("\n")
	}
	if p.chart == "" {
		// Unused trailing panels stay blank.
		blank := strings.Repeat(strings.Repeat(" ", p.width)+"\n", p.height)
		b.WriteString(strings.TrimSuffix(blank, "\n"))
	} else {
		b.WriteString(p.chart)
	}
	if p.xLabel != "" || p.yLabel != "" {
		b.WriteString("\n")
		b.WriteString(axisLabelStyle.Render(fmt.Sprintf("x: %s  y: %s", p.xLabel, p.yLabel)))
	}
	if !p.legendHidden && len(p.legend) > 0 {
		entries := make([]string, 0, len(p.legend))
		for _, e := range p.legend {
			entries = append(entries, e.Swatch+" "+e.Label)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(entries, "  "))
	}
	return panelBorderStyle.Render(b.String())
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
