// Package main implements the curvesim CLI: it runs simulation
// scenarios and renders per-strategy curve figures.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
	"github.com/fyrsmithlabs/curvesim/internal/config"
	"github.com/fyrsmithlabs/curvesim/internal/graph"
	"github.com/fyrsmithlabs/curvesim/internal/logging"
	"github.com/fyrsmithlabs/curvesim/internal/monitor"
	"github.com/fyrsmithlabs/curvesim/internal/render"
	"github.com/fyrsmithlabs/curvesim/internal/task"
)

var (
	configPath   string
	scenarioPath string
	curvesFamily string
	outputPath   string
	live         bool

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "curvesim",
	Short:   "Simulate early-stopping strategies over learning curves",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario and render its curve figures",
	Long: `Run every configured strategy variant over every curve a scenario
declares and render one figure per task.

Examples:
  # Render learning curves for a scenario
  curvesim run --scenario scenario.yaml --curves learning --out ./out

  # Render patience curves with a live progress view
  curvesim run --scenario scenario.yaml --curves patience --live`,
	RunE: runScenario,
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file (YAML, required)")
	runCmd.Flags().StringVar(&curvesFamily, "curves", "learning", "curve family to render: learning or patience")
	runCmd.Flags().StringVar(&outputPath, "out", "", "output directory (overrides config)")
	runCmd.Flags().BoolVar(&live, "live", false, "show a live progress dashboard")
	_ = runCmd.MarkFlagRequired("scenario")
}

func runScenario(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	spec, err := aggregatorSpec(curvesFamily)
	if err != nil {
		return err
	}

	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}

	callbacks := []callback.SimulationCallback{
		graph.New(spec, render.NewTextRenderer(),
			graph.WithOutputPath(cfg.Output.Path),
			graph.WithLogger(logger),
		),
	}

	var program *tea.Program
	if live {
		program = tea.NewProgram(monitor.NewModel())
		callbacks = append(callbacks, monitor.NewLiveCallback(program.Send))
	}

	metrics, err := task.NewMetrics(nil)
	if err != nil {
		return err
	}
	runner := task.NewRunner(callbacks,
		task.WithLogger(logger),
		task.WithMetrics(metrics),
	)

	t := task.Task{
		CurveData:  scenario.CurveData,
		Strategies: scenario.ResolveStrategies(cfg.Simulation),
		Filters:    cfg.Filters,
		Large:      cfg.Simulation.Large,
	}

	if program != nil {
		if err := runWithDashboard(cmd.Context(), program, runner, t); err != nil {
			return err
		}
	} else if err := runner.Run(cmd.Context(), t); err != nil {
		return err
	}

	logger.Info("scenario finished",
		zap.String("scenario", scenarioPath),
		zap.String("output", cfg.Output.Path),
	)
	return nil
}

// runWithDashboard runs the task alongside a live dashboard. The runner
// goroutine quits the program when it finishes, so a failed run (which
// never reaches AfterTask and therefore never sends TaskFinishedMsg)
// cannot leave the dashboard blocking forever.
func runWithDashboard(ctx context.Context, program *tea.Program, runner *task.Runner, t task.Task) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Run(ctx, t)
		program.Quit()
	}()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return <-errCh
}

// aggregatorSpec maps the --curves flag to an aggregator family.
func aggregatorSpec(family string) (callback.AggregatorSpec, error) {
	switch family {
	case "learning":
		return callback.LearningCurves(), nil
	case "patience":
		return callback.PatienceCurves(), nil
	default:
		return callback.AggregatorSpec{}, fmt.Errorf("unknown curve family %q (want learning or patience)", family)
	}
}

