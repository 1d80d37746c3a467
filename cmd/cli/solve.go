package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/results"
	"github.com/limaJavier/touist/pkg/settings"
	"github.com/limaJavier/touist/pkg/solve"
	"github.com/limaJavier/touist/pkg/tui/resultsview"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const modelSeparator = "====="

type solveFlags struct {
	solver      string
	backend     string
	format      string
	limit       int
	interactive bool
}

func newSolveCommand(app *application) *cobra.Command {
	flags := solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Solve a formula or DIMACS file and show its models",
		Long: `Solve a propositional formula or a DIMACS CNF file.

Every model found is printed, separated by "=====" lines, or
"No solution found" when the problem is unsatisfiable. The exit code is 10
when at least one model was found and 20 otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.solve(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.solver, "solver", "", "Solver kind: sat or smt (defaults to the settings)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", fmt.Sprintf("SAT backend, one of: %s", strings.Join(solve.Backends(), ", ")))
	cmd.Flags().StringVar(&flags.format, "format", string(solve.FormatAuto), "Input format: auto, dimacs or formula")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Print at most this many models; 0 prints all of them. The solver is asked for one model more, to tell whether the last one printed is the last one")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Browse the models in the results viewer")
	return cmd
}

func (app *application) solve(cmd *cobra.Command, path string, flags solveFlags) error {
	if flags.limit < 0 {
		return errors.InvalidInput("--limit must not be negative", nil)
	}
	options, defaultDirectory, err := app.solveOptions(cmd, flags)
	if err != nil {
		return err
	}
	format, err := solve.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	instance, err := solve.LoadInstance(resolvePath(path, defaultDirectory), format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := solve.Open(ctx, options, instance)
	if err != nil {
		return err
	}
	app.logger.WithFields(logrus.Fields{
		"file":    path,
		"backend": session.Backend(),
	}).Debug("solving")

	navigator := results.NewNavigator()
	defer navigator.Close()
	if flags.interactive {
		return app.browse(navigator, session)
	}
	return app.printModels(ctx, navigator, session, flags.limit)
}

// solveOptions merges the command flags over the stored settings.
func (app *application) solveOptions(cmd *cobra.Command, flags solveFlags) (solve.Options, string, error) {
	stored, err := app.loadSettings()
	if err != nil {
		return solve.Options{}, "", err
	}
	if cmd.Flags().Changed("solver") {
		if err := stored.Set(settings.KeySolver, flags.solver); err != nil {
			return solve.Options{}, "", err
		}
	}
	if cmd.Flags().Changed("backend") {
		if !solve.IsBackend(flags.backend) {
			return solve.Options{}, "", errors.UnsupportedSolver(flags.backend)
		}
		stored.Backend = flags.backend
	}
	options, err := stored.SolveOptions()
	return options, stored.DefaultDirectory, err
}

func (app *application) printModels(ctx context.Context, navigator *results.Navigator, source results.Source, limit int) error {
	state, err := navigator.Initialize(ctx, source)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeSolverUnavailable) {
			return err
		}
		app.reportNoModel(navigator)
		return nil
	}

	printed := 0
	for {
		model, _ := navigator.Current()
		if printed > 0 {
			fmt.Fprintln(app.stdout, modelSeparator)
		}
		fmt.Fprintln(app.stdout, model.String())
		printed++

		if !state.CanAdvance() || (limit > 0 && printed >= limit) {
			break
		}
		if state, err = navigator.Advance(ctx); err != nil {
			return err
		}
	}

	if cause := navigator.Err(); cause != nil {
		app.logger.WithError(cause).Warn("the solver stopped before every model was found")
	}
	app.exitCode = exitSatisfiable
	return nil
}

func (app *application) browse(navigator *results.Navigator, source results.Source) error {
	program := tea.NewProgram(resultsview.New(navigator, source), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "results viewer failed")
	}

	if view, ok := final.(resultsview.Model); ok && view.State() != results.NoResult {
		app.exitCode = exitSatisfiable
	} else {
		app.exitCode = exitUnsatisfiable
	}
	return nil
}

func (app *application) reportNoModel(navigator *results.Navigator) {
	if cause := navigator.Err(); cause != nil && !errors.Is(cause, errors.ErrCodeExhausted) {
		app.logger.WithError(cause).Warn("solver failed before producing a model")
	}
	fmt.Fprintln(app.stdout, resultsview.NoSolutionMessage)
	app.exitCode = exitUnsatisfiable
}

// resolvePath looks relative paths up in the default directory when they do
// not exist in the working directory.
func resolvePath(path, defaultDirectory string) string {
	if filepath.IsAbs(path) || defaultDirectory == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(defaultDirectory, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
