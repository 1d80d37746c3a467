package main

import (
	"encoding/json"
	"fmt"

	"github.com/limaJavier/touist/pkg/sat"
	"github.com/limaJavier/touist/pkg/solve"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSolversCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List the supported solvers and SAT backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.stdout, "Solvers:")
			for _, solver := range solve.SupportedSolvers() {
				fmt.Fprintf(app.stdout, "  %-10s %s\n", solver.Name(), solver.Description())
			}

			external := sat.BinarySolvers()
			fmt.Fprintln(app.stdout, "SAT backends:")
			for _, backend := range solve.Backends() {
				kind := lo.Ternary(lo.Contains(external, backend), "external", "built-in")
				fmt.Fprintf(app.stdout, "  %-14s %s\n", backend, kind)
			}

			fmt.Fprintf(app.stdout, "SMT logics: %v\n", solve.Logics())
			return nil
		},
	}
}

func newSettingsCommand(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the settings in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := app.loadSettings()
			if err != nil {
				return err
			}
			var data []byte
			if app.options.JSONOutput {
				data, err = json.MarshalIndent(stored, "", "  ")
				data = append(data, '\n')
			} else {
				data, err = yaml.Marshal(stored)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "# %s\n%s", app.settingsPath(), data)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting and save the settings file.

Keys: default_directory, solver, backend, logic and solver_paths.<backend>.
An empty value removes a solver path.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := app.loadSettings()
			if err != nil {
				return err
			}
			if err := stored.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := stored.Save(app.settingsPath()); err != nil {
				return err
			}
			app.logger.WithField("key", args[0]).Info("setting updated")
			return nil
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}
