package main

import (
	"io"

	"github.com/limaJavier/touist/pkg/logging"
	"github.com/limaJavier/touist/pkg/settings"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the flags shared by every command
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

type application struct {
	stdout   io.Writer
	stderr   io.Writer
	options  CommandOptions
	exitCode int
	logger   *logrus.Entry
}

func newRootCommand(app *application) *cobra.Command {
	root := &cobra.Command{
		Use:           "touist",
		Short:         "Solve propositional logic problems and browse their models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.configureLogging()
		},
	}

	root.PersistentFlags().BoolVarP(&app.options.Verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&app.options.JSONOutput, "json", false, "Write logs in JSON format")
	root.PersistentFlags().StringVarP(&app.options.ConfigFile, "config", "c", "", "Path to the settings file")

	root.AddCommand(
		newSolveCommand(app),
		newSolversCommand(app),
		newSettingsCommand(app),
	)
	return root
}

func (app *application) configureLogging() {
	logging.SetOutput(app.stderr)
	if app.options.Verbose {
		logging.SetLevel(logrus.DebugLevel)
	}
	if app.options.JSONOutput {
		logging.SetJSON()
	}
	app.logger = logging.NewLogger("cli")
}

func (app *application) settingsPath() string {
	if app.options.ConfigFile != "" {
		return app.options.ConfigFile
	}
	return settings.DefaultPath()
}

func (app *application) loadSettings() (*settings.Settings, error) {
	path := app.settingsPath()
	app.logger.WithField("path", path).Debug("loading settings")
	return settings.Load(path)
}
