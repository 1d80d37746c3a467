package main

import (
	"io"
	"os"
)

const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
	exitFailure       = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := &application{stdout: stdout, stderr: stderr}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		NewErrorHandler(app.options.Verbose, stderr).Handle(err)
		return exitFailure
	}
	return app.exitCode
}
