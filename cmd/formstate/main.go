// Package main provides the formstate CLI entrypoint.
//
// Usage:
//
//	formstate <command> [options]
//
// Exit codes:
//   - 0: success
//   - 1: the store operation failed (transport or service error)
//   - 2: usage or configuration error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/formstate/cli/cmd"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

const exitUsage = 2

func main() {
	app := cmd.NewApp(commit)
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already exited for cli.ExitCoder errors.
		os.Exit(exitUsage)
	}
}

// exitErrHandler prints err and exits with its code.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	code, msg := exitStatus(err)
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(code)
}

// exitStatus maps err to an exit code and the message worth printing.
// cli.Exit codes pass through; any other error is a usage error
// (flag parsing, unknown command).
func exitStatus(err error) (int, string) {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N).Error() is "" or "exit status N"; skip those.
		if msg == fmt.Sprintf("exit status %d", code) {
			msg = ""
		}
		return code, msg
	}
	return exitUsage, fmt.Sprintf("Error: %v", err)
}
