package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/formstate/types"
)

// NewApp returns the formstate CLI application.
func NewApp(commit string) *cli.App {
	return &cli.App{
		Name:    "formstate",
		Usage:   "Fetch, save and delete form submissions",
		Version: fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Commands: []*cli.Command{
			GetCommand(),
			SaveCommand(),
			DeleteCommand(),
			VersionCommand(commit),
		},
	}
}
