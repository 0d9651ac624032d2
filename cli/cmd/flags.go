// Package cmd provides CLI commands for the formstate binary.
package cmd

import "github.com/urfave/cli/v2"

// Exit codes.
const (
	exitSuccess         = 0
	exitOperationFailed = 1
	exitUsage           = 2
)

// Output flags shared by every command.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables the Bubble Tea live view.
	// Only valid for commands that run a store operation.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Follow the operation in an interactive view (get, save, delete only)",
	}
)

// Connection flags for commands that talk to the form service.
// Explicit values override formstate.yaml.
var (
	// ConfigFlag points at the config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: ./formstate.yaml when present)",
		EnvVars: []string{"FORMSTATE_CONFIG"},
	}

	// ProjectURLFlag sets the base form-service URL.
	ProjectURLFlag = &cli.StringFlag{
		Name:    "project-url",
		Usage:   "Base form-service project URL",
		EnvVars: []string{"FORMSTATE_PROJECT_URL"},
	}

	// TokenFlag sets the x-jwt-token credential.
	TokenFlag = &cli.StringFlag{
		Name:    "token",
		Usage:   "JWT sent as x-jwt-token",
		EnvVars: []string{"FORMSTATE_TOKEN"},
	}

	// TimeoutFlag sets the form-service HTTP timeout.
	TimeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Form-service request timeout (default 30s)",
	}

	// VerboseFlag enables debug logging on stderr.
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every dispatched action on stderr",
	}
)

// OutputFlags returns the shared output flags.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// OperationFlags returns the flags for commands that run a store operation.
func OperationFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		ConfigFlag,
		ProjectURLFlag,
		TokenFlag,
		TimeoutFlag,
		VerboseFlag,
	}
	flags = append(flags, OutputFlags()...)
	return append(flags, extra...)
}

func formFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "form",
		Usage:    "Parent form ID",
		Required: true,
	}
}
