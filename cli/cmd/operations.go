package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/formstate/submission"
	"github.com/pithecene-io/formstate/types"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Fetch one submission",
		Flags: OperationFlags(
			formFlag(),
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Submission ID",
				Required: true,
			},
		),
		Action: getAction,
	}
}

// SaveCommand returns the save command.
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Create or update a submission (update when the record has an _id)",
		Flags: OperationFlags(
			formFlag(),
			&cli.StringFlag{
				Name:     "data",
				Usage:    "Submission record as JSON, @path to read a file, or - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Set the record _id (forces an update)",
			},
		),
		Action: saveAction,
	}
}

// DeleteCommand returns the delete command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete one submission",
		Flags: OperationFlags(
			formFlag(),
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Submission ID",
				Required: true,
			},
		),
		Action: deleteAction,
	}
}

func getAction(c *cli.Context) error {
	formID, id := c.String("form"), c.String("id")
	return withSession(c, func(ctx context.Context, s *session) error {
		return s.run(ctx, c, fmt.Sprintf("get %s/%s", formID, id), func(ctx context.Context) error {
			_, err := s.store.Fetch(ctx, id, formID, s.done("fetch"))
			return err
		})
	})
}

func saveAction(c *cli.Context) error {
	formID := c.String("form")
	data, err := readSubmission(c.String("data"), c.App.Reader)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if c.IsSet("id") {
		data[types.IDKey] = c.String("id")
	}

	title := "create in " + formID
	if data.HasID() {
		title = fmt.Sprintf("update %s/%s", formID, data.ID())
	}

	return withSession(c, func(ctx context.Context, s *session) error {
		return s.run(ctx, c, title, func(ctx context.Context) error {
			_, err := s.store.Save(ctx, data, formID, s.done("save"))
			return err
		})
	})
}

func deleteAction(c *cli.Context) error {
	formID, id := c.String("form"), c.String("id")
	return withSession(c, func(ctx context.Context, s *session) error {
		return s.run(ctx, c, fmt.Sprintf("delete %s/%s", formID, id), func(ctx context.Context) error {
			return s.store.Delete(ctx, id, formID, s.done("delete"))
		})
	})
}

// withSession builds a session with signal-aware context, runs fn and
// closes the session. Setup failures exit with exitUsage.
func withSession(c *cli.Context, fn func(ctx context.Context, s *session) error) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	defer s.close()

	return fn(ctx, s)
}

// done returns the operation callback used by the CLI.
func (s *session) done(op string) submission.Done {
	return func(err error, _ any) {
		if err != nil {
			return
		}
		st := s.store.State()
		s.logger.Sugar().Infof("%s succeeded: form=%s submission=%s", op, st.FormID, st.ID)
	}
}

// readSubmission decodes a record from an inline JSON value, @path or -.
func readSubmission(arg string, stdin io.Reader) (types.Submission, error) {
	var raw []byte
	switch {
	case arg == "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("cannot read submission from stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(arg, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("cannot read submission file: %w", err)
		}
		raw = b
	default:
		raw = []byte(arg)
	}

	var data types.Submission
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid submission JSON: %w", err)
	}
	if data == nil {
		return nil, errors.New("submission must be a JSON object")
	}
	return data, nil
}
