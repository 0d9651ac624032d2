package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/formstate/cli/render"
	"github.com/pithecene-io/formstate/submission"
)

// Operation is the store call the live view follows.
type Operation func(ctx context.Context) error

// Run shows store in a full-screen view while op runs. Every dispatch is
// forwarded to the program through a store subscription. It returns the
// operation error, or context.Canceled when the user quit early.
func Run(ctx context.Context, title string, store *submission.Store, op Operation, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	initial := render.NewStateView(store.ID(), "", store.State())
	model := NewSubmissionModel(title, initial, cancel)

	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	unsubscribe := store.Subscribe(func(a submission.Action, s submission.State) {
		p.Send(StateMsg{View: render.NewStateView(store.ID(), string(a.Type()), s)})
	})
	defer unsubscribe()

	opErr := make(chan error, 1)
	go func() {
		err := op(ctx)
		opErr <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}

	// The user may quit before the operation returns; wait for it so the
	// caller renders a settled state.
	return <-opErr
}
