package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/errboard/internal/snapshot"
)

// Run starts the dashboard on store and blocks until the user quits
func Run(store *snapshot.Store, opts Options) error {
	model := NewModel(store, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())

	// Subscribe before starting the forwarder so no reload is missed
	subID, ch := store.Subscribe()
	go forwardUpdates(ctx, p, ch)

	_, err := p.Run()

	// Cleanup: cancel context and unsubscribe
	cancel()
	store.Unsubscribe(subID)

	return err
}

// programSender is the part of *tea.Program the forwarder needs
type programSender interface {
	Send(msg tea.Msg)
}

// forwardUpdates forwards snapshot updates from the subscription channel to
// the TUI program. It exits when the context is cancelled or the channel is
// closed.
func forwardUpdates(ctx context.Context, p programSender, ch <-chan snapshot.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			p.Send(SnapshotMsg(u))
		}
	}
}
