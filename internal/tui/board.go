package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
)

// RunBoard shows the interactive board until the user quits. Changes made
// elsewhere (another terminal, the sync server) refresh the board.
func RunBoard(ctx context.Context, svc *tracker.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	stop := svc.OnChange(func(*engine.Snapshot) { p.Send(changedMsg{}) })
	defer stop()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = svc.Watch(watchCtx) }()

	_, err := p.Run()
	return err
}
