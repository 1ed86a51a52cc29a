package dashboardview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjord-cli/fjord/internal/dashboard"
	"github.com/fjord-cli/fjord/internal/log"
)

// ItemSource returns every item of a kind. Implementations must be safe to
// call from a goroutine other than the event loop.
type ItemSource interface {
	Fetch(ctx context.Context, kind dashboard.Kind) ([]dashboard.Item, error)
}

// tickMsg is the periodic heartbeat that drives lazy loading.
type tickMsg time.Time

// fetchedMsg carries the result of a background fetch for the tab at index.
type fetchedMsg struct {
	index int
	items []dashboard.Item
	err   error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchCmd(ctx context.Context, source ItemSource, index int, tab *dashboard.Tab) tea.Cmd {
	kind := tab.Kind
	ctx = log.WithFetchLogContext(ctx, log.FetchLogContext{
		Command: "dashboard",
		Tab:     tab.Label,
	})
	return func() tea.Msg {
		items, err := source.Fetch(ctx, kind)
		return fetchedMsg{index: index, items: items, err: err}
	}
}
