package dashboardview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fjord-cli/fjord/internal/dashboard"
	"github.com/fjord-cli/fjord/internal/theme"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
)

func testFrame() Frame {
	return Frame{
		Labels:   []string{"Reports", "Products"},
		Active:   1,
		Header:   dashboard.KindProducts.Header(),
		Rows:     []dashboard.Row{{"Git入門", "2024-05-01", "alice", "✓"}, {"SQL", "2024-05-02", "bob", ""}},
		Selected: 1,
		Load:     dashboard.Loaded,
		Profile:  "default",
		Keys:     dashboard.DefaultKeyMap(),
		Width:    80,
		Height:   20,
	}
}

func newTestRenderer(t *testing.T) *TableRenderer {
	t.Helper()
	p, ok := theme.Get(theme.DefaultName)
	require.True(t, ok)
	return NewTableRenderer(&p)
}

func TestTableRendererLayout(t *testing.T) {
	out := ansi.Strip(newTestRenderer(t).Render(testFrame()))

	lines := strings.Split(out, "\n")
	require.Contains(t, lines[0], "Reports")
	require.Contains(t, lines[0], "Products")
	require.Contains(t, out, "TITLE")
	require.Contains(t, out, "ASSIGNED")
	require.Contains(t, out, "Git入門")
	require.Contains(t, out, "bob")
	require.Contains(t, out, "profile default · 2 items · 2/2")
	require.Contains(t, out, "quit")

	for _, line := range lines {
		require.LessOrEqual(t, lipgloss.Width(line), 80, "line %q", line)
	}
	require.LessOrEqual(t, len(lines), 20)
}

func TestTableRendererLoadingAndEmpty(t *testing.T) {
	r := newTestRenderer(t)

	f := testFrame()
	f.Rows, f.Selected, f.Load = nil, -1, dashboard.Loading
	out := ansi.Strip(r.Render(f))
	require.Contains(t, out, "Loading…")
	require.Contains(t, out, "loading")

	f.Load = dashboard.Loaded
	out = ansi.Strip(r.Render(f))
	require.Contains(t, out, "No items.")
	require.Contains(t, out, "0 items")
}

func TestTableRendererStatusMessage(t *testing.T) {
	f := testFrame()
	f.Status, f.Failure = "open failed: no browser", true
	out := ansi.Strip(newTestRenderer(t).Render(f))
	require.Contains(t, out, "open failed: no browser")
}

func TestTableRendererHelpOverlay(t *testing.T) {
	r := newTestRenderer(t)
	f := testFrame()
	f.ShowHelp = true

	out := ansi.Strip(r.Render(f))
	require.Contains(t, out, "Keys")
	require.Contains(t, out, "copy url")
	require.Contains(t, out, "refresh")
	require.NotContains(t, out, "Git入門")

	cached := r.helpCache
	r.Render(f)
	require.Equal(t, cached, r.helpCache)
}

func TestColumnWidthsFitAvailableSpace(t *testing.T) {
	header := []string{"TITLE", "UPDATED ON", "USER"}
	rows := []dashboard.Row{{strings.Repeat("日", 40), "2024-05-01", "alice"}}

	widths := columnWidths(header, rows, 50)
	total := 0
	for _, w := range widths {
		total += w
	}
	require.Equal(t, 50, total)
	require.Equal(t, []int{35, 10, 5}, widths)

	widths = columnWidths(header, []dashboard.Row{{"a", "b", "c"}}, 40)
	require.Equal(t, []int{40 - 10 - 4, 10, 4}, widths)

	widths = columnWidths(header, rows, 20)
	require.Equal(t, minTitleWidth, widths[0])
	require.GreaterOrEqual(t, widths[1], minColumnWidth)

	require.Equal(t, 2, runewidth.StringWidth("日"))
}
