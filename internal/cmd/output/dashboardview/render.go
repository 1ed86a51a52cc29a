package dashboardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fjord-cli/fjord/internal/dashboard"
	"github.com/fjord-cli/fjord/internal/theme"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// Frame is everything needed to draw one screen.
type Frame struct {
	Labels   []string
	Active   int
	Header   []string
	Rows     []dashboard.Row
	Selected int // -1 when no row is selected
	Load     dashboard.LoadState
	Status   string
	Failure  bool // Status reports a failed action
	Profile  string
	ShowHelp bool
	Keys     dashboard.KeyMap
	Tick     int
	Width    int
	Height   int
}

// Renderer turns a Frame into terminal output.
type Renderer interface {
	Render(f Frame) string
}

const (
	minTitleWidth  = 12
	minColumnWidth = 4
	// tab bar, table border, table header and its rule, status line, key hints
	chromeHeight = 7
)

var loadingFrames = spinner.Dot.Frames

type styles struct {
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	tabGap      lipgloss.Style
	box         lipgloss.Style
	table       table.Styles
	unselected  table.Styles
	status      lipgloss.Style
	statusError lipgloss.Style
	loading     lipgloss.Style
	empty       lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		BorderBottom(true).
		Bold(true).
		Foreground(p.Adaptive(theme.ColorTextPrimary))
	ts.Cell = ts.Cell.Foreground(p.Adaptive(theme.ColorTextPrimary))
	ts.Selected = ts.Selected.
		Foreground(p.Adaptive(theme.ColorHighlightText)).
		Background(p.Adaptive(theme.ColorHighlight)).
		Bold(true)

	unselected := ts
	unselected.Selected = ts.Cell

	return styles{
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(p.Adaptive(theme.ColorAccentText)).
			Background(p.Adaptive(theme.ColorAccent)),
		inactiveTab: lipgloss.NewStyle().Padding(0, 1).
			Foreground(p.Adaptive(theme.ColorTextSecondary)),
		tabGap: p.ForegroundStyle(theme.ColorBorder),
		box: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Adaptive(theme.ColorBorder)),
		table:       ts,
		unselected:  unselected,
		status:      p.ForegroundStyle(theme.ColorTextMuted),
		statusError: p.ForegroundStyle(theme.ColorDanger),
		loading:     p.ForegroundStyle(theme.ColorAccent),
		empty:       p.ForegroundStyle(theme.ColorTextMuted).Italic(true),
	}
}

// TableRenderer draws the tab bar, the current tab's table and a status line.
type TableRenderer struct {
	palette   theme.Palette
	styles    styles
	help      help.Model
	helpStyle string

	helpWidth int
	helpCache string
}

// NewTableRenderer styles output with palette, or the active theme when nil.
func NewTableRenderer(palette *theme.Palette) *TableRenderer {
	p := theme.Current()
	if palette != nil {
		p = *palette
	}
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = p.ForegroundStyle(theme.ColorTextSecondary)
	h.Styles.ShortDesc = p.ForegroundStyle(theme.ColorTextMuted)
	h.Styles.ShortSeparator = p.ForegroundStyle(theme.ColorBorder)

	helpStyle := "light"
	if p.Name == "fjord-dark" {
		helpStyle = "dark"
	}
	return &TableRenderer{palette: p, styles: newStyles(p), help: h, helpStyle: helpStyle}
}

func (r *TableRenderer) Render(f Frame) string {
	width := f.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := f.Height
	if height <= 0 {
		height = defaultHeight
	}

	var body string
	if f.ShowHelp {
		body = r.renderHelp(f.Keys, width)
	} else {
		body = r.renderTable(f, width, max(1, height-chromeHeight))
	}

	r.help.Width = width
	return lipgloss.JoinVertical(lipgloss.Left,
		r.renderTabs(f.Labels, f.Active, width),
		body,
		r.renderStatus(f, width),
		r.help.View(f.Keys),
	)
}

func (r *TableRenderer) renderTabs(labels []string, active, width int) string {
	parts := make([]string, 0, len(labels)*2)
	for i, label := range labels {
		if i > 0 {
			parts = append(parts, r.styles.tabGap.Render("│"))
		}
		if i == active {
			parts = append(parts, r.styles.activeTab.Render(label))
		} else {
			parts = append(parts, r.styles.inactiveTab.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(bar) > width {
		bar = truncate.StringWithTail(bar, uint(width), "…")
	}
	return bar
}

func (r *TableRenderer) renderTable(f Frame, width, height int) string {
	frameWidth, _ := r.styles.box.GetFrameSize()
	inner := max(minColumnWidth, width-frameWidth)

	if len(f.Rows) == 0 {
		msg := "No items."
		if f.Load != dashboard.Loaded {
			msg = "Loading…"
		}
		content := lipgloss.NewStyle().Width(inner).Height(height + 2).
			Render(r.styles.empty.Render(msg))
		return r.styles.box.Render(content)
	}

	padding := r.styles.table.Cell.GetHorizontalFrameSize()
	widths := columnWidths(f.Header, f.Rows, inner-padding*len(f.Header))
	columns := make([]table.Column, len(f.Header))
	for i, title := range f.Header {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	rows := make([]table.Row, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = table.Row(row)
	}

	st := r.styles.table
	if f.Selected < 0 {
		st = r.styles.unselected
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height+2),
		table.WithWidth(inner),
		table.WithStyles(st),
	)
	if f.Selected >= 0 {
		t.SetCursor(f.Selected)
	}
	return r.styles.box.Render(t.View())
}

func (r *TableRenderer) renderStatus(f Frame, width int) string {
	parts := make([]string, 0, 4)
	if f.Profile != "" {
		parts = append(parts, "profile "+f.Profile)
	}
	switch f.Load {
	case dashboard.NotLoaded, dashboard.Loading:
		frame := loadingFrames[f.Tick%len(loadingFrames)]
		parts = append(parts, r.styles.loading.Render(strings.TrimSpace(frame)+" loading"))
	case dashboard.Loaded:
		parts = append(parts, itemCount(len(f.Rows)))
		if f.Selected >= 0 {
			parts = append(parts, fmt.Sprintf("%d/%d", f.Selected+1, len(f.Rows)))
		}
	}
	line := r.styles.status.Render(strings.Join(parts, " · "))
	if f.Status != "" {
		style := r.styles.status
		if f.Failure {
			style = r.styles.statusError
		}
		line += r.styles.status.Render(" · ") + style.Render(f.Status)
	}
	return truncate.StringWithTail(line, uint(width), "…")
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

func helpMarkdown(keys dashboard.KeyMap) string {
	var b strings.Builder
	b.WriteString("# Keys\n\n| key | action |\n|---|---|\n")
	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nTabs load on first visit. Press `r` to fetch the current tab again.\n")
	return b.String()
}

// renderHelp renders the key reference with glamour, caching the result
// until the width changes.
func (r *TableRenderer) renderHelp(keys dashboard.KeyMap, width int) string {
	if r.helpCache != "" && r.helpWidth == width {
		return r.helpCache
	}
	md := helpMarkdown(keys)
	out := md
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.helpStyle),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err == nil {
		if rendered, err := renderer.Render(md); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	r.helpWidth, r.helpCache = width, out
	return out
}

// columnWidths sizes columns to their widest cell in display cells. When
// the total exceeds avail the first (title) column shrinks first, then the
// others.
func columnWidths(header []string, rows []dashboard.Row, avail int) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	if len(widths) == 0 {
		return widths
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	if total <= avail {
		widths[0] += avail - total
		return widths
	}

	others := total - widths[0]
	widths[0] = max(minTitleWidth, avail-others)
	over := widths[0] + others - avail
	for i := len(widths) - 1; i > 0 && over > 0; i-- {
		cut := min(over, widths[i]-minColumnWidth)
		if cut > 0 {
			widths[i] -= cut
			over -= cut
		}
	}
	return widths
}
