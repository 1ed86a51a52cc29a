package dashboardview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjord-cli/fjord/internal/dashboard"
	"github.com/fjord-cli/fjord/internal/launcher"
)

const (
	DefaultTickInterval = 200 * time.Millisecond

	defaultWidth  = 80
	defaultHeight = 24
)

// Options wires the dashboard to its collaborators. Registry and Source are
// required; everything else has a default.
type Options struct {
	Registry     *dashboard.TabRegistry
	Source       ItemSource
	Opener       launcher.Opener
	Copier       launcher.Copier
	Renderer     Renderer
	KeyMap       *dashboard.KeyMap
	TickInterval time.Duration
	Profile      string
	Logger       *slog.Logger
}

// Model is the dashboard event loop. Every key press and tick is applied
// to the tab registry in Update; View renders the resulting state.
type Model struct {
	ctx          context.Context
	registry     *dashboard.TabRegistry
	source       ItemSource
	opener       launcher.Opener
	copier       launcher.Copier
	renderer     Renderer
	keys         dashboard.KeyMap
	tickInterval time.Duration
	profile      string
	logger       *slog.Logger

	width    int
	height   int
	ticks    int
	status   string
	failure  bool
	showHelp bool
	quitting bool
	err      error
}

func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("dashboard: a tab registry is required")
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("dashboard: an item source is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m := &Model{
		ctx:          ctx,
		registry:     opts.Registry,
		source:       opts.Source,
		opener:       opts.Opener,
		copier:       opts.Copier,
		renderer:     opts.Renderer,
		tickInterval: opts.TickInterval,
		profile:      opts.Profile,
		logger:       opts.Logger,
		width:        defaultWidth,
		height:       defaultHeight,
	}
	if m.opener == nil {
		m.opener = launcher.NewBrowserOpener()
	}
	if m.copier == nil {
		m.copier = launcher.ClipboardCopier{}
	}
	if m.renderer == nil {
		m.renderer = NewTableRenderer(nil)
	}
	if opts.KeyMap != nil {
		m.keys = *opts.KeyMap
	} else {
		m.keys = dashboard.DefaultKeyMap()
	}
	if m.tickInterval <= 0 {
		m.tickInterval = DefaultTickInterval
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m, nil
}

// Err returns the fetch error that stopped the loop, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		return m, m.handleTick()
	case fetchedMsg:
		return m, m.handleFetched(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	action := m.keys.Action(msg.String())
	if action == dashboard.ActionNone {
		return nil
	}
	m.status, m.failure = "", false

	effect := m.registry.Dispatch(action)
	switch effect.Kind {
	case dashboard.EffectNone:
	case dashboard.EffectQuit:
		m.quitting = true
		return tea.Quit
	case dashboard.EffectToggleHelp:
		m.showHelp = !m.showHelp
	case dashboard.EffectOpen:
		if err := m.opener.Open(effect.URL); err != nil {
			m.logger.Warn("failed to open item", "url", effect.URL, "error", err)
			m.status, m.failure = "open failed: "+err.Error(), true
		} else {
			m.status = "opened " + effect.URL
		}
	case dashboard.EffectCopy:
		if err := m.copier.Copy(effect.URL); err != nil {
			m.logger.Warn("failed to copy item url", "url", effect.URL, "error", err)
			m.status, m.failure = "copy failed: "+err.Error(), true
		} else {
			m.status = "copied " + effect.URL
		}
	}
	return nil
}

// handleTick starts a fetch for the current tab when it has never been
// loaded. A tab that is already loading or loaded is left alone.
func (m *Model) handleTick() tea.Cmd {
	m.ticks++
	next := tickCmd(m.tickInterval)

	index := m.registry.CurrentIndex()
	tab := m.registry.Current()
	if !tab.View.BeginLoad() {
		return next
	}
	m.logger.Debug("loading tab", "tab", tab.Label, "resource", tab.Kind.Resource())
	return tea.Batch(fetchCmd(m.ctx, m.source, index, tab), next)
}

func (m *Model) handleFetched(msg fetchedMsg) tea.Cmd {
	tab := m.registry.Tab(msg.index)
	if tab == nil {
		return nil
	}
	if msg.err != nil {
		m.logger.Error("fetch failed", "tab", tab.Label, "error", msg.err)
		m.err = fmt.Errorf("loading %s: %w", tab.Label, msg.err)
		m.quitting = true
		return tea.Quit
	}
	tab.View.Install(msg.items)
	m.logger.Debug("tab loaded", "tab", tab.Label, "items", len(msg.items))
	return nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderer.Render(m.frame())
}

func (m *Model) frame() Frame {
	tab := m.registry.Current()
	selected := -1
	if i, ok := tab.View.Selected(); ok {
		selected = i
	}
	return Frame{
		Labels:   m.registry.Labels(),
		Active:   m.registry.CurrentIndex(),
		Header:   tab.Kind.Header(),
		Rows:     tab.View.Rows(),
		Selected: selected,
		Load:     tab.View.LoadState(),
		Status:   m.status,
		Failure:  m.failure,
		Profile:  m.profile,
		ShowHelp: m.showHelp,
		Keys:     m.keys,
		Tick:     m.ticks,
		Width:    m.width,
		Height:   m.height,
	}
}
