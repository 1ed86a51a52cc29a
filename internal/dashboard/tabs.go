package dashboard

import "errors"

// Tab pairs a label and resource kind with the view state shown under it.
type Tab struct {
	Label string
	Kind  Kind
	View  *ViewState
}

func NewTab(label string, kind Kind) *Tab {
	if label == "" {
		label = kind.Label()
	}
	return &Tab{Label: label, Kind: kind, View: NewViewState()}
}

// TabRegistry is the fixed, ordered set of tabs with a cyclic cursor.
type TabRegistry struct {
	tabs    []*Tab
	current int
}

// NewTabRegistry builds a registry positioned on the first tab.
func NewTabRegistry(tabs ...*Tab) (*TabRegistry, error) {
	if len(tabs) == 0 {
		return nil, errors.New("at least one tab is required")
	}
	for _, t := range tabs {
		if t == nil || t.View == nil {
			return nil, errors.New("tabs must be created with NewTab")
		}
	}
	return &TabRegistry{tabs: append([]*Tab(nil), tabs...)}, nil
}

// TabsForKinds creates one tab per kind with the kind's default label.
func TabsForKinds(kinds ...Kind) []*Tab {
	tabs := make([]*Tab, 0, len(kinds))
	for _, k := range kinds {
		tabs = append(tabs, NewTab("", k))
	}
	return tabs
}

func (r *TabRegistry) Next() {
	r.current = (r.current + 1) % len(r.tabs)
}

func (r *TabRegistry) Previous() {
	r.current = (r.current - 1 + len(r.tabs)) % len(r.tabs)
}

func (r *TabRegistry) Current() *Tab {
	return r.tabs[r.current]
}

func (r *TabRegistry) CurrentIndex() int {
	return r.current
}

func (r *TabRegistry) Len() int {
	return len(r.tabs)
}

// Tab returns the tab at index i, or nil when i is out of range.
func (r *TabRegistry) Tab(i int) *Tab {
	if i < 0 || i >= len(r.tabs) {
		return nil
	}
	return r.tabs[i]
}

func (r *TabRegistry) Labels() []string {
	labels := make([]string, len(r.tabs))
	for i, t := range r.tabs {
		labels[i] = t.Label
	}
	return labels
}
