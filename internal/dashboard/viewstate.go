package dashboard

// LoadState tracks a tab's progress through its lazy fetch.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

const unselected = -1

// ViewState owns one tab's items, their row projections and the selection
// cursor. The cursor is either unselected or a valid index into items.
type ViewState struct {
	items    []Item
	rows     []Row
	selected int
	state    LoadState
}

func NewViewState() *ViewState {
	return &ViewState{selected: unselected}
}

// Next moves the cursor down, wrapping from the last row to the first.
// Unselected moves to the first row. No-op when empty.
func (v *ViewState) Next() {
	n := len(v.items)
	if n == 0 {
		return
	}
	switch {
	case v.selected == unselected:
		v.selected = 0
	case v.selected >= n-1:
		v.selected = 0
	default:
		v.selected++
	}
}

// Previous moves the cursor up, wrapping from the first row to the last.
// Unselected moves to the first row. No-op when empty.
func (v *ViewState) Previous() {
	n := len(v.items)
	if n == 0 {
		return
	}
	switch {
	case v.selected == unselected:
		v.selected = 0
	case v.selected == 0:
		v.selected = n - 1
	default:
		v.selected--
	}
}

// Selected returns the cursor index and whether a row is selected.
func (v *ViewState) Selected() (int, bool) {
	if v.selected == unselected {
		return 0, false
	}
	return v.selected, true
}

// SelectedItem returns the item under the cursor.
func (v *ViewState) SelectedItem() (Item, bool) {
	i, ok := v.Selected()
	if !ok {
		return Item{}, false
	}
	return v.items[i], true
}

// Rows returns the row projections in item order.
func (v *ViewState) Rows() []Row {
	return append([]Row(nil), v.rows...)
}

// Items returns the installed items in server order.
func (v *ViewState) Items() []Item {
	return append([]Item(nil), v.items...)
}

func (v *ViewState) Len() int {
	return len(v.items)
}

func (v *ViewState) LoadState() LoadState {
	return v.state
}

// IsLoaded reports whether a fetch has completed successfully. A resource
// with zero records is loaded too, so it is not fetched again on every tick.
func (v *ViewState) IsLoaded() bool {
	return v.state == Loaded
}

// BeginLoad marks the view as loading. It returns false, and changes
// nothing, unless the view is NotLoaded; callers only fetch on true.
func (v *ViewState) BeginLoad() bool {
	if v.state != NotLoaded {
		return false
	}
	v.state = Loading
	return true
}

// Install replaces the items wholesale, recomputes the rows and clears the
// selection.
func (v *ViewState) Install(items []Item) {
	v.items = append([]Item(nil), items...)
	v.rows = make([]Row, len(v.items))
	for i, item := range v.items {
		v.rows[i] = item.Row()
	}
	v.selected = unselected
	v.state = Loaded
}

// Reset discards the items so the next tick fetches again. A view that is
// still loading is left alone and Reset returns false.
func (v *ViewState) Reset() bool {
	if v.state == Loading {
		return false
	}
	v.items = nil
	v.rows = nil
	v.selected = unselected
	v.state = NotLoaded
	return true
}
