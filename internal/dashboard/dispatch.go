package dashboard

// EffectKind names a side effect the event loop must perform after an
// action has been applied to the registry.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectQuit
	EffectOpen
	EffectCopy
	EffectToggleHelp
)

// Effect is the outcome of Dispatch. URL is set for EffectOpen and EffectCopy.
type Effect struct {
	Kind EffectKind
	URL  string
}

// Dispatch applies action to the current tab or the tab cursor and returns
// the side effect the caller must carry out.
func (r *TabRegistry) Dispatch(action Action) Effect {
	view := r.Current().View

	switch action {
	case ActionNone:
		return Effect{}
	case ActionNext:
		view.Next()
	case ActionPrevious:
		view.Previous()
	case ActionNextTab:
		r.Next()
	case ActionPreviousTab:
		r.Previous()
	case ActionOpen:
		if item, ok := view.SelectedItem(); ok {
			return Effect{Kind: EffectOpen, URL: item.URL}
		}
	case ActionCopy:
		if item, ok := view.SelectedItem(); ok {
			return Effect{Kind: EffectCopy, URL: item.URL}
		}
	case ActionRefresh:
		view.Reset()
	case ActionHelp:
		return Effect{Kind: EffectToggleHelp}
	case ActionQuit:
		return Effect{Kind: EffectQuit}
	}
	return Effect{}
}
