package hotkeys

import (
	"fmt"
	"log"
)

// State is the phase of a global shortcut.
type State int

const (
	Pressed State = iota
	Released
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Target selects which windows receive a shortcut event.
type Target uint8

const (
	TargetToolbar Target = 1 << iota
	TargetOverlays
)

// Shortcut event names.
const (
	EventToggle     = "shortcut-toggle"
	EventClear      = "shortcut-clear"
	EventUndo       = "shortcut-undo"
	EventRedo       = "shortcut-redo"
	EventSpotlight  = "shortcut-spotlight"
	EventDrawToggle = "shortcut-draw-toggle"
)

// Keys holds the X11 key sequences for each shortcut. An empty sequence
// disables that shortcut.
type Keys struct {
	Toggle     string
	Clear      string
	Undo       string
	Redo       string
	Spotlight  string
	DrawToggle string
}

// DefaultKeys binds every shortcut to Super+Shift.
func DefaultKeys() Keys {
	return Keys{
		Toggle:     "Mod4-Shift-x",
		Clear:      "Mod4-Shift-c",
		Undo:       "Mod4-Shift-z",
		Redo:       "Mod4-Shift-y",
		Spotlight:  "Mod4-Shift-s",
		DrawToggle: "Mod4-Shift-d",
	}
}

// Binding maps a key sequence to an event and its targets.
type Binding struct {
	Keys   string
	Event  string
	Target Target
}

// Bindings expands k into bindings, skipping disabled shortcuts.
func (k Keys) Bindings() []Binding {
	all := []Binding{
		{Keys: k.Toggle, Event: EventToggle, Target: TargetToolbar},
		{Keys: k.Clear, Event: EventClear, Target: TargetOverlays | TargetToolbar},
		{Keys: k.Undo, Event: EventUndo, Target: TargetOverlays},
		{Keys: k.Redo, Event: EventRedo, Target: TargetOverlays},
		{Keys: k.Spotlight, Event: EventSpotlight, Target: TargetToolbar},
		{Keys: k.DrawToggle, Event: EventDrawToggle, Target: TargetToolbar},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" {
			out = append(out, b)
		}
	}
	return out
}

// Emitter delivers an event to a window label.
type Emitter interface {
	Emit(label, event string, payload any) error
}

// OverlaySet lists the current overlay labels.
type OverlaySet interface {
	Labels() []string
}

// Router turns shortcut presses into window events.
type Router struct {
	bindings map[string]Binding
	order    []Binding
	toolbar  string
	overlays OverlaySet
	emitter  Emitter
}

// NewRouter creates a router delivering to toolbarLabel and overlays.
func NewRouter(bindings []Binding, toolbarLabel string, overlays OverlaySet, emitter Emitter) (*Router, error) {
	r := &Router{
		bindings: make(map[string]Binding, len(bindings)),
		toolbar:  toolbarLabel,
		overlays: overlays,
		emitter:  emitter,
	}
	for _, b := range bindings {
		if prev, dup := r.bindings[b.Keys]; dup {
			return nil, fmt.Errorf("key sequence %q bound to both %s and %s", b.Keys, prev.Event, b.Event)
		}
		r.bindings[b.Keys] = b
		r.order = append(r.order, b)
	}
	return r, nil
}

// Bindings returns the router's bindings in registration order.
func (r *Router) Bindings() []Binding {
	return append([]Binding(nil), r.order...)
}

// Dispatch handles a shortcut transition. Only Pressed dispatches; it returns
// the number of windows the event was delivered to.
func (r *Router) Dispatch(keys string, state State) int {
	if state != Pressed {
		return 0
	}
	b, ok := r.bindings[keys]
	if !ok {
		return 0
	}

	var labels []string
	if b.Target&TargetOverlays != 0 {
		labels = append(labels, r.overlays.Labels()...)
	}
	if b.Target&TargetToolbar != 0 {
		labels = append(labels, r.toolbar)
	}

	delivered := 0
	for _, label := range labels {
		if err := r.emitter.Emit(label, b.Event, nil); err != nil {
			log.Printf("Shortcut %s: emit to %s failed: %v", b.Event, label, err)
			continue
		}
		delivered++
	}
	return delivered
}
