package hotkeys

import (
	"testing"

	"github.com/1broseidon/mira/internal/platform/platformtest"
)

type labels []string

func (l labels) Labels() []string { return l }

func newRouter(t *testing.T, keys Keys) (*Router, *platformtest.Recorder) {
	t.Helper()
	rec := &platformtest.Recorder{}
	r, err := NewRouter(keys.Bindings(), "toolbar", labels{"overlay", "overlay-1", "overlay-2"}, rec)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r, rec
}

func TestClearPressedReachesOverlaysAndToolbar(t *testing.T) {
	r, rec := newRouter(t, DefaultKeys())

	if n := r.Dispatch("Mod4-Shift-c", Pressed); n != 4 {
		t.Fatalf("delivered to %d windows, want 4", n)
	}
	got := map[string]int{}
	for _, ev := range rec.Events() {
		if ev.Event != EventClear {
			t.Fatalf("unexpected event %q", ev.Event)
		}
		got[ev.Label]++
	}
	for _, l := range []string{"overlay", "overlay-1", "overlay-2", "toolbar"} {
		if got[l] != 1 {
			t.Fatalf("%s received %d clear events, want 1", l, got[l])
		}
	}
}

func TestReleasedDispatchesNothing(t *testing.T) {
	r, rec := newRouter(t, DefaultKeys())

	if n := r.Dispatch("Mod4-Shift-c", Released); n != 0 {
		t.Fatalf("released delivered to %d windows", n)
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("released produced events: %+v", rec.Events())
	}
}

func TestTargets(t *testing.T) {
	tests := []struct {
		keys  string
		event string
		want  []string
	}{
		{"Mod4-Shift-x", EventToggle, []string{"toolbar"}},
		{"Mod4-Shift-z", EventUndo, []string{"overlay", "overlay-1", "overlay-2"}},
		{"Mod4-Shift-y", EventRedo, []string{"overlay", "overlay-1", "overlay-2"}},
		{"Mod4-Shift-s", EventSpotlight, []string{"toolbar"}},
		{"Mod4-Shift-d", EventDrawToggle, []string{"toolbar"}},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			r, rec := newRouter(t, DefaultKeys())
			r.Dispatch(tt.keys, Pressed)

			events := rec.Events()
			if len(events) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(events), len(tt.want))
			}
			for i, ev := range events {
				if ev.Label != tt.want[i] || ev.Event != tt.event || ev.Payload != nil {
					t.Fatalf("event %d = %+v", i, ev)
				}
			}
		})
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	r, rec := newRouter(t, DefaultKeys())
	if n := r.Dispatch("Mod4-Shift-q", Pressed); n != 0 || len(rec.Events()) != 0 {
		t.Fatal("unbound key should not dispatch")
	}
}

func TestDisabledShortcut(t *testing.T) {
	keys := DefaultKeys()
	keys.Redo = ""
	r, rec := newRouter(t, keys)

	if len(r.Bindings()) != 5 {
		t.Fatalf("bindings = %d, want 5", len(r.Bindings()))
	}
	r.Dispatch("Mod4-Shift-y", Pressed)
	if len(rec.Events()) != 0 {
		t.Fatal("disabled redo should not dispatch")
	}
}

func TestDuplicateKeysRejected(t *testing.T) {
	keys := DefaultKeys()
	keys.Undo = keys.Clear
	if _, err := NewRouter(keys.Bindings(), "toolbar", labels{}, &platformtest.Recorder{}); err == nil {
		t.Fatal("expected duplicate binding error")
	}
}

func TestStateString(t *testing.T) {
	if Pressed.String() != "pressed" || Released.String() != "released" {
		t.Fatal("unexpected state names")
	}
}
