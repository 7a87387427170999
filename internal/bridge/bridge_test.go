package bridge

import (
	"encoding/json"
	"testing"

	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/platform/platformtest"
	"github.com/1broseidon/mira/internal/position"
	"github.com/1broseidon/mira/internal/toolbar"
)

type fixture struct {
	b     *Bridge
	tk    *platformtest.Toolkit
	rec   *platformtest.Recorder
	store *position.Store
}

type drops uint64

func (d drops) Dropped() uint64 { return uint64(d) }

func newFixture(t *testing.T) fixture {
	t.Helper()
	primary := platformtest.Monitor(0, 0, 1920, 1080, 1)
	second := platformtest.Monitor(1920, 0, 1920, 1080, 1)
	third := platformtest.Monitor(3840, 0, 1920, 1080, 1)
	tk := platformtest.New(primary, second, third)
	tk.Add(toolbar.Label)
	rec := &platformtest.Recorder{}

	m := overlay.NewManager(tk, rec)
	if err := m.Setup(tk.Add(overlay.PrimaryLabel), primary, []platform.Monitor{primary, second, third}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	store := position.NewStore(t.TempDir())
	return fixture{
		b:     New(tk, m, toolbar.NewController(tk, store), drops(7)),
		tk:    tk,
		rec:   rec,
		store: store,
	}
}

func TestSetOverlayPassthrough(t *testing.T) {
	f := newFixture(t)

	if err := f.b.SetOverlayPassthrough(false); err != nil {
		t.Fatalf("SetOverlayPassthrough(false): %v", err)
	}
	if err := f.b.SetOverlayPassthrough(true); err != nil {
		t.Fatalf("SetOverlayPassthrough(true): %v", err)
	}
	for _, l := range []string{"overlay", "overlay-1", "overlay-2"} {
		if !f.tk.Fake(l).IgnoreCursor {
			t.Fatalf("%s not click-through", l)
		}
	}
	if f.tk.Fake(toolbar.Label).IgnoreCursor {
		t.Fatal("toolbar must keep receiving input")
	}
}

func TestSetOverlayVisible(t *testing.T) {
	f := newFixture(t)
	if err := f.b.SetOverlayVisible(false); err != nil {
		t.Fatalf("SetOverlayVisible: %v", err)
	}
	if f.tk.Fake("overlay-2").Visible {
		t.Fatal("overlay-2 still visible")
	}
}

func TestEmitToOverlay(t *testing.T) {
	f := newFixture(t)

	if err := f.b.EmitToOverlay("tool-changed", json.RawMessage(`{"tool":"pen"}`)); err != nil {
		t.Fatalf("EmitToOverlay: %v", err)
	}
	events := f.rec.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	raw, ok := events[0].Payload.(json.RawMessage)
	if !ok || string(raw) != `{"tool":"pen"}` {
		t.Fatalf("payload = %#v", events[0].Payload)
	}

	if err := f.b.EmitToOverlay("", nil); err == nil {
		t.Fatal("expected error for empty event")
	}
	if err := f.b.EmitToOverlay("x", json.RawMessage(`{`)); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestToolbarCommands(t *testing.T) {
	f := newFixture(t)

	if err := f.b.SaveToolbarPosition(100, 200); err != nil {
		t.Fatalf("SaveToolbarPosition: %v", err)
	}
	if pos, ok := f.store.Load(); !ok || pos != (position.Position{X: 100, Y: 200}) {
		t.Fatalf("saved = %+v %v", pos, ok)
	}

	if err := f.b.SetToolbarWidth(10000); err != nil {
		t.Fatalf("SetToolbarWidth: %v", err)
	}
	if got := f.tk.Fake(toolbar.Label).Size; got != (geometry.Size{Width: 900, Height: 60}) {
		t.Fatalf("toolbar size = %+v", got)
	}

	if err := f.b.ResetToolbarPosition(); err != nil {
		t.Fatalf("ResetToolbarPosition: %v", err)
	}
	if _, ok := f.store.Load(); ok {
		t.Fatal("reset should delete the saved position")
	}
}

func TestQuitApp(t *testing.T) {
	f := newFixture(t)
	f.b.QuitApp()
	if !f.tk.Exited || f.tk.ExitCode != 0 {
		t.Fatalf("exited=%v code=%d", f.tk.Exited, f.tk.ExitCode)
	}
}

func TestOpenAboutWindow(t *testing.T) {
	f := newFixture(t)

	if err := f.b.OpenAboutWindow(); err != nil {
		t.Fatalf("OpenAboutWindow: %v", err)
	}
	about := f.tk.Fake(AboutLabel)
	if about == nil {
		t.Fatal("about window not created")
	}
	if about.Options.Title != "About Mira" || !about.Options.Resizable || about.Options.MinLogicalWidth != 460 {
		t.Fatalf("about options = %+v", about.Options)
	}
	if !about.Focused {
		t.Fatal("about window should be focused")
	}

	about.Visible = false
	about.Focused = false
	if err := f.b.OpenAboutWindow(); err != nil {
		t.Fatalf("second OpenAboutWindow: %v", err)
	}
	if !about.Visible || !about.Focused {
		t.Fatal("existing about window should be shown and focused")
	}
	created := 0
	for _, l := range f.tk.Created() {
		if l == AboutLabel {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("about created %d times", created)
	}
}

func TestStatusAndWindows(t *testing.T) {
	f := newFixture(t)
	f.b.MarkPollerRunning()

	st := f.b.Status()
	if len(st.Overlays) != 3 || !st.PollerRunning || st.ShortcutsEnabled || st.DroppedEvents != 7 {
		t.Fatalf("status = %+v", st)
	}

	windows := f.b.Windows()
	if len(windows) != 4 {
		t.Fatalf("windows = %+v", windows)
	}
	if windows[3].Label != toolbar.Label || windows[3].Kind != "toolbar" {
		t.Fatalf("last window = %+v", windows[3])
	}

	monitors, err := f.b.Monitors()
	if err != nil || len(monitors) != 3 {
		t.Fatalf("monitors = %v, %v", monitors, err)
	}
}
