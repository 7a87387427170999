package cursor

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/platform/platformtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTransform(t *testing.T) {
	info := overlay.Info{Label: "overlay-1", MonitorX: 1920, MonitorY: 0, Scale: 2.0}
	got := Transform(platform.CursorPosition{X: 2020, Y: 100}, info)
	if got != (MovedPayload{X: 50, Y: 50}) {
		t.Fatalf("Transform = %+v, want {50 50}", got)
	}
}

func TestTransformNegativeOrigin(t *testing.T) {
	info := overlay.Info{Label: "overlay-1", MonitorX: -2560, MonitorY: 0, Scale: 1.25}
	got := Transform(platform.CursorPosition{X: -2560 + 125, Y: 250}, info)
	if got != (MovedPayload{X: 100, Y: 200}) {
		t.Fatalf("Transform = %+v, want {100 200}", got)
	}
}

func samples(points ...[2]float64) []platform.CursorPosition {
	out := make([]platform.CursorPosition, len(points))
	for i, p := range points {
		out[i] = platform.CursorPosition{X: p[0], Y: p[1]}
	}
	return out
}

func TestDeadbandSuppressesJitter(t *testing.T) {
	tk := platformtest.New()
	tk.Cursor = samples(
		[2]float64{100, 100},
		[2]float64{100.1, 100.2},
		[2]float64{100.2, 99.9},
		[2]float64{100.25, 100.25},
		[2]float64{99.8, 100},
	)
	rec := &platformtest.Recorder{}
	p := NewPoller(PollerConfig{Logger: testLogger()}, tk, rec, []overlay.Info{{Label: "overlay", Scale: 1}})

	for i := 0; i < len(tk.Cursor); i++ {
		p.tick()
	}

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	if events[0].Event != EventMoved || events[0].Payload != (MovedPayload{X: 100, Y: 100}) {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestDeadbandComparesAgainstLastEmitted(t *testing.T) {
	tk := platformtest.New()
	// Each step is under the threshold but the drift from the last emitted
	// value crosses it on the third step.
	tk.Cursor = samples(
		[2]float64{0, 0},
		[2]float64{0.2, 0},
		[2]float64{0.4, 0},
	)
	rec := &platformtest.Recorder{}
	p := NewPoller(PollerConfig{Logger: testLogger()}, tk, rec, []overlay.Info{{Label: "overlay", Scale: 1}})

	counts := []int{p.tick(), p.tick(), p.tick()}
	if counts[0] != 1 || counts[1] != 0 || counts[2] != 1 {
		t.Fatalf("emit counts = %v, want [1 0 1]", counts)
	}
}

func TestPerOverlayState(t *testing.T) {
	tk := platformtest.New()
	// Moving 1 physical pixel is 1 logical unit on overlay, 0.25 on overlay-1.
	tk.Cursor = samples(
		[2]float64{2000, 100},
		[2]float64{2001, 100},
	)
	rec := &platformtest.Recorder{}
	p := NewPoller(PollerConfig{Logger: testLogger()}, tk, rec, []overlay.Info{
		{Label: "overlay", MonitorX: 0, MonitorY: 0, Scale: 1},
		{Label: "overlay-1", MonitorX: 1920, MonitorY: 0, Scale: 4},
	})

	if n := p.tick(); n != 2 {
		t.Fatalf("first tick emitted %d, want 2", n)
	}
	rec.Reset()
	if n := p.tick(); n != 1 {
		t.Fatalf("second tick emitted %d, want 1", n)
	}
	if got := rec.Events()[0].Label; got != "overlay" {
		t.Fatalf("emitted to %q, want overlay", got)
	}
}

func TestSampleErrorSkipsTick(t *testing.T) {
	tk := platformtest.New()
	tk.CursorErr = errors.New("pointer on another screen")
	rec := &platformtest.Recorder{}
	p := NewPoller(PollerConfig{Logger: testLogger()}, tk, rec, []overlay.Info{{Label: "overlay", Scale: 1}})

	if n := p.tick(); n != 0 {
		t.Fatalf("emitted %d on sampling error", n)
	}

	tk.CursorErr = nil
	tk.Cursor = samples([2]float64{10, 10})
	if n := p.tick(); n != 1 {
		t.Fatalf("emitted %d after recovery, want 1", n)
	}
}

func TestSnapshotIsPrivate(t *testing.T) {
	infos := []overlay.Info{{Label: "overlay", Scale: 1}}
	p := NewPoller(PollerConfig{Logger: testLogger()}, platformtest.New(), &platformtest.Recorder{}, infos)
	infos[0].Label = "changed"
	if p.overlays[0].Label != "overlay" {
		t.Fatal("poller must copy the overlay snapshot")
	}
	if p.interval != DefaultInterval {
		t.Fatalf("interval = %v, want %v", p.interval, DefaultInterval)
	}
}
