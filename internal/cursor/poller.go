// Package cursor tracks the global pointer and reports it to each overlay
// in that overlay's logical coordinates.
package cursor

import (
	"log/slog"
	"math"
	"time"

	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
)

const (
	// EventMoved is emitted to an overlay when the cursor moves in its space.
	EventMoved = "cursor-moved"

	// DefaultInterval is one frame at 60 Hz.
	DefaultInterval = 16 * time.Millisecond

	// Deadband is the minimum logical change on either axis worth emitting.
	Deadband = 0.25
)

// MovedPayload is the cursor position relative to an overlay's monitor
// origin, in logical units.
type MovedPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sampler returns the current global cursor position in physical pixels.
type Sampler interface {
	CursorPosition() (platform.CursorPosition, error)
}

// PollerConfig holds configuration for the poller.
type PollerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller samples the cursor on a fixed period. It owns its overlay snapshot
// and per-overlay last-emitted values.
type Poller struct {
	interval time.Duration
	sampler  Sampler
	emitter  platform.Emitter
	logger   *slog.Logger

	overlays []overlay.Info
	last     []MovedPayload
}

// NewPoller creates a poller over a snapshot of overlays.
func NewPoller(cfg PollerConfig, sampler Sampler, emitter platform.Emitter, overlays []overlay.Info) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	snapshot := append([]overlay.Info(nil), overlays...)
	last := make([]MovedPayload, len(snapshot))
	for i := range last {
		last[i] = MovedPayload{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	}

	return &Poller{
		interval: interval,
		sampler:  sampler,
		emitter:  emitter,
		logger:   logger,
		overlays: snapshot,
		last:     last,
	}
}

// Start runs the polling loop in its own goroutine for the lifetime of the
// process. There is no way to stop it.
func (p *Poller) Start() {
	go p.run()
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("cursor poller started", "interval", p.interval, "overlays", len(p.overlays))

	for range ticker.C {
		p.tick()
	}
}

// tick takes one sample and returns how many events were emitted.
func (p *Poller) tick() int {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("cursor poller panic recovered", "error", err)
		}
	}()

	pos, err := p.sampler.CursorPosition()
	if err != nil {
		return 0
	}

	emitted := 0
	for i, info := range p.overlays {
		cur := Transform(pos, info)
		prev := p.last[i]
		if math.Abs(cur.X-prev.X) <= Deadband && math.Abs(cur.Y-prev.Y) <= Deadband {
			continue
		}
		p.last[i] = cur
		if err := p.emitter.Emit(info.Label, EventMoved, cur); err != nil {
			p.logger.Debug("cursor emit failed", "label", info.Label, "error", err)
			continue
		}
		emitted++
	}
	return emitted
}

// Transform converts a physical cursor position into info's logical space.
func Transform(pos platform.CursorPosition, info overlay.Info) MovedPayload {
	scale := info.Scale
	if scale <= 0 {
		scale = 1
	}
	return MovedPayload{
		X: (pos.X - float64(info.MonitorX)) / scale,
		Y: (pos.Y - float64(info.MonitorY)) / scale,
	}
}
