// Package daemon wires the overlay, toolbar, cursor and shortcut components
// together at startup.
package daemon

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/1broseidon/mira/internal/bridge"
	"github.com/1broseidon/mira/internal/cursor"
	"github.com/1broseidon/mira/internal/hotkeys"
	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/position"
	"github.com/1broseidon/mira/internal/toolbar"
)

// Config holds configuration for the daemon.
type Config struct {
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Daemon builds the running application on top of a toolkit.
type Daemon struct {
	cfg     Config
	tk      platform.Toolkit
	emitter platform.Emitter
	store   *position.Store
	drops   bridge.DropCounter

	// Replaced in tests so no goroutine outlives them.
	startPoller func(*cursor.Poller)
}

// App is the state produced by a successful Setup.
type App struct {
	Overlays *overlay.Manager
	Toolbar  *toolbar.Controller
	Bridge   *bridge.Bridge
	Poller   *cursor.Poller
	Primary  platform.Monitor

	emitter platform.Emitter
}

// New creates a daemon. drops may be nil.
func New(cfg Config, tk platform.Toolkit, emitter platform.Emitter, store *position.Store, drops bridge.DropCounter) *Daemon {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Daemon{
		cfg:         cfg,
		tk:          tk,
		emitter:     emitter,
		store:       store,
		drops:       drops,
		startPoller: (*cursor.Poller).Start,
	}
}

// Setup creates and configures every window, then starts cursor tracking.
// Overlays are in place before the poller takes its snapshot of them. Any
// error is fatal: the caller should exit.
func (d *Daemon) Setup() (*App, error) {
	if _, err := platform.GetOrCreate(d.tk, toolbar.Label, toolbar.WindowOptions()); err != nil {
		return nil, fmt.Errorf("toolbar window: %w", err)
	}
	primaryWin, err := platform.GetOrCreate(d.tk, overlay.PrimaryLabel, overlay.WindowOptions())
	if err != nil {
		return nil, fmt.Errorf("overlay window: %w", err)
	}

	primary, err := d.tk.PrimaryMonitor()
	if err != nil {
		return nil, fmt.Errorf("primary monitor: %w", err)
	}
	available, err := d.tk.AvailableMonitors()
	if err != nil {
		return nil, fmt.Errorf("monitors: %w", err)
	}

	overlays := overlay.NewManager(d.tk, d.emitter)
	if err := overlays.Setup(primaryWin, primary, available); err != nil {
		return nil, fmt.Errorf("overlay setup: %w", err)
	}
	log.Printf("Configured %d overlay(s) across %d monitor(s)", overlays.Len(), len(available))

	tb := toolbar.NewController(d.tk, d.store)
	br := bridge.New(d.tk, overlays, tb, d.drops)

	poller := cursor.NewPoller(cursor.PollerConfig{
		Interval: d.cfg.PollInterval,
		Logger:   d.cfg.Logger,
	}, d.tk, d.emitter, overlays.Infos())
	d.startPoller(poller)
	br.MarkPollerRunning()

	pos, err := tb.Place(primary)
	if err != nil {
		return nil, fmt.Errorf("toolbar placement: %w", err)
	}
	log.Printf("Toolbar placed at %d,%d on %s", pos.X, pos.Y, primary.Name)

	return &App{
		Overlays: overlays,
		Toolbar:  tb,
		Bridge:   br,
		Poller:   poller,
		Primary:  primary,
		emitter:  d.emitter,
	}, nil
}

// ShortcutRouter builds the router that turns key sequences into shortcut
// events for the toolbar and the overlays.
func (a *App) ShortcutRouter(keys hotkeys.Keys) (*hotkeys.Router, error) {
	return hotkeys.NewRouter(keys.Bindings(), toolbar.Label, a.Overlays, a.emitter)
}
