package hotkeys

import (
	"fmt"
	"sync"

	"github.com/1broseidon/mira/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler grabs the router's key sequences on the X11 root window. Callbacks
// run on the X event loop.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	router *Router
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, router *Router) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:     conn.XUtil,
		root:   conn.Root,
		router: router,
	}
}

// RegisterAll grabs every binding. On failure nothing stays registered.
func (h *Handler) RegisterAll() error {
	for _, b := range h.router.Bindings() {
		if err := h.register(b.Keys); err != nil {
			keybind.Detach(h.xu, h.root)
			return fmt.Errorf("failed to register %s (%s): %w", b.Event, b.Keys, err)
		}
	}
	return nil
}

func (h *Handler) register(keys string) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.router.Dispatch(keys, Pressed)
	}).Connect(h.xu, h.root, keys, true)
	if err != nil {
		return err
	}
	// The passive grab taken above delivers the release to us as well.
	return keybind.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		h.router.Dispatch(keys, Released)
	}).Connect(h.xu, h.root, keys, false)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
