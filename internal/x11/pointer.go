package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// PointerPosition returns the global pointer position in root-window pixels.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	if !pointer.SameScreen {
		return 0, 0, fmt.Errorf("pointer is on another screen")
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}
