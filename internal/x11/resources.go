package x11

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

// baseDPI is the X11 reference DPI that corresponds to a scale factor of 1.
const baseDPI = 96.0

// XftDPI returns the Xft.dpi value from the root RESOURCE_MANAGER property.
func (c *Connection) XftDPI() (float64, bool) {
	resources, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 0, false
	}
	return parseXftDPI(resources)
}

// ScaleFactor derives the desktop scale factor from Xft.dpi, defaulting to 1.
func (c *Connection) ScaleFactor() float64 {
	dpi, ok := c.XftDPI()
	if !ok {
		return 1
	}
	return dpi / baseDPI
}

func parseXftDPI(resources string) (float64, bool) {
	scanner := bufio.NewScanner(strings.NewReader(resources))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
