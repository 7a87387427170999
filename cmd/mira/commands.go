package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/mira/internal/ipc"
)

// newFlagSet builds a subcommand flag set whose usage prints lines followed
// by the flag defaults, if any.
func newFlagSet(name string, lines ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		for _, l := range lines {
			fmt.Fprintln(os.Stderr, l)
		}
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func noArgs(fs *flag.FlagSet, args []string) int {
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func exitFor(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// parseSwitch accepts on/off in addition to the strconv boolean forms.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
	return v, nil
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "Usage: mira status [--json]", "", "Show daemon status via IPC.")
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		return exitFor(err)
	}
	if *jsonOut {
		return exitFor(printJSON(os.Stdout, status))
	}
	fmt.Printf("uptime_seconds:    %d\n", status.UptimeSeconds)
	fmt.Printf("overlay_count:     %d\n", len(status.Overlays))
	fmt.Printf("poller_running:    %v\n", status.PollerRunning)
	fmt.Printf("shortcuts_enabled: %v\n", status.ShortcutsEnabled)
	fmt.Printf("dropped_events:    %d\n", status.DroppedEvents)
	for _, o := range status.Overlays {
		fmt.Printf("- %s at %d,%d scale %.2f\n", o.Label, o.MonitorX, o.MonitorY, o.Scale)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := newFlagSet("monitors", "Usage: mira monitors [--json]", "", "List monitors as enumerated by the daemon.")
	jsonOut := fs.Bool("json", false, "Output monitors as JSON")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		return exitFor(err)
	}
	if *jsonOut {
		return exitFor(printJSON(os.Stdout, data))
	}
	for _, m := range data.Monitors {
		wa := m.WorkArea
		fmt.Printf("%d %s %dx%d+%d+%d scale %.2f work_area %dx%d+%d+%d\n",
			m.ID, m.Name,
			m.Size.Width, m.Size.Height, m.Position.X, m.Position.Y,
			m.ScaleFactor,
			wa.Width, wa.Height, wa.X, wa.Y)
	}
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "Usage: mira windows [--json]", "", "List daemon windows by label with their X11 window ids.")
	jsonOut := fs.Bool("json", false, "Output windows as JSON")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetWindows()
	if err != nil {
		return exitFor(err)
	}
	if *jsonOut {
		return exitFor(printJSON(os.Stdout, data))
	}
	for _, w := range data.Windows {
		fmt.Printf("%-10s 0x%08x %s\n", w.Label, w.ID, w.Kind)
	}
	return 0
}

func runPassthrough(args []string) int {
	return runSwitch("passthrough", args, "Let mouse input fall through the overlays (on) or capture it for drawing (off).",
		ipc.NewClient().SetOverlayPassthrough)
}

func runVisible(args []string) int {
	return runSwitch("visible", args, "Show (on) or hide (off) every overlay.",
		ipc.NewClient().SetOverlayVisible)
}

func runSwitch(name string, args []string, help string, apply func(bool) error) int {
	fs := newFlagSet(name, "Usage: mira "+name+" on|off", "", help)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	on, err := parseSwitch(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitFor(apply(on))
}

func runEmit(args []string) int {
	fs := newFlagSet("emit", "Usage: mira emit [--payload JSON] <event>", "", "Broadcast an event to every overlay window.")
	payload := fs.String("payload", "", "JSON payload")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	var raw json.RawMessage
	if *payload != "" {
		if !json.Valid([]byte(*payload)) {
			fmt.Fprintln(os.Stderr, "--payload must be valid JSON")
			return 2
		}
		raw = json.RawMessage(*payload)
	}
	return exitFor(ipc.NewClient().EmitToOverlay(fs.Arg(0), raw))
}

func printToolbarUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mira toolbar save <x> <y>")
	fmt.Fprintln(w, "  mira toolbar reset")
	fmt.Fprintln(w, "  mira toolbar width <logical-width>")
}

func runToolbar(args []string) int {
	if len(args) == 0 {
		printToolbarUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printToolbarUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "save":
		if len(args) != 3 {
			printToolbarUsage(os.Stderr)
			return 2
		}
		x, errX := strconv.ParseInt(args[1], 10, 32)
		y, errY := strconv.ParseInt(args[2], 10, 32)
		if errX != nil || errY != nil {
			fmt.Fprintln(os.Stderr, "x and y must be integers")
			return 2
		}
		return exitFor(client.SaveToolbarPosition(int32(x), int32(y)))

	case "reset":
		if len(args) != 1 {
			printToolbarUsage(os.Stderr)
			return 2
		}
		return exitFor(client.ResetToolbarPosition())

	case "width":
		if len(args) != 2 {
			printToolbarUsage(os.Stderr)
			return 2
		}
		width, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid width %q\n", args[1])
			return 2
		}
		return exitFor(client.SetToolbarWidth(width))

	default:
		fmt.Fprintf(os.Stderr, "Unknown toolbar subcommand: %s\n\n", args[0])
		printToolbarUsage(os.Stderr)
		return 2
	}
}

func runAbout(args []string) int {
	fs := newFlagSet("about", "Usage: mira about", "", "Show and focus the About window.")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}
	return exitFor(ipc.NewClient().OpenAboutWindow())
}

func runQuit(args []string) int {
	fs := newFlagSet("quit", "Usage: mira quit", "", "Stop the running daemon.")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}
	return exitFor(ipc.NewClient().QuitApp())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
