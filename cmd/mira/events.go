package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/mira/internal/events"
	"github.com/1broseidon/mira/internal/ipc"
	"github.com/1broseidon/mira/internal/overlay"
)

func runEvents(args []string) int {
	fs := newFlagSet("events", "Usage: mira events [--label LABEL] [--json]", "",
		"Stream the events the daemon delivers to a window label. Output is",
		"one JSON object per line unless stdout is a terminal.")
	label := fs.String("label", overlay.PrimaryLabel, "Window label to subscribe as")
	raw := fs.Bool("json", false, "Always print raw JSON lines")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	pretty := !*raw && term.IsTerminal(int(os.Stdout.Fd()))
	write := eventWriter(os.Stdout, pretty)
	return exitFor(ipc.NewClient().Subscribe(*label, write))
}

// eventWriter formats events either as JSON lines or as aligned text.
func eventWriter(w io.Writer, pretty bool) func(events.Event) error {
	if !pretty {
		enc := json.NewEncoder(w)
		return func(ev events.Event) error {
			return enc.Encode(ev)
		}
	}
	return func(ev events.Event) error {
		payload := string(ev.Payload)
		if payload == "" {
			payload = "-"
		}
		_, err := fmt.Fprintf(w, "%-22s %s\n", ev.Event, payload)
		return err
	}
}
