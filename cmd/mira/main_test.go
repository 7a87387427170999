package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/1broseidon/mira/internal/config"
	"github.com/1broseidon/mira/internal/events"
	"github.com/1broseidon/mira/internal/hotkeys"
	"github.com/1broseidon/mira/internal/mcp"
)

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"yes", true, false},
		{"true", true, false},
		{"1", true, false},
		{"off", false, false},
		{"no", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := parseSwitch(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseSwitch(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("parseSwitch(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShortcutKeysFromDefaults(t *testing.T) {
	keys := shortcutKeys(config.DefaultConfig().Shortcuts)
	if keys != hotkeys.DefaultKeys() {
		t.Fatalf("keys = %+v, want %+v", keys, hotkeys.DefaultKeys())
	}
}

func TestShortcutKeysDisabledRedo(t *testing.T) {
	s := config.DefaultConfig().Shortcuts
	s.Redo = ""
	bindings := shortcutKeys(s).Bindings()
	for _, b := range bindings {
		if b.Event == hotkeys.EventRedo {
			t.Fatal("redo should not be bound")
		}
	}
	if len(bindings) != 5 {
		t.Fatalf("bindings = %d, want 5", len(bindings))
	}
}

func TestEventWriterJSONLines(t *testing.T) {
	var buf bytes.Buffer
	write := eventWriter(&buf, false)
	if err := write(events.Event{Event: "cursor-moved", Payload: json.RawMessage(`{"x":1,"y":2}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"event\":\"cursor-moved\",\"payload\":{\"x\":1,\"y\":2}}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestEventWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	write := eventWriter(&buf, true)
	if err := write(events.Event{Event: "shortcut-clear"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "shortcut-clear         -\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintMCPToolsListsEveryTool(t *testing.T) {
	var buf bytes.Buffer
	if code := printMCPTools(&buf); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	tools := mcp.Tools()
	if len(lines) != len(tools) {
		t.Fatalf("printed %d lines, want %d", len(lines), len(tools))
	}
	for i, tool := range tools {
		if !strings.HasPrefix(lines[i], tool.Name+" ") {
			t.Fatalf("line %d = %q, want tool %q first", i, lines[i], tool.Name)
		}
	}
}
