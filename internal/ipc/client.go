package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/mira/internal/events"
	"github.com/1broseidon/mira/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, req *Request) error {
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, req); err != nil {
		return nil, err
	}
	return readResponse(bufio.NewReader(conn))
}

// SetOverlayPassthrough toggles click-through on every overlay.
func (c *Client) SetOverlayPassthrough(passThrough bool) error {
	_, err := c.sendRequest(CommandSetOverlayPassthrough, PassthroughPayload{PassThrough: &passThrough})
	return err
}

// SetOverlayVisible shows or hides every overlay.
func (c *Client) SetOverlayVisible(visible bool) error {
	_, err := c.sendRequest(CommandSetOverlayVisible, VisiblePayload{Visible: &visible})
	return err
}

// EmitToOverlay relays an event to every overlay.
func (c *Client) EmitToOverlay(event string, payload json.RawMessage) error {
	_, err := c.sendRequest(CommandEmitToOverlay, EmitPayload{Event: event, Payload: payload})
	return err
}

// SaveToolbarPosition persists a toolbar position.
func (c *Client) SaveToolbarPosition(x, y int32) error {
	_, err := c.sendRequest(CommandSaveToolbarPosition, ToolbarPositionPayload{X: &x, Y: &y})
	return err
}

// ResetToolbarPosition restores the default toolbar position.
func (c *Client) ResetToolbarPosition() error {
	_, err := c.sendRequest(CommandResetToolbarPosition, nil)
	return err
}

// SetToolbarWidth resizes the toolbar.
func (c *Client) SetToolbarWidth(width float64) error {
	_, err := c.sendRequest(CommandSetToolbarWidth, ToolbarWidthPayload{Width: &width})
	return err
}

// QuitApp asks the daemon to exit.
func (c *Client) QuitApp() error {
	_, err := c.sendRequest(CommandQuitApp, nil)
	return err
}

// OpenAboutWindow shows the about window.
func (c *Client) OpenAboutWindow() error {
	_, err := c.sendRequest(CommandOpenAboutWindow, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(CommandGetMonitors, nil)
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// GetWindows retrieves the daemon's window labels and ids.
func (c *Client) GetWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(CommandGetWindows, nil)
	if err != nil {
		return nil, err
	}

	var windows WindowsData
	if err := json.Unmarshal(resp.Data, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &windows, nil
}

// Subscribe streams events for label to handle until the daemon closes the
// stream or handle returns an error, which is returned.
func (c *Client) Subscribe(label string, handle func(events.Event) error) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, &Request{Command: CommandSubscribe, Payload: mustJSON(SubscribePayload{Label: label})}); err != nil {
		return err
	}
	reader := bufio.NewReader(conn)
	if _, err := readResponse(reader); err != nil {
		return err
	}
	// Streams are long-lived.
	conn.SetDeadline(time.Time{})

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil
		}
		var ev events.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		if err := handle(ev); err != nil {
			return err
		}
	}
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

func mustJSON(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
