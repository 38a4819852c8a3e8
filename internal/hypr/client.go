package hypr

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoInstance is returned when no Hyprland session is detectable
	ErrNoInstance = errors.New("HYPRLAND_INSTANCE_SIGNATURE not set")

	// ErrBadCursorReply is returned when the cursorpos reply cannot be parsed
	ErrBadCursorReply = errors.New("malformed cursorpos reply")
)

// SocketDir returns the directory holding the Hyprland IPC sockets for the
// current instance.
func SocketDir() (string, error) {
	his := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if his == "" {
		return "", ErrNoInstance
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		dir := filepath.Join(runtimeDir, "hypr", his)
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}

	return filepath.Join("/tmp/hypr", his), nil
}

// Client issues request/reply commands over Hyprland's command socket.
// Each request uses a fresh connection, matching hyprctl's behavior.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the current Hyprland instance
func NewClient() (*Client, error) {
	dir, err := SocketDir()
	if err != nil {
		return nil, err
	}

	return &Client{
		socketPath: filepath.Join(dir, ".socket.sock"),
		timeout:    time.Second,
	}, nil
}

// Request sends a command and returns the raw reply
func (c *Client) Request(command string) (string, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write([]byte(command)); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", command, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("failed to read reply for %q: %w", command, err)
	}

	return string(reply), nil
}

// CursorPos queries the global cursor position. The reply format is "x,y".
func (c *Client) CursorPos() (int, int, error) {
	reply, err := c.Request("cursorpos")
	if err != nil {
		return 0, 0, err
	}

	return ParseCursorPos(reply)
}

// ParseCursorPos parses a cursorpos reply of the form "<int>,<int>".
// An empty reply, a missing comma or non-integer content is a query failure.
func ParseCursorPos(reply string) (int, int, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return 0, 0, ErrBadCursorReply
	}

	xs, ys, found := strings.Cut(reply, ",")
	if !found {
		return 0, 0, ErrBadCursorReply
	}

	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCursorReply, reply)
	}

	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCursorReply, reply)
	}

	return x, y, nil
}
