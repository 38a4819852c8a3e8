package hypr

import (
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestParseCursorPos(t *testing.T) {
	cases := []struct {
		name    string
		reply   string
		x, y    int
		wantErr bool
	}{
		{"plain", "1234,567", 1234, 567, false},
		{"negative", "-10,20", -10, 20, false},
		{"spaced", " 640, 480\n", 640, 480, false},
		{"empty", "", 0, 0, true},
		{"whitespace only", "  \n", 0, 0, true},
		{"no comma", "1234", 0, 0, true},
		{"non-integer x", "abc,5", 0, 0, true},
		{"non-integer y", "5,abc", 0, 0, true},
		{"error reply", "unknown request", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, err := ParseCursorPos(tc.reply)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.reply)
				}
				if !errors.Is(err, ErrBadCursorReply) {
					t.Errorf("expected ErrBadCursorReply, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.reply, err)
			}
			if x != tc.x || y != tc.y {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tc.x, tc.y)
			}
		})
	}
}

// serveOnce answers a single request on a unix socket with a fixed reply
func serveOnce(t *testing.T, socketPath, wantCommand, reply string) {
	t.Helper()

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to listen on %s: %v", socketPath, err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 256)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		if string(buf[:n]) == wantCommand {
			conn.Write([]byte(reply))
		}
	}()
}

func TestClientCursorPos(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), ".socket.sock")
	serveOnce(t, socketPath, "cursorpos", "960,540")

	client := &Client{socketPath: socketPath, timeout: time.Second}

	x, y, err := client.CursorPos()
	if err != nil {
		t.Fatalf("CursorPos failed: %v", err)
	}
	if x != 960 || y != 540 {
		t.Errorf("got (%d,%d), want (960,540)", x, y)
	}
}

func TestClientCursorPosMalformedReply(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), ".socket.sock")
	serveOnce(t, socketPath, "cursorpos", "Invalid dispatcher")

	client := &Client{socketPath: socketPath, timeout: time.Second}

	if _, _, err := client.CursorPos(); err == nil {
		t.Fatal("expected error for malformed reply")
	}
}

func TestClientRequestNoSocket(t *testing.T) {
	client := &Client{
		socketPath: filepath.Join(t.TempDir(), "missing.sock"),
		timeout:    100 * time.Millisecond,
	}

	if _, err := client.Request("cursorpos"); err == nil {
		t.Fatal("expected error when socket is absent")
	}
}
