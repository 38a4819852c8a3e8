package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"

	"github.com/gotk3/gotk3/glib"

	"github.com/shadebar/shade/internal/config"
)

// IPCServer accepts one-shot commands on a unix socket: "show" forces the bar
// visible, "toggle <module>" flips a module widget. Command handlers run on
// the GTK main loop.
type IPCServer struct {
	app     *App
	config  *config.Config
	server  *net.UnixListener
	running bool
}

func NewIPCServer(app *App, cfg *config.Config) *IPCServer {
	return &IPCServer{
		app:    app,
		config: cfg,
	}
}

func (s *IPCServer) Start() error {
	if s.running {
		return fmt.Errorf("IPC server already running")
	}

	socketPath := s.config.SocketPath
	if _, err := os.Stat(socketPath); err == nil {
		os.Remove(socketPath)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	s.server = listener.(*net.UnixListener)
	s.running = true

	log.Printf("IPC server listening on %s", socketPath)

	go s.acceptConnections()

	return nil
}

func (s *IPCServer) acceptConnections() {
	for s.running {
		conn, err := s.server.Accept()
		if err != nil {
			if s.running {
				log.Printf("Error accepting connection: %v", err)
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *IPCServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		log.Printf("Error reading from connection: %v", err)
		return
	}

	message := strings.TrimSpace(string(buf[:n]))
	log.Printf("Received IPC message: %s", message)

	s.handleMessage(message)
}

func (s *IPCServer) handleMessage(message string) {
	switch {
	case message == "show":
		glib.IdleAdd(func() {
			s.app.ForceVisible()
		})
	case strings.HasPrefix(message, "toggle "):
		name := strings.TrimSpace(strings.TrimPrefix(message, "toggle "))
		glib.IdleAdd(func() {
			if err := s.app.ToggleModule(name); err != nil {
				log.Printf("Failed to toggle module: %v", err)
			}
		})
	case message == "quit":
		glib.IdleAdd(func() {
			s.app.Quit()
		})
	default:
		log.Printf("Unknown IPC command: %s", message)
	}
}

func (s *IPCServer) Stop() error {
	if !s.running {
		return nil
	}

	s.running = false

	if s.server != nil {
		s.server.Close()
	}

	socketPath := s.config.SocketPath
	if _, err := os.Stat(socketPath); err == nil {
		os.Remove(socketPath)
	}

	log.Println("IPC server stopped")
	return nil
}
