// Package server implements a raw print listener: every TCP connection's
// payload is read to EOF and forwarded as one print job to a configured
// transport target. This is the classic port-9100 convention, with delivery
// delegated to whichever transport the gateway was configured for.
package server

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/nixxel-company-limited/escpos-print-gateway/transport"
)

// Sender delivers one print job to a transport target. *gateway.Gateway
// satisfies it; tests substitute a mock.
type Sender interface {
	Send(target transport.Target, data []byte) error
}

// Server accepts raw payloads over TCP and forwards each one to the target.
type Server struct {
	sender   Sender
	target   transport.Target
	listener net.Listener
	address  string
	mu       sync.Mutex
	running  bool
	wg       sync.WaitGroup
	logger   *log.Logger
}

// New creates a server that forwards received payloads to target via sender.
func New(sender Sender, target transport.Target, address string) *Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags|log.Lmsgprefix)
	return NewWithLogger(sender, target, address, logger)
}

// NewWithLogger creates a server with a custom logger.
func NewWithLogger(sender Sender, target transport.Target, address string, logger *log.Logger) *Server {
	return &Server{
		sender:  sender,
		target:  target,
		address: address,
		logger:  logger,
	}
}

// Start starts the listener and blocks until Stop is called.
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.logger.Println("Ready to accept connections")
	s.acceptConnections()
	return nil
}

// StartAsync starts the listener in a goroutine and returns immediately.
func (s *Server) StartAsync() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptConnections()
	}()
	s.logger.Println("Server started in background, ready to accept connections")
	return nil
}

func (s *Server) listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Println("Error: Server already running")
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		s.logger.Printf("Error: Failed to start server: %v", err)
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.listener = listener
	s.running = true
	s.logger.Printf("Server listening on %s, forwarding to %s", s.address, s.target)
	return nil
}

// acceptConnections handles incoming client connections.
func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()

			if !running {
				s.logger.Println("Server shutting down, stopping accept loop")
				return
			}
			s.logger.Printf("Error accepting connection: %v", err)
			continue
		}

		s.logger.Printf("Client connected from %s", conn.RemoteAddr())
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection reads one connection's payload to EOF and forwards it as a
// single print job. An empty payload is dropped rather than printed.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	clientAddr := conn.RemoteAddr().String()

	data, err := io.ReadAll(conn)
	if err != nil {
		s.logger.Printf("Error reading from client %s: %v", clientAddr, err)
		return
	}
	s.logger.Printf("Received %d bytes from %s", len(data), clientAddr)

	if len(data) == 0 {
		s.logger.Printf("Empty payload from %s, nothing to print", clientAddr)
		return
	}

	if err := s.sender.Send(s.target, data); err != nil {
		s.logger.Printf("Error forwarding job to %s: %v", s.target, err)
		return
	}
	s.logger.Printf("Forwarded %d bytes to %s", len(data), s.target)
}

// Stop stops the listener and waits for active connections to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Println("Stop called but server is not running")
		return nil
	}

	s.logger.Println("Stopping server...")
	s.running = false
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}

	s.wg.Wait()
	s.logger.Println("Server stopped successfully")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.address
}

// Target returns the transport target jobs are forwarded to.
func (s *Server) Target() transport.Target {
	return s.target
}
