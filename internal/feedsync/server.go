package feedsync

import (
	"bufio"
	"errors"
	"log"
	"net"
	"sync"
)

// Server accepts plain TCP listeners for the feed event stream.
// Useful for the CLI watch command and quick debugging with netcat.
type Server struct {
	Addr string
	Hub  *Hub

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	log.Printf("[feedsync] listening on %s", s.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		s.Hub.AddTCP(conn)
		s.Hub.Welcome(conn)
		log.Printf("[feedsync] client connected: %s", conn.RemoteAddr())

		go func(c net.Conn) {
			defer func() {
				s.Hub.RemoveTCP(c)
				log.Printf("[feedsync] client disconnected: %s", c.RemoteAddr())
			}()

			// Listeners are read-only; consume and discard anything sent.
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
