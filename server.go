package main

import (
	"log"
	"net"
	"sync"

	"github.com/pkg/errors"
)

// Server holds every piece of global state and the listener loop. It is
// passed to handlers through an explicit reference on Client rather than
// hidden package-level globals (spec.md §9 Design Notes).
type Server struct {
	Config *Config

	Accounts *AccountRegistry
	Channels *ChannelRegistry
	BanList  *BanList

	mu        sync.Mutex
	listener  net.Listener
	running   bool
	clients   map[string]*Client
	wg        sync.WaitGroup
}

func newServer(cfg *Config) *Server {
	return &Server{
		Config:   cfg,
		Accounts: newAccountRegistry(),
		Channels: newChannelRegistry(),
		BanList:  newBanList(),
		clients:  make(map[string]*Client),
	}
}

// listen binds the listening socket; acceptLoop does the accepting.
// net.Listen uses the operating system's default backlog, not a backlog
// of 5.
func (s *Server) listen() error {
	addr := net.JoinHostPort(s.Config.ListenHost, s.Config.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", addr)
	}

	s.mu.Lock()
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	return nil
}

// acceptLoop accepts connections until the server is shut down.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			log.Printf("accept error: %s", err)
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		client := newClient(s, NewConn(conn))
		s.clients[client.ID.String()] = client
		s.mu.Unlock()

		s.wg.Add(1)
		go s.runClient(client)
	}
}

// runClient drives one connection's handler stack from the ban filter
// down, then performs the C3 teardown: remove from the connection list
// and mark any bound account offline.
func (s *Server) runClient(client *Client) {
	defer s.wg.Done()

	runStack(newBanFilterHandler(client), client.conn)

	s.mu.Lock()
	delete(s.clients, client.ID.String())
	s.mu.Unlock()

	if client.account != nil {
		client.account.unbind()
	}
}

// shutdownListener stops accepting new connections. Mirrors
// original_source's "connect to our own port to unblock accept()" trick
// via net.Listener.Close, which unblocks Accept directly in Go.
func (s *Server) shutdownListener() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.running = false
	_ = s.listener.Close()
	return true
}

func (s *Server) connectedClients() []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// wait blocks until every spawned client goroutine has returned.
func (s *Server) wait() {
	s.wg.Wait()
}
