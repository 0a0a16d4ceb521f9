package main

import (
	"fmt"
	"net"

	"github.com/google/uuid"
)

// Client holds the state of one connection as it moves through the
// handler stack: the line transport, its assigned name once logged in,
// and the account it is bound to.
type Client struct {
	ID   uuid.UUID
	conn *Conn

	server *Server

	// Set once the ban filter resolves the peer address.
	hostnames []string

	// Set on successful login/registration; cleared on logout.
	Name    string
	account *Account
}

func newClient(s *Server, conn *Conn) *Client {
	return &Client{
		ID:     uuid.New(),
		conn:   conn,
		server: s,
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%s %s", c.ID, c.conn.RemoteAddr())
}

// resolveHostnames does a reverse lookup of the peer IP the way
// original_source's BanFilter does (socket.gethostbyaddr): hostname,
// aliases, and numeric forms are all candidates for a ban match.
func (c *Client) resolveHostnames() []string {
	addr, ok := c.conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return nil
	}
	ip := addr.IP.String()
	candidates := []string{ip}

	names, err := net.LookupAddr(ip)
	if err == nil {
		candidates = append(candidates, names...)
	}
	return candidates
}
