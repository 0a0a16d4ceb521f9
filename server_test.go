package main

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// harnessServer starts a real listening server on an OS-assigned port,
// the way tests/mode_test.go harnesses a live catbox for integration
// tests, and returns it along with its address.
func harnessServer(t *testing.T) (*Server, string) {
	t.Helper()
	cfg := &Config{
		ListenHost:     "127.0.0.1",
		ListenPort:     "0",
		ServerName:     "test",
		Persistdir:     t.TempDir(),
		Maxforgiveness: 2,
	}
	s := newServer(cfg)
	require.NoError(t, s.listen(), "server.listen")
	go s.acceptLoop()
	return s, s.listener.Addr().String()
}

// testClient is a small line-oriented helper around a raw TCP dial,
// mirroring what a real multichat client does on the wire.
type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err, "dial")
	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err, "send %q", line)
}

// readUntil consumes lines until one contains substr, failing the test
// if the connection closes or errors first.
func (c *testClient) readUntil(substr string) string {
	c.t.Helper()
	_, matched := c.readAllUntil(substr)
	return matched
}

// readAllUntil consumes lines until one contains substr, returning both
// the joined text of every line seen (including the match) and the
// matching line on its own.
func (c *testClient) readAllUntil(substr string) (string, string) {
	c.t.Helper()
	var seen strings.Builder
	for {
		line, err := c.r.ReadString('\n')
		require.NoError(c.t, err, "readAllUntil(%q)", substr)
		seen.WriteString(line)
		if strings.Contains(line, substr) {
			return seen.String(), line
		}
	}
}

func (c *testClient) close() {
	_ = c.conn.Close()
}

func (c *testClient) register(name, password string) {
	c.readUntil("Command:")
	c.send("register")
	c.readUntil("Do you agree?")
	c.send("yes")
	c.readUntil("Username:")
	c.send(name)
	c.readUntil("Password:")
	c.send(password)
}

func (c *testClient) login(name, password string) {
	c.readUntil("Command:")
	c.send("login")
	c.readUntil("Username:")
	c.send(name)
	c.readUntil("Password:")
	c.send(password)
}

// createChannel is used by the first member to enter a channel: it
// answers the owner-only setup dialogue with defaults before the
// channel becomes ready.
func (c *testClient) createChannel(name string) {
	c.send("channel " + name)
	c.readUntil("Password protect this channel?")
	c.send("no")
	c.readUntil("Do you want to set the buffer size?")
	c.send("no")
	c.readUntil("Do you want to set the replay size?")
	c.send("no")
	c.readUntil("connected.")
}

// joinChannelText is like joinChannel but returns every line seen up
// to and including the "connected." line, so callers can assert on
// replayed history.
func (c *testClient) joinChannelText(name string) string {
	c.send("channel " + name)
	seen, _ := c.readAllUntil("connected.")
	return seen
}

// joinChannel is used by any later member: the channel is already set
// up, so this goes straight to the ready state.
func (c *testClient) joinChannel(name string) {
	c.send("channel " + name)
	c.readUntil("connected.")
}

// TestFirstRegistrantIsAdministrator exercises spec.md §8 scenario: the
// first account ever registered on a server becomes an administrator.
func TestFirstRegistrantIsAdministrator(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	alice := dial(t, addr)
	defer alice.close()
	alice.register("alice", "hunter2")
	alice.readUntil("Welcome, administrator!")

	account, ok := s.Accounts.get("alice")
	require.True(t, ok, "alice should be registered")
	require.True(t, account.isAdministrator(), "first registrant should be an administrator")
}

// TestSecondRegistrantIsNotAdministrator confirms the administrator
// status does not extend past the very first account.
func TestSecondRegistrantIsNotAdministrator(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	alice := dial(t, addr)
	defer alice.close()
	alice.register("alice", "hunter2")
	alice.readUntil("Command:")

	bob := dial(t, addr)
	defer bob.close()
	bob.register("bob", "swordfish")
	bob.readUntil("Command:")

	account, ok := s.Accounts.get("bob")
	require.True(t, ok, "bob should be registered")
	require.False(t, account.isAdministrator(), "second registrant should not be an administrator")
}

// TestLoginWhileAlreadyOnlineIsRejected exercises spec.md §8 scenario: a
// second simultaneous login for the same account fails.
func TestLoginWhileAlreadyOnlineIsRejected(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	first := dial(t, addr)
	defer first.close()
	first.register("alice", "hunter2")
	first.readUntil("Command:")

	second := dial(t, addr)
	defer second.close()
	second.login("alice", "hunter2")
	second.readUntil("Account is already logged in!")
}

// TestChannelReplayShowsRecentHistory exercises spec.md §8 scenario: a
// member joining a channel after others have spoken sees the replay.
func TestChannelReplayShowsRecentHistory(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	alice := dial(t, addr)
	defer alice.close()
	alice.register("alice", "hunter2")
	alice.readUntil("Command:")
	alice.createChannel("general")
	alice.send("hello from alice")

	bob := dial(t, addr)
	defer bob.close()
	bob.register("bob", "swordfish")
	bob.readUntil("Command:")
	seen := bob.joinChannelText("general")
	require.Contains(t, seen, "hello from alice", "bob should see alice's message replayed")
}

// TestChannelMutePreventsDelivery exercises spec.md §8 scenario: a muted
// user's lines stop reaching the muter.
func TestChannelMutePreventsDelivery(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	alice := dial(t, addr)
	defer alice.close()
	alice.register("alice", "hunter2")
	alice.readUntil("Command:")
	alice.createChannel("general")

	bob := dial(t, addr)
	defer bob.close()
	bob.register("bob", "swordfish")
	bob.readUntil("Command:")
	bob.joinChannel("general")
	bob.send(":mute add alice")
	bob.readUntil("has been muted.")

	alice.send("should not reach bob")
	bob.send("ping")
	seen, _ := bob.readAllUntil("[bob] ping")
	require.NotContains(t, seen, "should not reach bob", "bob muted alice and should not receive her line")
}

// TestAdminForgivenessThresholdRemovesAccount exercises spec.md §8
// scenario 6: repeated unauthorized admin attempts eventually delete
// the offending account and ban its address.
func TestAdminForgivenessThresholdRemovesAccount(t *testing.T) {
	s, addr := harnessServer(t)
	defer s.shutdownListener()

	bob := dial(t, addr)
	defer bob.close()

	alice := dial(t, addr)
	defer alice.close()
	alice.register("alice", "hunter2")
	alice.readUntil("Welcome, administrator!")

	bob.register("bob", "swordfish")
	bob.readUntil("Command:")

	// Each unauthorized admin attempt pops the caller back to the
	// outside menu (errPop), so each retry re-logs in; the forgiveness
	// count lives on the account and survives across those sessions.
	// Maxforgiveness is 2, so the second offense crosses the threshold.
	bob.send("admin")
	bob.readUntil("not authorized")

	bob.login("bob", "swordfish")
	bob.readUntil("Command:")
	bob.send("admin")
	bob.readUntil("account has been completely removed")

	require.False(t, s.Accounts.exists("bob"), "bob's account should be removed")
}
