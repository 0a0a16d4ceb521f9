package main

import (
	"fmt"
	"sync"
)

// channelStatus is the channel lifecycle state machine (spec.md §3).
type channelStatus int

const (
	statusStart channelStatus = iota
	statusSetup
	statusReady
	statusReset
	statusFinal
)

// builtinBufferLimit caps the channel history ring regardless of a
// configured buffer size (spec.md §3: "capacity = min(buffer_size, 10000)").
const builtinBufferLimit = 10000

// defaultReplaySize is applied to a freshly created channel before its
// owner has a chance to change it during setup.
const defaultReplaySize = 10

// ChannelLine is one entry of a channel's history buffer.
type ChannelLine struct {
	Source string
	Body   string
}

func (l ChannelLine) render() string {
	return fmt.Sprintf("[%s] %s", l.Source, l.Body)
}

// eventLine builds a server-originated EVENT line.
func eventLine(body string) ChannelLine {
	return ChannelLine{Source: "EVENT", Body: body}
}

// Channel is the core state machine: lifecycle, membership, history,
// mute/kick/ban, and the owner-exclusive admin lock.
type Channel struct {
	mu sync.Mutex

	ID int
	// Name is nil after the channel is deleted from the registry, while
	// already-connected members keep operating (spec.md §3).
	Name *string

	Owner    string
	Password string

	Buffer      []ChannelLine
	BufferSize  *int // nil = effectively infinite (still capped)
	ReplaySize  *int // nil = whole buffer; pointer to 0 = none

	Status channelStatus

	// ConnectedClients maps each connection's id to its Client.
	ConnectedClients map[string]*Client

	// MutedToMuter[muted] is the set of usernames who have muted muted.
	MutedToMuter map[string]map[string]bool

	// Kicked is a multiset: one entry is consumed per ejection.
	Kicked []string

	Banned map[string]bool

	adminMu     sync.Mutex
	adminHolder string
}

func newChannel(id int, name, owner string) *Channel {
	replay := defaultReplaySize
	return &Channel{
		ID:               id,
		Name:             &name,
		Owner:            owner,
		Status:           statusStart,
		ConnectedClients: make(map[string]*Client),
		MutedToMuter:     make(map[string]map[string]bool),
		Banned:           make(map[string]bool),
		ReplaySize:       &replay,
	}
}

// capacityLocked returns the effective buffer capacity; the caller holds
// the channel lock.
func (c *Channel) capacityLocked() int {
	if c.BufferSize == nil {
		return builtinBufferLimit
	}
	if *c.BufferSize > builtinBufferLimit {
		return builtinBufferLimit
	}
	return *c.BufferSize
}

// addLine appends a line to the buffer, trimming from the head so the
// buffer never exceeds capacity. Returns the appended line; if capacity
// is 0 the line is not stored (still broadcast by the caller).
func (c *Channel) addLine(source, body string) ChannelLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := ChannelLine{Source: source, Body: body}
	capacity := c.capacityLocked()
	if capacity == 0 {
		return line
	}
	c.Buffer = append(c.Buffer, line)
	if len(c.Buffer) > capacity {
		c.Buffer = append([]ChannelLine{}, c.Buffer[len(c.Buffer)-capacity:]...)
	}
	return line
}

// replayLines returns the lines to show a newly-entering member, per the
// configured replay size (nil = entire buffer, 0 = none).
func (c *Channel) replayLines() []ChannelLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReplaySize == nil {
		out := make([]ChannelLine, len(c.Buffer))
		copy(out, c.Buffer)
		return out
	}
	n := *c.ReplaySize
	if n <= 0 {
		return nil
	}
	if n > len(c.Buffer) {
		n = len(c.Buffer)
	}
	out := make([]ChannelLine, n)
	copy(out, c.Buffer[len(c.Buffer)-n:])
	return out
}

// connect registers client in the channel's connected set.
func (c *Channel) connect(client *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ConnectedClients[client.ID.String()] = client
}

// disconnect removes client from the connected set.
func (c *Channel) disconnect(client *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ConnectedClients, client.ID.String())
}

func (c *Channel) memberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ConnectedClients)
}

func (c *Channel) members() []*Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Client, 0, len(c.ConnectedClients))
	for _, cl := range c.ConnectedClients {
		out = append(out, cl)
	}
	return out
}

// consumeKick reports and consumes one kicked entry for name, if present.
func (c *Channel) consumeKick(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.Kicked {
		if n == name {
			c.Kicked = append(c.Kicked[:i], c.Kicked[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Channel) kick(name string) {
	c.mu.Lock()
	c.Kicked = append(c.Kicked, name)
	c.mu.Unlock()
}

func (c *Channel) isBanned(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Banned[name]
}

func (c *Channel) addBan(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Banned[name] {
		return false
	}
	c.Banned[name] = true
	return true
}

func (c *Channel) removeBan(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Banned[name] {
		return false
	}
	delete(c.Banned, name)
	return true
}

func (c *Channel) bannedNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.Banned))
	for n := range c.Banned {
		out = append(out, n)
	}
	return out
}

// addMute adds muter to muted_to_muter[muted]. Returns false if already
// present.
func (c *Channel) addMute(muted, muter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	muters, ok := c.MutedToMuter[muted]
	if !ok {
		c.MutedToMuter[muted] = map[string]bool{muter: true}
		return true
	}
	if muters[muter] {
		return false
	}
	muters[muter] = true
	return true
}

// removeMute removes muter from muted_to_muter[muted], deleting the key
// if it becomes empty (spec.md invariant: muted_to_muter[x] is never
// empty).
func (c *Channel) removeMute(muted, muter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	muters, ok := c.MutedToMuter[muted]
	if !ok || !muters[muter] {
		return false
	}
	delete(muters, muter)
	if len(muters) == 0 {
		delete(c.MutedToMuter, muted)
	}
	return true
}

// hasMuted reports whether muter has muted muted.
func (c *Channel) hasMuted(muted, muter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.MutedToMuter[muted][muter]
}

// mutedByCaller returns the names the given muter has muted.
func (c *Channel) mutedByCaller(muter string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for muted, muters := range c.MutedToMuter {
		if muters[muter] {
			out = append(out, muted)
		}
	}
	return out
}

// broadcastTargets snapshots the recipients and the mute set for source
// under the channel lock, per spec.md §5: gather under the lock, write
// outside it.
func (c *Channel) broadcastTargets(source string) ([]*Client, map[string]bool, map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clients := make([]*Client, 0, len(c.ConnectedClients))
	for _, cl := range c.ConnectedClients {
		clients = append(clients, cl)
	}
	muters := make(map[string]bool, len(c.MutedToMuter[source]))
	for m := range c.MutedToMuter[source] {
		muters[m] = true
	}
	kicked := make(map[string]bool, len(c.Kicked))
	for _, k := range c.Kicked {
		kicked[k] = true
	}
	return clients, muters, kicked
}

// channelName returns the live name, or "", false if the channel has
// been deleted from the registry.
func (c *Channel) channelName() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Name == nil {
		return "", false
	}
	return *c.Name, true
}

func (c *Channel) setName(name *string) {
	c.mu.Lock()
	c.Name = name
	c.mu.Unlock()
}

func (c *Channel) ownerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Owner
}

func (c *Channel) setOwner(name string) {
	c.mu.Lock()
	c.Owner = name
	c.mu.Unlock()
}

func (c *Channel) passwordValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Password
}

func (c *Channel) setPassword(p string) {
	c.mu.Lock()
	c.Password = p
	c.mu.Unlock()
}

func (c *Channel) status() channelStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Status
}

func (c *Channel) setStatus(s channelStatus) {
	c.mu.Lock()
	c.Status = s
	c.mu.Unlock()
}

func (c *Channel) bufferSnapshot() []ChannelLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChannelLine, len(c.Buffer))
	copy(out, c.Buffer)
	return out
}

func (c *Channel) purgeBuffer() {
	c.mu.Lock()
	c.Buffer = nil
	c.mu.Unlock()
}

func (c *Channel) settings() (owner, password string, bufferSize, replaySize *int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Owner, c.Password, c.BufferSize, c.ReplaySize
}

func (c *Channel) setBufferSize(n *int) {
	c.mu.Lock()
	c.BufferSize = n
	c.mu.Unlock()
}

func (c *Channel) setReplaySize(n *int) {
	c.mu.Lock()
	c.ReplaySize = n
	c.mu.Unlock()
}

// reset restores a channel to new-like condition under the owner's
// control (admin console `reset`/`finalize`).
func (c *Channel) reset(newOwner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Owner = newOwner
	c.Password = ""
	c.Buffer = nil
	c.BufferSize = nil
	replay := defaultReplaySize
	c.ReplaySize = &replay
	c.MutedToMuter = make(map[string]map[string]bool)
	c.Banned = make(map[string]bool)
}

// kickEveryone marks every currently connected member for ejection.
func (c *Channel) kickEveryone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cl := range c.ConnectedClients {
		c.Kicked = append(c.Kicked, cl.Name)
	}
}

// purgeAccount removes every trace of name from this channel's
// moderation state (spec.md invariant 3, cascade from account deletion).
func (c *Channel) purgeAccount(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.MutedToMuter, name)
	delete(c.Banned, name)
	for muted, muters := range c.MutedToMuter {
		if muters[name] {
			delete(muters, name)
			if len(muters) == 0 {
				delete(c.MutedToMuter, muted)
			}
		}
	}
	kicked := c.Kicked[:0]
	for _, n := range c.Kicked {
		if n != name {
			kicked = append(kicked, n)
		}
	}
	c.Kicked = kicked
}

// tryAcquireAdmin attempts to take the single-writer admin lock. Returns
// true on success; the current holder's name otherwise.
func (c *Channel) tryAcquireAdmin(name string) (bool, string) {
	if c.adminMu.TryLock() {
		c.mu.Lock()
		c.adminHolder = name
		c.mu.Unlock()
		return true, ""
	}
	c.mu.Lock()
	holder := c.adminHolder
	c.mu.Unlock()
	return false, holder
}

func (c *Channel) releaseAdmin() {
	c.mu.Lock()
	c.adminHolder = ""
	c.mu.Unlock()
	c.adminMu.Unlock()
}
