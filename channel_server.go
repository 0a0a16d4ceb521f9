package main

import (
	"fmt"
	"strconv"
)

// ChannelServerHandler drives one connection's stay inside a channel:
// lifecycle dispatch, authentication, replay, the message loop, and the
// in-channel command set.
type ChannelServerHandler struct {
	client  *Client
	channel *Channel
}

func newChannelServerHandler(c *Client, ch *Channel) *ChannelServerHandler {
	ch.connect(c)
	return &ChannelServerHandler{client: c, channel: ch}
}

func (h *ChannelServerHandler) handle() (Handler, error) {
	handler, err := h.dispatch()
	h.channel.consumeKick(h.client.Name)
	h.channel.disconnect(h.client)
	return handler, err
}

// dispatch implements the lifecycle gate (spec.md §4.6 steps 1-5).
func (h *ChannelServerHandler) dispatch() (Handler, error) {
	ch := h.channel
	conn := h.client.conn

	if ch.status() == statusFinal {
		return nil, nil
	}

	if ch.status() == statusReset && h.client.Name == ch.ownerName() {
		ch.setStatus(statusStart)
	}

	status := ch.status()
	if status == statusStart {
		ch.setStatus(statusSetup)
	}

	if status == statusStart {
		func() {
			defer ch.setStatus(statusReady)
			h.setupChannel()
		}()
		status = statusReady
	}

	switch status {
	case statusSetup, statusReset:
		return nil, conn.Print(ch.ownerName(), "is setting up this channel.")
	case statusReady:
		return h.runChannel()
	default:
		return nil, fmt.Errorf("%d is not a proper channel status", status)
	}
}

func (h *ChannelServerHandler) setupChannel() {
	h.setupPassword()
	h.setupBufferSize()
	h.setupReplaySize()
}

func (h *ChannelServerHandler) setupPassword() {
	conn := h.client.conn
	answer, err := conn.Input("Password protect this channel?")
	if err != nil || !affirmative(answer) {
		return
	}
	for {
		password, err := conn.Input("Set password to:")
		if err != nil {
			return
		}
		if password != "" {
			h.channel.setPassword(password)
			return
		}
		_ = conn.Print("Password may not be empty.")
	}
}

func (h *ChannelServerHandler) setupBufferSize() {
	conn := h.client.conn
	answer, err := conn.Input("Do you want to set the buffer size?")
	if err != nil || !affirmative(answer) {
		return
	}
	size := getSize(conn, nil)
	h.channel.setBufferSize(size)
}

func (h *ChannelServerHandler) setupReplaySize() {
	conn := h.client.conn
	answer, err := conn.Input("Do you want to set the replay size?")
	if err != nil || !affirmative(answer) {
		return
	}
	size := getSize(conn, nil)
	h.channel.setReplaySize(size)
}

// getSize reads a non-negative integer, or "all"/"infinite"/"total" for
// nil (unbounded), from args[0] if present, else by prompting.
func getSize(conn *Conn, args []string) *int {
	for {
		var line string
		if len(args) > 0 {
			line, args = args[0], nil
		} else {
			var err error
			line, err = conn.Input("Size limitation:")
			if err != nil {
				return nil
			}
		}
		switch line {
		case "all", "infinite", "total":
			return nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 {
			_ = conn.Print("Please enter a non-negative number.")
			continue
		}
		return &n
	}
}

func (h *ChannelServerHandler) runChannel() (Handler, error) {
	conn := h.client.conn
	ch := h.channel

	if ch.isBanned(h.client.Name) {
		return nil, conn.Print("You have been banned from this channel.")
	}

	ok, err := h.authenticate()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conn.Print("You have failed authentication.")
	}

	for _, line := range ch.replayLines() {
		if err := conn.Print(line.render()); err != nil {
			return nil, err
		}
	}

	count := ch.memberCount()
	verb := "are"
	noun := "people"
	if count == 1 {
		verb = "is"
		noun = "person"
	}
	if err := conn.Print(fmt.Sprintf("%d %s %s connected.", count, noun, verb)); err != nil {
		return nil, err
	}

	handler, err := h.messageLoop()
	h.broadcast(eventLine(h.client.Name+" is leaving."), false)
	return handler, err
}

func (h *ChannelServerHandler) authenticate() (bool, error) {
	ch := h.channel
	password := ch.passwordValue()
	if password == "" || h.privileged(false) {
		return true, nil
	}
	answer, err := h.client.conn.Input("Password to connect:")
	if err != nil {
		return false, err
	}
	return answer == password, nil
}

func (h *ChannelServerHandler) messageLoop() (Handler, error) {
	conn := h.client.conn
	ch := h.channel

	h.broadcast(eventLine(h.client.Name+" is joining."), false)

	for {
		line, err := conn.Input()
		if err != nil {
			return nil, err
		}

		if ch.consumeKick(h.client.Name) {
			return nil, conn.Print("You have been kicked out of this channel.")
		}

		if len(line) > 0 && line[0] == ':' {
			handler, _, err := dispatchCommand(conn, line[1:], h.commands())
			if err != nil {
				if err == errPop {
					return nil, nil
				}
				return nil, err
			}
			if handler != nil {
				return handler, nil
			}
			continue
		}

		l := ch.addLine(h.client.Name, line)
		h.broadcast(l, true)
	}
}

// broadcast delivers line to every connected member per spec.md's
// broadcast policy: skip kicked and muters of the source; echo only for
// plain messages, never for EVENT lines.
func (h *ChannelServerHandler) broadcast(line ChannelLine, echo bool) {
	clients, muters, kicked := h.channel.broadcastTargets(line.Source)
	rendered := line.render()
	for _, dest := range clients {
		if kicked[dest.Name] {
			continue
		}
		if muters[dest.Name] {
			continue
		}
		if !echo && dest.ID == h.client.ID {
			continue
		}
		_ = dest.conn.Print(rendered)
	}
}

func (h *ChannelServerHandler) privileged(showError bool) bool {
	if h.client.account.isAdministrator() {
		return true
	}
	if h.client.Name == h.channel.ownerName() {
		return true
	}
	if showError {
		_ = h.client.conn.Print("Only administrators or channel owner may do that.")
	}
	return false
}

// isProtected reports whether name is the owner or an administrator
// (and so may not be banned/kicked). The second return is false if name
// does not exist as an account at all.
func (h *ChannelServerHandler) isProtected(name string) (bool, bool) {
	if h.channel.ownerName() == name {
		return true, true
	}
	admin, exists := h.client.server.Accounts.isAdministrator(name)
	if !exists {
		return false, false
	}
	return admin, true
}
