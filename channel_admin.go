package main

// ChannelAdminHandler is the owner/administrator console reached from a
// channel's `:admin` command (spec.md §4.6, C11). Acquiring it takes the
// channel's single-writer admin lock for the duration of the session.
type ChannelAdminHandler struct {
	client  *Client
	channel *Channel
}

func newChannelAdminHandler(c *Client, ch *Channel) *ChannelAdminHandler {
	return &ChannelAdminHandler{client: c, channel: ch}
}

func (h *ChannelAdminHandler) handle() (Handler, error) {
	conn := h.client.conn

	ok, holder := h.channel.tryAcquireAdmin(h.client.Name)
	if !ok {
		err := conn.Print(holder, "is already in the admin console.")
		h.reconnectIfAlive()
		return nil, err
	}
	defer h.channel.releaseAdmin()

	if err := conn.Print("Entering channel admin console ..."); err != nil {
		h.reconnectIfAlive()
		return nil, err
	}
	handler, err := commandLoop(conn, "Channel admin:", h.commands())
	h.reconnectIfAlive()
	return handler, err
}

// reconnectIfAlive restores the caller to the channel's connected set on
// the way out of the admin console, unless the channel has been
// finalized out from under them (spec.md §4.6).
func (h *ChannelAdminHandler) reconnectIfAlive() {
	if h.channel.status() == statusFinal {
		return
	}
	h.channel.connect(h.client)
}

func (h *ChannelAdminHandler) commands() map[string]command {
	return map[string]command{
		"buffer":   {"View or set the history buffer size.", h.doBuffer},
		"replay":   {"View or set the replay size shown to new members.", h.doReplay},
		"purge":    {"Erase the channel's current history buffer.", h.doPurge},
		"history":  {"Show the channel's current history buffer.", h.doHistory},
		"settings": {"Show this channel's current settings.", h.doSettings},
		"owner":    {"Transfer ownership of this channel.", h.doOwner},
		"password": {"Set or clear this channel's password (set|unset).", h.doPassword},
		"rename":   {"Rename this channel.", h.doRename},
		"close":    {"Disconnect every connected member; the channel stays listed.", h.doClose},
		"delete":   {"Unlist this channel; connected members keep talking.", h.doDelete},
		"reset":    {"Wipe this channel's settings and history, keep the name.", h.doReset},
		"finalize": {"Permanently retire this channel.", h.doFinalize},
	}
}

func (h *ChannelAdminHandler) doBuffer(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		_, _, size, _ := h.channel.settings()
		if size == nil {
			return nil, conn.Print("Buffer size: unlimited (capped at", builtinBufferLimit, ").")
		}
		return nil, conn.Print("Buffer size:", *size)
	}
	n := getSize(conn, args)
	h.channel.setBufferSize(n)
	return nil, conn.Print("Buffer size updated.")
}

func (h *ChannelAdminHandler) doReplay(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		_, _, _, size := h.channel.settings()
		if size == nil {
			return nil, conn.Print("Replay size: entire buffer.")
		}
		return nil, conn.Print("Replay size:", *size)
	}
	n := getSize(conn, args)
	h.channel.setReplaySize(n)
	return nil, conn.Print("Replay size updated.")
}

func (h *ChannelAdminHandler) doPurge(args []string) (Handler, error) {
	h.channel.purgeBuffer()
	return nil, h.client.conn.Print("History buffer purged.")
}

func (h *ChannelAdminHandler) doHistory(args []string) (Handler, error) {
	conn := h.client.conn
	buffer := h.channel.bufferSnapshot()
	if len(buffer) == 0 {
		return nil, conn.Print("The history buffer is empty.")
	}
	for _, l := range buffer {
		if err := conn.Print(l.render()); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (h *ChannelAdminHandler) doSettings(args []string) (Handler, error) {
	conn := h.client.conn
	owner, password, bufferSize, replaySize := h.channel.settings()

	if err := conn.Print("Owner:", owner); err != nil {
		return nil, err
	}
	if password == "" {
		if err := conn.Print("Password: none"); err != nil {
			return nil, err
		}
	} else if err := conn.Print("Password: set"); err != nil {
		return nil, err
	}
	if bufferSize == nil {
		if err := conn.Print("Buffer size: unlimited"); err != nil {
			return nil, err
		}
	} else if err := conn.Print("Buffer size:", *bufferSize); err != nil {
		return nil, err
	}
	if replaySize == nil {
		return nil, conn.Print("Replay size: entire buffer")
	}
	return nil, conn.Print("Replay size:", *replaySize)
}

func (h *ChannelAdminHandler) doOwner(args []string) (Handler, error) {
	conn := h.client.conn
	name, err := argOrInputStandalone(conn, args, 0, "New owner?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if !h.client.server.Accounts.exists(name) {
		return nil, conn.Print(name, "does not exist.")
	}
	h.channel.setOwner(name)
	return nil, conn.Print("Ownership transferred to", name, ".")
}

func (h *ChannelAdminHandler) doPassword(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try set or unset.")
	}
	switch args[0] {
	case "set":
		password, err := argOrInputStandalone(conn, args, 1, "New password?")
		if err != nil {
			return nil, err
		}
		if password == "" {
			return nil, conn.Print("Password may not be empty.")
		}
		h.channel.setPassword(password)
		return nil, conn.Print("Password set.")
	case "unset":
		h.channel.setPassword("")
		return nil, conn.Print("Password removed.")
	default:
		return nil, conn.Print("Try set or unset.")
	}
}

func (h *ChannelAdminHandler) doRename(args []string) (Handler, error) {
	conn := h.client.conn
	newName, err := argOrInputStandalone(conn, args, 0, "New name?")
	if err != nil {
		return nil, err
	}
	if newName == "" || hasWhitespace(newName) {
		return nil, conn.Print("Channel name may not be empty or contain whitespace.")
	}
	oldName, ok := h.channel.channelName()
	if !ok {
		return nil, conn.Print("This channel has already been closed.")
	}
	if !h.client.server.Channels.rename(oldName, newName) {
		return nil, conn.Print("That name is already taken.")
	}
	h.channel.setName(&newName)
	return nil, conn.Print("Channel renamed to", newName, ".")
}

// doClose kicks every connected member but keeps the channel listed and
// its name bound, so it can be entered again (spec.md §4.7).
func (h *ChannelAdminHandler) doClose(args []string) (Handler, error) {
	h.channel.kickEveryone()
	return nil, h.client.conn.Print("Everyone has been disconnected from this channel.")
}

// doDelete unbinds the channel's name only; connected members are left
// alone and keep talking (spec.md §4.7).
func (h *ChannelAdminHandler) doDelete(args []string) (Handler, error) {
	if name, ok := h.channel.channelName(); ok {
		h.client.server.Channels.delete(name)
	}
	h.channel.setName(nil)
	return nil, h.client.conn.Print("Channel unlisted; current members may continue.")
}

func (h *ChannelAdminHandler) doReset(args []string) (Handler, error) {
	conn := h.client.conn
	newOwner, err := argOrInputStandalone(conn, args, 0, "New owner?")
	if err != nil {
		return nil, err
	}
	if newOwner == "" {
		newOwner = h.channel.ownerName()
	}
	if !h.client.server.Accounts.exists(newOwner) {
		return nil, conn.Print(newOwner, "does not exist.")
	}
	h.channel.kickEveryone()
	h.channel.reset(newOwner)
	h.channel.setStatus(statusReset)
	return nil, conn.Print("Channel reset; it will be set up again on next entry.")
}

// doFinalize is delete+close+reset combined and permanent: unbind the
// name, disconnect every member, and wipe the channel's settings and
// history before marking it final (spec.md §4.7).
func (h *ChannelAdminHandler) doFinalize(args []string) (Handler, error) {
	if name, ok := h.channel.channelName(); ok {
		h.client.server.Channels.delete(name)
	}
	h.channel.setName(nil)
	h.channel.kickEveryone()
	h.channel.reset(h.channel.ownerName())
	h.channel.setStatus(statusFinal)
	if err := h.client.conn.Print("Channel permanently retired."); err != nil {
		return nil, err
	}
	return nil, errPop
}

// argOrInputStandalone is the argument-or-prompt helper shared by handlers
// outside ChannelServerHandler (which has its own method form).
func argOrInputStandalone(conn *Conn, args []string, idx int, prompt string) (string, error) {
	if len(args) > idx {
		return args[idx], nil
	}
	return conn.Input(prompt)
}
