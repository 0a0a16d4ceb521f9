package main

// commands returns the in-channel `:`-prefixed command registry
// (spec.md §4.6 "Channel commands").
func (h *ChannelServerHandler) commands() map[string]command {
	return map[string]command{
		"admin":   {"Owner/administrator: open this channel's admin console.", h.doAdmin},
		"ban":     {"Owner/administrator: ban a user from this channel (add|del|list).", h.doBan},
		"invite":  {"Invite someone to join this channel.", h.doInvite},
		"kick":    {"Owner/administrator: kick a user off this channel.", h.doKick},
		"list":    {"Show everyone connected to this channel.", h.doList},
		"mute":    {"Access and change your muted user list (add|del|list).", h.doMute},
		"wisper":  {"Send a private message to one specific person.", h.doWisper},
		"summary": {"Proof of concept: summarize the channel's recent history.", h.doSummary},
		"bot":     {"Owner: reserved for future expansion.", h.doBot},
		"map":     {"Owner: reserved for future expansion.", h.doMap},
		"run":     {"Owner: reserved for future expansion.", h.doRun},
	}
}

func (h *ChannelServerHandler) doAdmin(args []string) (Handler, error) {
	if !h.privileged(true) {
		return nil, nil
	}
	return newChannelAdminHandler(h.client, h.channel), nil
}

func (h *ChannelServerHandler) doBan(args []string) (Handler, error) {
	conn := h.client.conn
	if !h.privileged(true) {
		return nil, nil
	}
	if len(args) == 0 {
		return nil, conn.Print("Try add, del, or list.")
	}
	switch args[0] {
	case "add":
		name, err := h.argOrInput(args, 1, "Who?")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, conn.Print("Cancelling ...")
		}
		return nil, h.addBan(name)
	case "del":
		name, err := h.argOrInput(args, 1, "Who?")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, conn.Print("Cancelling ...")
		}
		return nil, h.delBan(name)
	case "list":
		return nil, h.listBan()
	default:
		return nil, conn.Print("Try add, del, or list.")
	}
}

func (h *ChannelServerHandler) addBan(name string) error {
	conn := h.client.conn
	protected, exists := h.isProtected(name)
	if !exists {
		return conn.Print(name, "does not exist.")
	}
	if protected {
		return conn.Print(name, "cannot be banned.")
	}
	if !h.channel.addBan(name) {
		return conn.Print(name, "has already been banned.")
	}
	h.channel.kick(name)
	return conn.Print(name, "has been banned.")
}

func (h *ChannelServerHandler) delBan(name string) error {
	conn := h.client.conn
	if h.channel.removeBan(name) {
		return conn.Print(name, "is no longer banned on this channel.")
	}
	return conn.Print(name, "was not banned on this channel.")
}

func (h *ChannelServerHandler) listBan() error {
	conn := h.client.conn
	names := h.channel.bannedNames()
	if len(names) == 0 {
		return conn.Print("No one has been banned on this channel.")
	}
	if err := conn.Print("Those that are banned from this channel:"); err != nil {
		return err
	}
	for _, n := range names {
		if err := conn.Print("   ", n); err != nil {
			return err
		}
	}
	return nil
}

func (h *ChannelServerHandler) doInvite(args []string) (Handler, error) {
	conn := h.client.conn
	if _, exists := h.channel.channelName(); !exists {
		return nil, conn.Print("This channel has been permanently closed.")
	}
	password := h.channel.passwordValue()
	if password != "" && !h.privileged(false) {
		return nil, nil
	}

	name, err := h.argOrInput(args, 0, "Who?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if name == h.client.Name {
		return nil, conn.Print("You are already here.")
	}

	channelName, _ := h.channel.channelName()
	body := h.client.Name + " has invited you to channel " + channelName + "."
	if password != "" {
		body += "\n\nUse this to get in: " + password
	}
	if h.client.server.Accounts.deliverMessage(h.client.Name, name, body) {
		return nil, conn.Print("Invitation has been sent.")
	}
	return nil, conn.Print(name, "does not exist.")
}

func (h *ChannelServerHandler) doKick(args []string) (Handler, error) {
	return nil, h.kickImpl(args, true)
}

func (h *ChannelServerHandler) kickImpl(args []string, verbose bool) error {
	conn := h.client.conn
	if !h.privileged(true) {
		return nil
	}
	name, err := h.argOrInput(args, 0, "Who?")
	if err != nil {
		return err
	}
	printf := func(parts ...interface{}) error {
		if !verbose {
			return nil
		}
		return conn.Print(parts...)
	}
	if name == "" {
		return printf("Cancelling ...")
	}
	protected, exists := h.isProtected(name)
	if !exists {
		return printf(name, "does not exist.")
	}
	if protected {
		return printf(name, "cannot be kicked.")
	}
	for _, member := range h.channel.members() {
		if member.Name == name {
			h.channel.kick(name)
			return printf(name, "has been kicked.")
		}
	}
	return printf(name, "is not on this channel.")
}

func (h *ChannelServerHandler) doList(args []string) (Handler, error) {
	conn := h.client.conn
	members := h.channel.members()
	if len(members) == 1 {
		return nil, conn.Print("You alone are on this channel.")
	}
	if err := conn.Print("Currently connected to this channel:"); err != nil {
		return nil, err
	}
	for _, m := range members {
		if err := conn.Print("   ", m.Name); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (h *ChannelServerHandler) doMute(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try add, del, or list.")
	}
	switch args[0] {
	case "add":
		name, err := h.argOrInput(args, 1, "Who?")
		if err != nil {
			return nil, err
		}
		return nil, h.addMute(name)
	case "del":
		name, err := h.argOrInput(args, 1, "Who?")
		if err != nil {
			return nil, err
		}
		return nil, h.delMute(name)
	case "list":
		return nil, h.listMute()
	default:
		return nil, conn.Print("Try add, del, or list.")
	}
}

func (h *ChannelServerHandler) addMute(name string) error {
	conn := h.client.conn
	if name == "" {
		return conn.Print("Cancelling ...")
	}
	if !h.client.server.Accounts.exists(name) {
		return conn.Print(name, "does not exist.")
	}
	if !h.channel.addMute(name, h.client.Name) {
		return conn.Print(name, "was already muted.")
	}
	return conn.Print(name, "has been muted.")
}

func (h *ChannelServerHandler) delMute(name string) error {
	conn := h.client.conn
	if name == "" {
		return conn.Print("Cancelling ...")
	}
	if h.channel.removeMute(name, h.client.Name) {
		return conn.Print(name, "has been unmuted.")
	}
	return conn.Print(name, "was not muted.")
}

func (h *ChannelServerHandler) listMute() error {
	conn := h.client.conn
	muted := h.channel.mutedByCaller(h.client.Name)
	if len(muted) == 0 {
		return conn.Print("Your list is empty.")
	}
	if err := conn.Print("You have muted:"); err != nil {
		return err
	}
	for _, n := range muted {
		if err := conn.Print("   ", n); err != nil {
			return err
		}
	}
	return nil
}

// doWisper delivers a private message: in-channel if the target is
// present and has not muted the sender, otherwise falling back to the
// inbox (spec.md §4.6 "Whisper routing tie-break").
func (h *ChannelServerHandler) doWisper(args []string) (Handler, error) {
	conn := h.client.conn
	name, err := h.argOrInput(args, 0, "Who?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if !h.client.server.Accounts.exists(name) {
		return nil, conn.Print(name, "does not exist.")
	}
	message, err := conn.Input("Message:")
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, conn.Print("You may not wisper empty messages.")
	}

	if !h.channel.hasMuted(h.client.Name, name) {
		for _, member := range h.channel.members() {
			if member.Name == name {
				_ = member.conn.Print("(" + h.client.Name + ") " + message)
				return nil, conn.Print("Message sent.")
			}
		}
	}

	if h.client.server.Accounts.deliverMessage(h.client.Name, name, message) {
		return nil, conn.Print("Message sent.")
	}
	return nil, conn.Print(name, "no longer has an account.")
}

func (h *ChannelServerHandler) doSummary(args []string) (Handler, error) {
	buffer := h.channel.bufferSnapshot()
	if len(buffer) == 0 {
		return nil, h.client.conn.Print("There is nothing to summarize.")
	}
	return newMarkovSummaryHandler(h.client, h.channel, buffer), nil
}

func (h *ChannelServerHandler) doBot(args []string) (Handler, error) {
	if h.privileged(true) {
		_ = h.client.conn.Print("Reserved command for future expansion ...")
	}
	return nil, nil
}

func (h *ChannelServerHandler) doMap(args []string) (Handler, error) {
	if h.privileged(true) {
		_ = h.client.conn.Print("Reserved command for future expansion ...")
	}
	return nil, nil
}

func (h *ChannelServerHandler) doRun(args []string) (Handler, error) {
	if h.privileged(true) {
		_ = h.client.conn.Print("Reserved command for future expansion ...")
	}
	return nil, nil
}

// argOrInput returns args[idx] if present, else prompts for it.
func (h *ChannelServerHandler) argOrInput(args []string, idx int, prompt string) (string, error) {
	if len(args) > idx {
		return args[idx], nil
	}
	return h.client.conn.Input(prompt)
}
