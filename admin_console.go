package main

// AdminConsoleHandler is the server-level console reached from the inside
// menu's `admin` command by an administrator account (spec.md §4.9).
type AdminConsoleHandler struct {
	client *Client
}

func newAdminConsoleHandler(c *Client) *AdminConsoleHandler {
	return &AdminConsoleHandler{client: c}
}

func (h *AdminConsoleHandler) handle() (Handler, error) {
	if err := h.client.conn.Print("Entering administration console ..."); err != nil {
		return nil, err
	}
	return commandLoop(h.client.conn, "Admin:", h.commands())
}

func (h *AdminConsoleHandler) commands() map[string]command {
	return map[string]command{
		"account":  {"View, remove, or edit an account (view|remove|edit).", h.doAccount},
		"ban":      {"View, add, or remove a server-wide ban (view|add|remove).", h.doBan},
		"channels": {"List every currently registered channel.", h.doChannels},
		"shutdown": {"Shut down the server or disconnect users (server|users|admin|all).", h.doShutdown},
	}
}

func (h *AdminConsoleHandler) doAccount(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try view, remove, or edit.")
	}
	switch args[0] {
	case "view":
		return nil, h.viewAccounts()
	case "remove":
		return nil, h.removeAccount(args[1:])
	case "edit":
		name, err := argOrInputStandalone(conn, args[1:], 0, "Which account?")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, conn.Print("Cancelling ...")
		}
		account, ok := h.client.server.Accounts.get(name)
		if !ok {
			return nil, conn.Print(name, "does not exist.")
		}
		return newAccountEditorHandler(h.client, account), nil
	default:
		return nil, conn.Print("Try view, remove, or edit.")
	}
}

func (h *AdminConsoleHandler) viewAccounts() error {
	conn := h.client.conn
	names := h.client.server.Accounts.namesExcept("")
	if len(names) == 0 {
		return conn.Print("No accounts are registered.")
	}
	if err := conn.Print("Registered accounts:"); err != nil {
		return err
	}
	for _, name := range names {
		account, ok := h.client.server.Accounts.get(name)
		if !ok {
			continue
		}
		admin, online, contacts, messages, forgiven := account.snapshotInfo()
		status := "offline"
		if online {
			status = "online"
		}
		if admin {
			status += ", administrator"
		}
		if err := conn.Print("  ", name, "-", status, "-", contacts, "contacts,",
			messages, "messages,", forgiven, "forgiven"); err != nil {
			return err
		}
	}
	return nil
}

// removeAccount deletes an account. Administrators may not remove
// themselves or another administrator through this command.
func (h *AdminConsoleHandler) removeAccount(args []string) error {
	conn := h.client.conn
	name, err := argOrInputStandalone(conn, args, 0, "Which account?")
	if err != nil {
		return err
	}
	if name == "" {
		return conn.Print("Cancelling ...")
	}
	if name == h.client.Name {
		return conn.Print("You may not remove your own account this way.")
	}
	account, ok := h.client.server.Accounts.get(name)
	if !ok {
		return conn.Print(name, "does not exist.")
	}
	if account.isAdministrator() {
		return conn.Print("Administrators may not be removed this way.")
	}
	account.forceDisconnect()
	h.client.server.Accounts.remove(name, h.client.server.Channels)
	return conn.Print(name, "has been removed.")
}

func (h *AdminConsoleHandler) doBan(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try view, add, or remove.")
	}
	switch args[0] {
	case "view":
		addrs := h.client.server.BanList.snapshot()
		if len(addrs) == 0 {
			return nil, conn.Print("No bans are in effect.")
		}
		if err := conn.Print("Banned addresses:"); err != nil {
			return nil, err
		}
		for _, a := range addrs {
			if err := conn.Print("  ", a); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case "add":
		addr, err := argOrInputStandalone(conn, args[1:], 0, "Address to ban?")
		if err != nil {
			return nil, err
		}
		if addr == "" {
			return nil, conn.Print("Cancelling ...")
		}
		if !h.client.server.BanList.add(addr) {
			return nil, conn.Print(addr, "is already banned.")
		}
		return nil, conn.Print(addr, "has been banned.")
	case "remove":
		addr, err := argOrInputStandalone(conn, args[1:], 0, "Address to unban?")
		if err != nil {
			return nil, err
		}
		if h.client.server.BanList.remove(addr) {
			return nil, conn.Print(addr, "has been unbanned.")
		}
		return nil, conn.Print(addr, "was not banned.")
	default:
		return nil, conn.Print("Try view, add, or remove.")
	}
}

func (h *AdminConsoleHandler) doChannels(args []string) (Handler, error) {
	conn := h.client.conn
	names := h.client.server.Channels.channelNames()
	if len(names) == 0 {
		return nil, conn.Print("No channels are currently registered.")
	}
	if err := conn.Print("Registered channels:"); err != nil {
		return nil, err
	}
	for _, n := range names {
		if err := conn.Print("  ", n); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// doShutdown implements the four-level shutdown granularity (spec.md
// §4.9): stop accepting new connections, then optionally disconnect
// non-admin users, administrators, or (with "all") the caller too.
func (h *AdminConsoleHandler) doShutdown(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try server, users, admin, or all.")
	}

	mode := args[0]
	switch mode {
	case "server", "users", "admin", "all":
	default:
		return nil, conn.Print("Try server, users, admin, or all.")
	}

	h.client.server.shutdownListener()
	if err := conn.Print("The server is no longer accepting new connections."); err != nil {
		return nil, err
	}

	for _, c := range h.client.server.connectedClients() {
		if c.account == nil {
			// Not yet logged in: disconnected at every shutdown level.
			_ = c.conn.Print("The server is shutting down.")
			_ = c.conn.Close()
			continue
		}
		if mode == "server" {
			continue
		}
		isSelf := c.ID == h.client.ID
		if isSelf && mode != "all" {
			continue
		}
		admin := c.account.isAdministrator()
		if admin && mode == "users" {
			continue
		}
		c.account.forceDisconnect()
	}
	return nil, nil
}
