package main

// ContactManagerHandler is the inside menu's `contacts` command: a
// small editor over an account's contact list.
type ContactManagerHandler struct {
	client *Client
}

func newContactManagerHandler(c *Client) *ContactManagerHandler {
	return &ContactManagerHandler{client: c}
}

func (h *ContactManagerHandler) handle() (Handler, error) {
	return commandLoop(h.client.conn, "Contacts:", h.commands())
}

func (h *ContactManagerHandler) commands() map[string]command {
	return map[string]command{
		"add":    {"Add someone to your contacts list.", h.doAdd},
		"remove": {"Remove someone from your contacts list.", h.doRemove},
		"show":   {"Show your contacts list and who is online.", h.doShow},
	}
}

func (h *ContactManagerHandler) doAdd(args []string) (Handler, error) {
	conn := h.client.conn
	name, err := argOrInputStandalone(conn, args, 0, "Who?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if name == h.client.Name {
		return nil, conn.Print("You cannot add yourself.")
	}
	if !h.client.server.Accounts.exists(name) {
		return nil, conn.Print(name, "does not exist.")
	}
	if !h.client.account.addContact(name) {
		return nil, conn.Print(name, "is already one of your contacts.")
	}
	return nil, conn.Print(name, "has been added to your contacts.")
}

func (h *ContactManagerHandler) doRemove(args []string) (Handler, error) {
	conn := h.client.conn
	name, err := argOrInputStandalone(conn, args, 0, "Who?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if h.client.account.removeContact(name) {
		return nil, conn.Print(name, "has been removed from your contacts.")
	}
	return nil, conn.Print(name, "was not in your contacts.")
}

func (h *ContactManagerHandler) doShow(args []string) (Handler, error) {
	conn := h.client.conn
	contacts := h.client.account.contactsSnapshot()
	if len(contacts) == 0 {
		return nil, conn.Print("Your contacts list is empty.")
	}
	for _, name := range contacts {
		status := "offline"
		if h.client.server.Accounts.isOnline(name) {
			status = "online"
		}
		if err := conn.Print("  ", name, "-", status); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
