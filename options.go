package main

// AccountOptionsHandler is the inside menu's `options` command: account
// self-service (change password, purge data, delete account).
type AccountOptionsHandler struct {
	client *Client
}

func newAccountOptionsHandler(c *Client) *AccountOptionsHandler {
	return &AccountOptionsHandler{client: c}
}

func (h *AccountOptionsHandler) handle() (Handler, error) {
	return commandLoop(h.client.conn, "Options:", h.commands())
}

func (h *AccountOptionsHandler) commands() map[string]command {
	return map[string]command{
		"password":       {"Change your account password.", h.doPassword},
		"purge":          {"Purge your messages, contacts, or both.", h.doPurge},
		"delete_account": {"Permanently delete your account.", h.doDeleteAccount},
	}
}

func (h *AccountOptionsHandler) doPassword(args []string) (Handler, error) {
	conn := h.client.conn
	current, err := conn.Input("Current password:")
	if err != nil {
		return nil, err
	}
	if !h.client.account.checkPassword(current) {
		return nil, conn.Print("Authentication failed!")
	}
	next, err := conn.Input("New password:")
	if err != nil {
		return nil, err
	}
	if next == "" || hasWhitespace(next) {
		return nil, conn.Print("Password may not be empty or contain whitespace!")
	}
	if err := h.client.account.setPassword(next); err != nil {
		return nil, err
	}
	return nil, conn.Print("Password updated.")
}

func (h *AccountOptionsHandler) doPurge(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try messages, contacts, or both.")
	}
	switch args[0] {
	case "messages":
		h.client.account.purgeMessages()
		return nil, conn.Print("Your messages have been purged.")
	case "contacts":
		h.client.account.purgeContacts()
		return nil, conn.Print("Your contacts have been purged.")
	case "both":
		h.client.account.purgeMessages()
		h.client.account.purgeContacts()
		return nil, conn.Print("Your messages and contacts have been purged.")
	default:
		return nil, conn.Print("Try messages, contacts, or both.")
	}
}

func (h *AccountOptionsHandler) doDeleteAccount(args []string) (Handler, error) {
	conn := h.client.conn
	answer, err := conn.Input("Are you sure you want to delete your account?")
	if err != nil {
		return nil, err
	}
	if !affirmative(answer) {
		return nil, conn.Print("Cancelling ...")
	}
	name := h.client.Name
	h.client.server.Accounts.remove(name, h.client.server.Channels)
	if err := conn.Print("Your account has been deleted. Goodbye."); err != nil {
		return nil, err
	}
	_ = conn.Close()
	return nil, errPop
}
