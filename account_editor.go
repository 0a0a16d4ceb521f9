package main

import "strconv"

// AccountEditorHandler lets an administrator inspect and adjust another
// account's fields from the admin console (SPEC_FULL.md §4.11, §13).
type AccountEditorHandler struct {
	client  *Client
	account *Account
}

func newAccountEditorHandler(c *Client, a *Account) *AccountEditorHandler {
	return &AccountEditorHandler{client: c, account: a}
}

func (h *AccountEditorHandler) handle() (Handler, error) {
	if err := h.client.conn.Print("Editing account", h.account.Name, "..."); err != nil {
		return nil, err
	}
	return commandLoop(h.client.conn, "Edit:", h.commands())
}

func (h *AccountEditorHandler) commands() map[string]command {
	return map[string]command{
		"info": {"Show this account's current settings.", h.doInfo},
		"edit": {"Change a field (admin|password|forgiven).", h.doEdit},
		"read": {"Read this account's contacts or messages (contacts|messages).", h.doRead},
	}
}

func (h *AccountEditorHandler) doInfo(args []string) (Handler, error) {
	conn := h.client.conn
	admin, online, contacts, messages, forgiven := h.account.snapshotInfo()
	if err := conn.Print("Name:", h.account.Name); err != nil {
		return nil, err
	}
	if err := conn.Print("Administrator:", admin); err != nil {
		return nil, err
	}
	if err := conn.Print("Online:", online); err != nil {
		return nil, err
	}
	if err := conn.Print("Contacts:", contacts); err != nil {
		return nil, err
	}
	if err := conn.Print("Messages:", messages); err != nil {
		return nil, err
	}
	return nil, conn.Print("Forgiven:", forgiven)
}

func (h *AccountEditorHandler) doEdit(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try admin, password, or forgiven.")
	}
	switch args[0] {
	case "admin":
		value, err := argOrInputStandalone(conn, args[1:], 0, "Administrator? (yes/no)")
		if err != nil {
			return nil, err
		}
		h.account.setAdministrator(affirmative(value))
		return nil, conn.Print("Updated.")
	case "password":
		password, err := argOrInputStandalone(conn, args[1:], 0, "New password?")
		if err != nil {
			return nil, err
		}
		if password == "" {
			return nil, conn.Print("Password may not be empty.")
		}
		if err := h.account.setPassword(password); err != nil {
			return nil, err
		}
		return nil, conn.Print("Password updated.")
	case "forgiven":
		value, err := argOrInputStandalone(conn, args[1:], 0, "Set forgiven count to?")
		if err != nil {
			return nil, err
		}
		if value == "0" || value == "" {
			h.account.resetForgiven()
			return nil, conn.Print("Forgiven count reset.")
		}
		if _, err := strconv.Atoi(value); err != nil {
			return nil, conn.Print("That is not a number.")
		}
		h.account.resetForgiven()
		return nil, conn.Print("Forgiven count reset to 0 (only reset is supported).")
	default:
		return nil, conn.Print("Try admin, password, or forgiven.")
	}
}

func (h *AccountEditorHandler) doRead(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) == 0 {
		return nil, conn.Print("Try contacts or messages.")
	}
	switch args[0] {
	case "contacts":
		contacts := h.account.contactsSnapshot()
		if len(contacts) == 0 {
			return nil, conn.Print("No contacts.")
		}
		for _, c := range contacts {
			if err := conn.Print("  ", c); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case "messages":
		messages := h.account.messagesSnapshot()
		if len(messages) == 0 {
			return nil, conn.Print("No messages.")
		}
		for i, m := range messages {
			if err := conn.Print(i, "-", m.Source, ":", truncate(m.Body, 60)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	default:
		return nil, conn.Print("Try contacts or messages.")
	}
}
