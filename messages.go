package main

import "strconv"

// MessageManagerHandler is the inside menu's `messages` command: an
// inbox editor mirroring original_source's message reader (send, show,
// read, delete), reworked around Account's Message slice.
type MessageManagerHandler struct {
	client *Client
}

func newMessageManagerHandler(c *Client) *MessageManagerHandler {
	return &MessageManagerHandler{client: c}
}

func (h *MessageManagerHandler) handle() (Handler, error) {
	return commandLoop(h.client.conn, "Messages:", h.commands())
}

func (h *MessageManagerHandler) commands() map[string]command {
	return map[string]command{
		"send":   {"Send a message to someone's inbox.", h.doSend},
		"show":   {"List the messages in your inbox.", h.doShow},
		"read":   {"Read one message in full by its index.", h.doRead},
		"delete": {"Delete one message by index, or all of them.", h.doDelete},
	}
}

func (h *MessageManagerHandler) doSend(args []string) (Handler, error) {
	conn := h.client.conn
	name, err := argOrInputStandalone(conn, args, 0, "Who?")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, conn.Print("Cancelling ...")
	}
	if !h.client.server.Accounts.exists(name) {
		return nil, conn.Print(name, "does not exist.")
	}
	body, err := conn.Input("Message:")
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, conn.Print("You may not send an empty message.")
	}
	h.client.server.Accounts.deliverMessage(h.client.Name, name, body)
	return nil, conn.Print("Message sent.")
}

func (h *MessageManagerHandler) doShow(args []string) (Handler, error) {
	conn := h.client.conn
	messages := h.client.account.messagesSnapshot()
	if len(messages) == 0 {
		return nil, conn.Print("Your inbox is empty.")
	}
	for i, m := range messages {
		marker := ""
		if m.New {
			marker = " (new)"
		}
		if err := conn.Print(i, "-", m.Source, ":", truncate(m.Body, 60), marker); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// pickMessage resolves an index argument (or prompts for one) to a
// message pointer, the way original_source's pick_message does.
func (h *MessageManagerHandler) pickMessage(args []string) (*Message, error) {
	conn := h.client.conn
	raw, err := argOrInputStandalone(conn, args, 0, "Which index?")
	if err != nil {
		return nil, err
	}
	messages := h.client.account.messagesSnapshot()
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(messages) {
		_ = conn.Print("That is not a valid index.")
		return nil, nil
	}
	return messages[idx], nil
}

func (h *MessageManagerHandler) doRead(args []string) (Handler, error) {
	conn := h.client.conn
	m, err := h.pickMessage(args)
	if err != nil || m == nil {
		return nil, err
	}
	if err := conn.Print("From", m.Source+":"); err != nil {
		return nil, err
	}
	for _, line := range wrapText(m.Body, 70) {
		if err := conn.Print(line); err != nil {
			return nil, err
		}
	}
	m.New = false
	return nil, nil
}

func (h *MessageManagerHandler) doDelete(args []string) (Handler, error) {
	conn := h.client.conn
	if len(args) > 0 && args[0] == "all" {
		h.client.account.purgeMessages()
		return nil, conn.Print("All messages deleted.")
	}
	m, err := h.pickMessage(args)
	if err != nil || m == nil {
		return nil, err
	}
	h.client.account.deleteMessages([]*Message{m})
	return nil, conn.Print("Message deleted.")
}
