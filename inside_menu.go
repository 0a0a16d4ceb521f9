package main

// defaultMaxForgiveness is the forgiveness threshold used when
// Config.Maxforgiveness is 0; it is the original_source value of 2.
const defaultMaxForgiveness = 2

// InsideMenuHandler is the post-login hub.
type InsideMenuHandler struct {
	client *Client
}

func newInsideMenuHandler(c *Client) *InsideMenuHandler {
	return &InsideMenuHandler{client: c}
}

func (h *InsideMenuHandler) handle() (Handler, error) {
	if err := h.printStatus(); err != nil {
		return nil, err
	}
	handler, err := commandLoop(h.client.conn, "Command:", h.commands())
	if handler == nil && err == nil {
		h.client.account.unbind()
		h.client.account = nil
		h.client.Name = ""
	}
	return handler, err
}

func (h *InsideMenuHandler) printStatus() error {
	conn := h.client.conn
	account := h.client.account

	if account.isAdministrator() {
		if err := conn.Print("Welcome, administrator!"); err != nil {
			return err
		}
	}

	newCount := account.newMessageCount()
	if err := conn.Print("You have", newCount, pluralize(newCount, "new message.", "new messages.")); err != nil {
		return err
	}

	contacts := account.contactsSnapshot()
	online := 0
	for _, name := range contacts {
		if h.client.server.Accounts.isOnline(name) {
			online++
		}
	}
	verb := "are"
	if online == 1 {
		verb = "is"
	}
	return conn.Print(online, "of your", len(contacts), pluralize(len(contacts), "friend", "friends"), verb, "online.")
}

func (h *InsideMenuHandler) commands() map[string]command {
	return map[string]command{
		"channel":  {"Allows you to create and connect to message channels.", h.doChannel},
		"contacts": {"Opens up your contacts list and allows you to edit it.", h.doContacts},
		"messages": {"Opens up your account's inbox to read and send messages.", h.doMessages},
		"options":  {"You can change some of your settings with this command.", h.doOptions},
		"eval":     {"Proof of concept: a simple math expression evaluator.", h.doEval},
		"admin":    {"Access the administration console (if you are an administrator).", h.doAdmin},
	}
}

func (h *InsideMenuHandler) doChannel(args []string) (Handler, error) {
	conn := h.client.conn

	var name string
	var err error
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = conn.Input("Channel to open?")
		if err != nil {
			return nil, err
		}
	}
	if len(args) > 1 || hasWhitespace(name) {
		return nil, conn.Print("Channel name may not have whitespace!")
	}
	if name == "" {
		return nil, conn.Print("Channel name may not be empty.")
	}

	ch, created := h.client.server.Channels.getOrCreate(name, h.client.Name)
	if created {
		if err := conn.Print("Opening the", name, "channel ..."); err != nil {
			return nil, err
		}
	}
	return newChannelServerHandler(h.client, ch), nil
}

func (h *InsideMenuHandler) doContacts(args []string) (Handler, error) {
	return newContactManagerHandler(h.client), nil
}

func (h *InsideMenuHandler) doMessages(args []string) (Handler, error) {
	return newMessageManagerHandler(h.client), nil
}

func (h *InsideMenuHandler) doOptions(args []string) (Handler, error) {
	return newAccountOptionsHandler(h.client), nil
}

func (h *InsideMenuHandler) doEval(args []string) (Handler, error) {
	conn := h.client.conn
	var version string
	var err error
	if len(args) > 0 {
		version = args[0]
	} else {
		version, err = conn.Input("Version?")
		if err != nil {
			return nil, err
		}
	}
	switch version {
	case "old":
		return newMathEvaluatorHandler(h.client, false), nil
	case "new":
		return newMathEvaluatorHandler(h.client, true), nil
	default:
		return nil, conn.Print("Try old or new.")
	}
}

// doAdmin is the forgiveness trap: a non-administrator's attempts are
// counted, and once the threshold is reached their account is deleted
// and their address banned (spec.md §4.5, §8 scenario 6).
func (h *InsideMenuHandler) doAdmin(args []string) (Handler, error) {
	if h.client.account.isAdministrator() {
		return newAdminConsoleHandler(h.client), nil
	}

	maxForgiveness := int(h.client.server.Config.Maxforgiveness)
	if maxForgiveness == 0 {
		maxForgiveness = defaultMaxForgiveness
	}

	if h.client.account.forgive() >= maxForgiveness {
		for _, hostname := range h.client.hostnames {
			h.client.server.BanList.add(hostname)
		}
		name := h.client.Name
		h.client.server.Accounts.remove(name, h.client.server.Channels)
		_ = h.client.conn.Print("You have been warned for the last time!")
		_ = h.client.conn.Print("Now your address has been blocked &")
		_ = h.client.conn.Print("your account has been completely removed.")
		_ = h.client.conn.Close()
		return nil, errPop
	}

	if err := h.client.conn.Print("You are not authorized to be here."); err != nil {
		return nil, err
	}
	return nil, errPop
}
