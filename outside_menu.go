package main

// OutsideMenuHandler is the unauthenticated screen: register, login,
// and an open_source notice (no source is sent).
type OutsideMenuHandler struct {
	client *Client
}

func newOutsideMenuHandler(c *Client) *OutsideMenuHandler {
	return &OutsideMenuHandler{client: c}
}

func (h *OutsideMenuHandler) handle() (Handler, error) {
	if err := h.printBanner(); err != nil {
		return nil, err
	}
	return commandLoop(h.client.conn, "Command:", h.commands())
}

func (h *OutsideMenuHandler) printBanner() error {
	return h.client.conn.Print(
		"/----------------------------\\\n" +
			"|                            |\n" +
			"|    Welcome to Multichat    |\n" +
			"|   ======================   |\n" +
			"|     Go Server Edition      |\n" +
			"|                            |\n" +
			"\\----------------------------/")
}

func (h *OutsideMenuHandler) commands() map[string]command {
	return map[string]command{
		"login":       {"Login to the server to access account.", h.doLogin},
		"register":    {"Register for an account using this command.", h.doRegister},
		"open_source": {"Display a notice about this program's source code.", h.doOpenSource},
	}
}

func (h *OutsideMenuHandler) doLogin(args []string) (Handler, error) {
	conn := h.client.conn

	var name, password string
	var err error
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = conn.Input("Username:")
		if err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		password = args[1]
	} else {
		password, err = conn.Input("Password:")
		if err != nil {
			return nil, err
		}
	}

	account, ok := h.client.server.Accounts.get(name)
	if !ok || !account.checkPassword(password) {
		return nil, conn.Print("Authentication failed!")
	}

	if !account.bind(h.client) {
		return nil, conn.Print("Account is already logged in!")
	}

	h.client.Name = name
	h.client.account = account
	return newInsideMenuHandler(h.client), nil
}

func (h *OutsideMenuHandler) doRegister(args []string) (Handler, error) {
	conn := h.client.conn

	agreed, err := h.checkTermsOfService()
	if err != nil {
		return nil, err
	}
	if !agreed {
		return nil, errPop
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = conn.Input("Username:")
		if err != nil {
			return nil, err
		}
	}
	if hasWhitespace(name) {
		return nil, conn.Print("Username may not have whitespace!")
	}
	if name == "" {
		return nil, conn.Print("Username may not be empty.")
	}

	var password string
	if len(args) > 1 {
		password = args[1]
	} else {
		password, err = conn.Input("Password:")
		if err != nil {
			return nil, err
		}
	}
	if password == "" || hasWhitespace(password) {
		return nil, conn.Print("Password may not have whitespace!")
	}

	account, err := h.client.server.Accounts.register(name, password)
	if err != nil {
		return nil, conn.Print("Account already exists!")
	}

	account.bind(h.client)
	h.client.Name = name
	h.client.account = account
	return newInsideMenuHandler(h.client), nil
}

func (h *OutsideMenuHandler) doOpenSource(args []string) (Handler, error) {
	show := len(args) > 0 && args[0] == "show"
	if !show {
		answer, err := h.client.conn.Input("Are you sure?")
		if err != nil {
			return nil, err
		}
		show = affirmative(answer)
	}
	if !show {
		return nil, nil
	}
	return nil, h.client.conn.Print(
		"This server's source is not served over the wire; see the project repository.")
}

func (h *OutsideMenuHandler) checkTermsOfService() (bool, error) {
	conn := h.client.conn
	if err := conn.Print(
		"/----------------------------\\\n" +
			"|      TERMS OF SERVICE      |\n" +
			"|  ========================  |\n" +
			"|  By registering with this  |\n" +
			"|  service, you agree that   |\n" +
			"|  your account may be       |\n" +
			"|  removed without warning.  |\n" +
			"\\----------------------------/"); err != nil {
		return false, err
	}
	answer, err := conn.Input("Do you agree?")
	if err != nil {
		return false, err
	}
	return affirmative(answer), nil
}
