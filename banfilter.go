package main

// BanFilterHandler is the first gate every connection passes through: it
// resolves the peer address and rejects it if any form matches the
// global ban list. Runs exactly once per connection.
type BanFilterHandler struct {
	client  *Client
	passed  bool
	banList *BanList
}

func newBanFilterHandler(c *Client) *BanFilterHandler {
	return &BanFilterHandler{client: c, banList: c.server.BanList}
}

func (h *BanFilterHandler) handle() (Handler, error) {
	if h.passed {
		_ = h.client.conn.Print("Disconnecting ...")
		return nil, h.client.conn.Close()
	}

	candidates := h.client.resolveHostnames()
	h.client.hostnames = candidates

	if h.banList.matches(candidates) {
		return nil, h.client.conn.Close()
	}

	h.passed = true
	return newOutsideMenuHandler(h.client), nil
}
