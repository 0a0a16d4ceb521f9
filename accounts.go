package main

import (
	"sync"
)

// AccountRegistry is the global map of accounts. Account names are unique
// and contain no whitespace.
type AccountRegistry struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func newAccountRegistry() *AccountRegistry {
	return &AccountRegistry{accounts: make(map[string]*Account)}
}

// exists reports whether an account with name is registered.
func (r *AccountRegistry) exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[name]
	return ok
}

// get returns the account with name, if any.
func (r *AccountRegistry) get(name string) (*Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[name]
	return a, ok
}

// register creates and stores a new account. The first account ever
// registered becomes an administrator. Fails if the name is already
// taken.
func (r *AccountRegistry) register(name, password string) (*Account, error) {
	r.mu.Lock()
	if _, exists := r.accounts[name]; exists {
		r.mu.Unlock()
		return nil, errAccountExists
	}
	administrator := len(r.accounts) == 0
	r.mu.Unlock()

	account, err := newAccount(name, password, administrator)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[name]; exists {
		return nil, errAccountExists
	}
	r.accounts[name] = account
	return account, nil
}

// isAdministrator reports whether the named account is an administrator.
// The second return is false if the account does not exist.
func (r *AccountRegistry) isAdministrator(name string) (bool, bool) {
	a, ok := r.get(name)
	if !ok {
		return false, false
	}
	return a.isAdministrator(), true
}

// isOnline reports whether the named account currently has a bound
// session. A missing account counts as offline.
func (r *AccountRegistry) isOnline(name string) bool {
	a, ok := r.get(name)
	return ok && a.isOnline()
}

// deliverMessage appends a message to name's inbox and notifies them.
// Reports false if the account does not exist.
func (r *AccountRegistry) deliverMessage(source, name, body string) bool {
	a, ok := r.get(name)
	if !ok {
		return false
	}
	a.deliver(source, body)
	return true
}

// namesExcept returns every registered account name other than except.
func (r *AccountRegistry) namesExcept(except string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		if name != except {
			out = append(out, name)
		}
	}
	return out
}

func (r *AccountRegistry) allAccounts() []*Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out
}

// remove deletes the named account and cascades the deletion across
// every other account's contact list and every channel's ban/kick/mute
// state (spec.md invariant 3).
func (r *AccountRegistry) remove(name string, channels *ChannelRegistry) {
	r.mu.Lock()
	if _, ok := r.accounts[name]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.accounts, name)
	others := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		others = append(others, a)
	}
	r.mu.Unlock()

	for _, a := range others {
		a.removeContactOf(name)
	}

	channels.purgeAccount(name)
}

var errAccountExists = newSimpleError("account already exists")
