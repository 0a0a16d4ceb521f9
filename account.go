package main

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Message is one entry in an account's inbox.
type Message struct {
	Source string
	Body   string
	New    bool
}

// Account is a per-user persistent record plus the transient session
// fields that bind it to a connection while online.
type Account struct {
	mu sync.Mutex

	Name          string
	passwordHash  []byte
	Administrator bool
	Contacts      []string
	Inbox         []*Message
	Forgiven      int

	// Transient: reset to zero value on load, never persisted.
	online bool
	client *Client // weak: existence checked through online, never owned
}

// newAccount creates an account with the given password, bcrypt-hashed.
func newAccount(name, password string, administrator bool) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Account{
		Name:          name,
		passwordHash:  hash,
		Administrator: administrator,
	}, nil
}

// checkPassword reports whether password matches the stored hash.
func (a *Account) checkPassword(password string) bool {
	a.mu.Lock()
	hash := a.passwordHash
	a.mu.Unlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// setPassword replaces the stored password hash.
func (a *Account) setPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.passwordHash = hash
	a.mu.Unlock()
	return nil
}

// isOnline reports whether an active session currently holds this account.
func (a *Account) isOnline() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.online
}

// bind marks the account online and attaches the owning connection. It
// fails if the account is already online (spec: at most one session per
// account).
func (a *Account) bind(c *Client) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.online {
		return false
	}
	a.online = true
	a.client = c
	return true
}

// unbind clears the transient session fields. Safe to call more than once.
func (a *Account) unbind() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.online = false
	a.client = nil
}

// broadcast delivers a line to the account's current client, if online.
func (a *Account) broadcast(line string) {
	a.mu.Lock()
	client := a.client
	online := a.online
	a.mu.Unlock()
	if online && client != nil {
		_ = client.conn.Print(line)
	}
}

// forceDisconnect closes the account's current connection, if online.
func (a *Account) forceDisconnect() {
	a.mu.Lock()
	client := a.client
	online := a.online
	a.mu.Unlock()
	if online && client != nil {
		_ = client.conn.Close()
	}
}

// addContact appends name to the contact list if not already present.
// Returns false if name is already a contact. It does not check that
// name is a registered account; callers verify that first.
func (a *Account) addContact(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.Contacts {
		if c == name {
			return false
		}
	}
	a.Contacts = append(a.Contacts, name)
	return true
}

// removeContact removes name from the contact list.
func (a *Account) removeContact(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, c := range a.Contacts {
		if c == name {
			a.Contacts = append(a.Contacts[:i], a.Contacts[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Account) contactsSnapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.Contacts))
	copy(out, a.Contacts)
	return out
}

func (a *Account) purgeContacts() {
	a.mu.Lock()
	a.Contacts = nil
	a.mu.Unlock()
}

func (a *Account) purgeMessages() {
	a.mu.Lock()
	a.Inbox = nil
	a.mu.Unlock()
}

func (a *Account) removeContactOf(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, c := range a.Contacts {
		if c == name {
			a.Contacts = append(a.Contacts[:i], a.Contacts[i+1:]...)
			break
		}
	}
}

func (a *Account) deliver(source, body string) {
	a.mu.Lock()
	a.Inbox = append(a.Inbox, &Message{Source: source, Body: body, New: true})
	a.mu.Unlock()
	a.broadcast("[EVENT] " + source + " has sent you a message.")
}

func (a *Account) messagesSnapshot() []*Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Message, len(a.Inbox))
	copy(out, a.Inbox)
	return out
}

func (a *Account) deleteMessages(toDelete []*Message) {
	dead := make(map[*Message]bool, len(toDelete))
	for _, m := range toDelete {
		dead[m] = true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.Inbox[:0:0]
	for _, m := range a.Inbox {
		if !dead[m] {
			kept = append(kept, m)
		}
	}
	a.Inbox = kept
}

func (a *Account) newMessageCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, m := range a.Inbox {
		if m.New {
			n++
		}
	}
	return n
}

func (a *Account) forgive() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Forgiven++
	return a.Forgiven
}

func (a *Account) resetForgiven() {
	a.mu.Lock()
	a.Forgiven = 0
	a.mu.Unlock()
}

func (a *Account) setAdministrator(v bool) {
	a.mu.Lock()
	a.Administrator = v
	a.mu.Unlock()
}

func (a *Account) isAdministrator() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Administrator
}

func (a *Account) snapshotInfo() (admin, online bool, contacts, messages, forgiven int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Administrator, a.online, len(a.Contacts), len(a.Inbox), a.Forgiven
}
