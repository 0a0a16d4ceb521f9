package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// persistedAccount is Account's on-disk form: transient session state
// (online, client) is dropped, per spec.md §3/§5.
type persistedAccount struct {
	Name          string
	PasswordHash  []byte
	Administrator bool
	Contacts      []string
	Inbox         []*Message
	Forgiven      int
}

// persistedChannel is Channel's on-disk form: connected clients, the
// admin lock, and status are all transient/reset on load.
type persistedChannel struct {
	ID         int
	Name       *string
	Owner      string
	Password   string
	Buffer     []ChannelLine
	BufferSize *int
	ReplaySize *int

	MutedToMuter map[string]map[string]bool
	Kicked       []string
	Banned       map[string]bool
}

func accountsFile(dir string) string { return filepath.Join(dir, "Accounts.ACCOUNTS.dat") }
func channelNamesFile(dir string) string { return filepath.Join(dir, "Channels.NAMES.dat") }
func channelNextFile(dir string) string  { return filepath.Join(dir, "Channels.NEXT.dat") }
func bannedFile(dir string) string       { return filepath.Join(dir, "BanFilter.BLOCKED.dat") }

func channelFile(dir string, id int) string {
	return filepath.Join(dir, "Channels.CHANNEL_"+strconv.Itoa(id)+".dat")
}

func writeYAML(path string, v interface{}) error {
	buf, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "unable to marshal %s", path)
	}
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return nil
}

func readYAML(path string, v interface{}) (bool, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "unable to read %s", path)
	}
	if err := yaml.Unmarshal(buf, v); err != nil {
		return false, errors.Wrapf(err, "unable to parse %s", path)
	}
	return true, nil
}

// saveState writes every registry to Config.Persistdir (spec.md §6,
// SPEC_FULL.md §12 layout).
func saveState(dir string, accounts *AccountRegistry, channels *ChannelRegistry, bans *BanList) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "unable to create persistence directory %s", dir)
	}

	accountsOut := map[string]*persistedAccount{}
	for _, a := range accounts.allAccounts() {
		a.mu.Lock()
		accountsOut[a.Name] = &persistedAccount{
			Name:          a.Name,
			PasswordHash:  a.passwordHash,
			Administrator: a.Administrator,
			Contacts:      append([]string{}, a.Contacts...),
			Inbox:         append([]*Message{}, a.Inbox...),
			Forgiven:      a.Forgiven,
		}
		a.mu.Unlock()
	}
	if err := writeYAML(accountsFile(dir), accountsOut); err != nil {
		return err
	}

	channels.mu.Lock()
	names := map[string]int{}
	for n, id := range channels.names {
		names[n] = id
	}
	nextID := channels.nextID
	all := make([]*Channel, 0, len(channels.channels))
	for _, c := range channels.channels {
		all = append(all, c)
	}
	channels.mu.Unlock()

	if err := writeYAML(channelNamesFile(dir), names); err != nil {
		return err
	}
	if err := writeYAML(channelNextFile(dir), nextID); err != nil {
		return err
	}
	for _, c := range all {
		c.mu.Lock()
		p := &persistedChannel{
			ID:           c.ID,
			Name:         c.Name,
			Owner:        c.Owner,
			Password:     c.Password,
			Buffer:       append([]ChannelLine{}, c.Buffer...),
			BufferSize:   c.BufferSize,
			ReplaySize:   c.ReplaySize,
			MutedToMuter: c.MutedToMuter,
			Kicked:       append([]string{}, c.Kicked...),
			Banned:       c.Banned,
		}
		c.mu.Unlock()
		if err := writeYAML(channelFile(dir, p.ID), p); err != nil {
			return err
		}
	}

	if err := writeYAML(bannedFile(dir), bans.snapshot()); err != nil {
		return err
	}
	return nil
}

// loadState populates fresh registries from Config.Persistdir. A missing
// directory or missing files are not errors: the server simply starts
// empty, the way a first run would.
func loadState(dir string) (*AccountRegistry, *ChannelRegistry, *BanList, error) {
	accounts := newAccountRegistry()
	channels := newChannelRegistry()
	bans := newBanList()

	var persistedAccounts map[string]*persistedAccount
	if ok, err := readYAML(accountsFile(dir), &persistedAccounts); err != nil {
		return nil, nil, nil, err
	} else if ok {
		for name, p := range persistedAccounts {
			accounts.accounts[name] = &Account{
				Name:          p.Name,
				passwordHash:  p.PasswordHash,
				Administrator: p.Administrator,
				Contacts:      p.Contacts,
				Inbox:         p.Inbox,
				Forgiven:      p.Forgiven,
			}
		}
	}

	var names map[string]int
	if ok, err := readYAML(channelNamesFile(dir), &names); err != nil {
		return nil, nil, nil, err
	} else if ok {
		channels.names = names
	}

	var nextID int
	if ok, err := readYAML(channelNextFile(dir), &nextID); err != nil {
		return nil, nil, nil, err
	} else if ok {
		channels.nextID = nextID
	}

	for _, id := range channels.names {
		var p persistedChannel
		ok, err := readYAML(channelFile(dir, id), &p)
		if err != nil {
			return nil, nil, nil, err
		}
		if !ok {
			continue
		}
		ch := &Channel{
			ID:               p.ID,
			Name:             p.Name,
			Owner:            p.Owner,
			Password:         p.Password,
			Buffer:           p.Buffer,
			BufferSize:       p.BufferSize,
			ReplaySize:       p.ReplaySize,
			Status:           statusReady,
			ConnectedClients: make(map[string]*Client),
			MutedToMuter:     p.MutedToMuter,
			Kicked:           p.Kicked,
			Banned:           p.Banned,
		}
		if ch.MutedToMuter == nil {
			ch.MutedToMuter = make(map[string]map[string]bool)
		}
		if ch.Banned == nil {
			ch.Banned = make(map[string]bool)
		}
		channels.channels[id] = ch
	}

	var blocked []string
	if ok, err := readYAML(bannedFile(dir), &blocked); err != nil {
		return nil, nil, nil, err
	} else if ok {
		bans.blocked = blocked
	}

	return accounts, channels, bans, nil
}
