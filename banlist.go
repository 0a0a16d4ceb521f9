package main

import (
	"strings"
	"sync"
)

// BanList is the global set of peer identifiers (hostnames, aliases,
// numeric addresses) that cause immediate disconnect.
type BanList struct {
	mu      sync.Mutex
	blocked []string
}

func newBanList() *BanList {
	return &BanList{}
}

func (b *BanList) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.blocked))
	copy(out, b.blocked)
	return out
}

// matches reports whether any of the given candidate identifiers is
// blocked. Name-like candidates are matched case-insensitively.
func (b *BanList) matches(candidates []string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, candidate := range candidates {
		for _, blocked := range b.blocked {
			if blocked == candidate || strings.EqualFold(blocked, candidate) {
				return true
			}
		}
	}
	return false
}

func (b *BanList) add(addr string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.blocked {
		if existing == addr {
			return false
		}
	}
	b.blocked = append(b.blocked, addr)
	return true
}

func (b *BanList) remove(addr string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.blocked {
		if existing == addr {
			b.blocked = append(b.blocked[:i], b.blocked[i+1:]...)
			return true
		}
	}
	return false
}
