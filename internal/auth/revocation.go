package auth

import (
	"sync"
	"time"
)

// RevocationList is an in-memory set of tokens invalidated before their
// natural expiry (logout, refresh rotation).  It is safe for concurrent use
// by request handlers.  Entries are kept until the token's own expiry has
// passed, after which they are pruned opportunistically on the next Add --
// an expired token fails verification on its exp claim anyway.
//
// The list is process-local.  Running several instances behind a balancer
// needs a shared revocation store instead.
type RevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time // raw token -> natural expiry
}

func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time)}
}

// Add marks a token as revoked until exp.  Re-adding a token is a no-op.
func (l *RevocationList) Add(token string, exp time.Time) {
	now := time.Now().UTC()
	l.mu.Lock()
	defer l.mu.Unlock()
	for t, e := range l.entries {
		if e.Before(now) {
			delete(l.entries, t)
		}
	}
	l.entries[token] = exp
}

// Contains reports whether the token has been revoked.
func (l *RevocationList) Contains(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[token]
	return ok
}

// Len returns the number of tracked entries, pruned or not.
func (l *RevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
