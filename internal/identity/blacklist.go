package identity

import "sync"

// Blacklist holds logged-out tokens until they would have expired anyway.
// It is bounded: once it grows past its limit it is cleared wholesale, which at
// worst lets an already-logged-out token live out its short expiry.
type Blacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
	limit  int
}

func NewBlacklist(limit int) *Blacklist {
	if limit <= 0 {
		limit = 10000
	}
	return &Blacklist{
		tokens: make(map[string]struct{}),
		limit:  limit,
	}
}

func (b *Blacklist) Add(token string) {
	if token == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.tokens) >= b.limit {
		b.tokens = make(map[string]struct{})
	}
	b.tokens[token] = struct{}{}
}

func (b *Blacklist) Contains(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tokens[token]
	return ok
}

func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tokens)
}
