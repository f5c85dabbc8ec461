// Package dedup suppresses repeated processing of redelivered messages.
package dedup

import "sync"

// DefaultMaxSize is the default bound on remembered messages.
const DefaultMaxSize = 1000

type key struct {
	chatID    int64
	messageID int
}

// Cache is a bounded set of recently seen (chat, message) pairs. When an
// insert would exceed the bound the whole set is cleared first; it keeps no
// recency order and is not an LRU.
type Cache struct {
	mu      sync.Mutex
	seen    map[key]struct{}
	maxSize int
}

// New returns a Cache holding at most maxSize keys. Values below 1 fall back
// to DefaultMaxSize.
func New(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		seen:    make(map[key]struct{}, maxSize),
		maxSize: maxSize,
	}
}

// MarkAndCheck records the pair and reports whether it was already present.
func (c *Cache) MarkAndCheck(chatID int64, messageID int) bool {
	k := key{chatID: chatID, messageID: messageID}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[k]; ok {
		return true
	}
	if len(c.seen) >= c.maxSize {
		clear(c.seen)
	}
	c.seen[k] = struct{}{}
	return false
}

// Len returns the number of remembered pairs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
