// Package otp issues and verifies single-use registration codes.
package otp

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCapacity bounds the number of outstanding codes.
	DefaultCapacity = 10000
	// DefaultTTL is how long a code stays valid after it is written.
	DefaultTTL = 2 * time.Minute
)

// Cache maps an email to its outstanding code. Entries expire a fixed time
// after their last write and the least recently used entry is evicted when
// the cache is full. It is safe for concurrent use.
type Cache struct {
	lru *expirable.LRU[string, string]
}

// NewCache returns a Cache; non-positive arguments fall back to the defaults.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Put stores code for email, replacing any earlier code and its expiry.
func (c *Cache) Put(email, code string) {
	c.lru.Add(key(email), code)
}

// Get returns the live code for email.
func (c *Cache) Get(email string) (string, bool) {
	return c.lru.Get(key(email))
}

// Invalidate removes any code for email.
func (c *Cache) Invalidate(email string) {
	c.lru.Remove(key(email))
}

// Len reports the number of stored entries, including ones that have
// expired but not yet been purged.
func (c *Cache) Len() int {
	return c.lru.Len()
}
