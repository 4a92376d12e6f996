// Package cache keeps compiled statements keyed by their source text so a
// repeated statement skips the lexer and parser.
package cache

import (
	"github.com/golang/groupcache/lru"

	"github.com/chirst/memdb/compiler"
)

// stmtCache is a least recently used cache of compiled statements. Statements
// are shared between callers and must not be modified.
type stmtCache struct {
	lru    *lru.Cache
	hits   int
	misses int
}

// NewLRU creates a LRU (least recently used) cache. This cache takes a maxSize
// which determines how many statements can be cached. When the maximum size of
// the cache is exceeded, the least recently used statement will be evicted.
// maxSize must be greater than zero.
func NewLRU(maxSize int) *stmtCache {
	return &stmtCache{
		lru: lru.New(maxSize),
	}
}

// Get returns a bool indicating if the key was found and the statement for the
// key.
func (c *stmtCache) Get(key string) (stmt compiler.Stmt, hit bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return v.(compiler.Stmt), true
}

// Add adds the key to the cache and prioritizes it. If a collision occurs, the
// key will be prioritized and the statement will be updated.
func (c *stmtCache) Add(key string, stmt compiler.Stmt) {
	c.lru.Add(key, stmt)
}

// Remove removes the key from the cache. If the key is not found it will be
// ignored.
func (c *stmtCache) Remove(key string) {
	c.lru.Remove(key)
}

// Len is the number of cached statements.
func (c *stmtCache) Len() int {
	return c.lru.Len()
}

// Stats returns how many lookups hit and missed.
func (c *stmtCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
