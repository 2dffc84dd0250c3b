// Package runctx provides the run context shared between the planning and
// extraction stages of one import job.
//
// The planner writes every key exactly once; downstream stages read after
// planning completes. Overwriting a key is a programming error and is
// rejected.
package runctx

import (
	"fmt"
	"sort"
	"sync"
)

// Well-known context keys published by the planner.
const (
	KeyDriver   = "connection.driver"
	KeyDSN      = "connection.dsn"
	KeyUsername = "connection.username"
	KeyPassword = "connection.password"

	KeyPartitionColumn = "partition.column"
	KeyPartitionKind   = "partition.kind"
	KeyPartitionMin    = "partition.min"
	KeyPartitionMax    = "partition.max"

	KeyDataSQL    = "extract.sql"
	KeyFieldNames = "extract.fields"
)

// Context is a process-scoped, write-once-per-key string store.
// The zero value is not usable; create instances with New.
type Context struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty run context.
func New() *Context {
	return &Context{values: make(map[string]string)}
}

// Set stores value under key. Setting a key twice is rejected.
func (c *Context) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.values[key]; exists {
		return fmt.Errorf("run context key %q already set", key)
	}
	c.values[key] = value
	return nil
}

// Get returns the value for key and whether it was set.
func (c *Context) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// String returns the value for key, or "" when unset.
func (c *Context) String(key string) string {
	v, _ := c.Get(key)
	return v
}

// Keys returns all set keys (sorted).
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
