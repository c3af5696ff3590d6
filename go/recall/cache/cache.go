// Package cache implements the thread-safe state cache and its one-shot
// initialization barrier backing the Context-Ready Signal. The
// sync.Once-gated initialize-then-serve pattern mirrors the
// Commons.TypeScriptClient / Commons.SchemaIndex idiom: a single init
// function runs exactly once, regardless of how many callers race to
// trigger it.
package cache

import (
	"fmt"
	"sync"

	"github.com/quantedge/recall-recon/go/recall/model"
)

// Cache guards the ticket and order maps rebuilt by recovery. Readers
// must not observe partial state: either the cache is fully populated
// with the replay result, or EnsureInitialized has not yet completed and
// reads return ErrNotInitialized.
type Cache struct {
	initOnce sync.Once
	initDone bool

	mu      sync.RWMutex
	tickets map[string]*model.RecallTicket
	orders  map[string]*model.Order
}

// New returns an uninitialized Cache. Call EnsureInitialized (directly or
// via a ReadySignal) before serving reads.
func New() *Cache {
	return &Cache{
		tickets: make(map[string]*model.RecallTicket),
		orders:  make(map[string]*model.Order),
	}
}

// IsInitialized reports whether initialization has run to completion.
func (c *Cache) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initDone
}

// EnsureInitialized runs fn exactly once across all callers, however many
// race to call it concurrently, then marks the cache initialized. Callers
// after the first observe fn's already-completed effects as a no-op.
func (c *Cache) EnsureInitialized(fn func()) {
	c.initOnce.Do(func() {
		fn()
		c.mu.Lock()
		c.initDone = true
		c.mu.Unlock()
	})
}

// UpdateRecallTicket stores ticket under id. Safe to call freely after
// initialization; during initialization it is called only by the
// Recovery Driver.
func (c *Cache) UpdateRecallTicket(id string, ticket *model.RecallTicket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets[id] = ticket
}

// UpdateOrder stores order under orderID.
func (c *Cache) UpdateOrder(orderID string, order *model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[orderID] = order
}

// RecallTicket returns the cached ticket, or an error if the cache has
// not finished initializing or the ticket is unknown.
func (c *Cache) RecallTicket(id string) (*model.RecallTicket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initDone {
		return nil, ErrNotInitialized
	}
	t, ok := c.tickets[id]
	if !ok {
		return nil, fmt.Errorf("cache: no recall ticket for id %q", id)
	}
	return t, nil
}

// Order returns the cached order, or an error if the cache has not
// finished initializing or the order is unknown.
func (c *Cache) Order(orderID string) (*model.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initDone {
		return nil, ErrNotInitialized
	}
	o, ok := c.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("cache: no order for id %q", orderID)
	}
	return o, nil
}

// Sizes reports the number of cached tickets and orders, for the
// recovery summary log line.
func (c *Cache) Sizes() (tickets int, orders int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tickets), len(c.orders)
}

// ErrNotInitialized is returned by reads issued before EnsureInitialized
// has completed.
var ErrNotInitialized = fmt.Errorf("cache: not initialized")
