// Package searchctl implements the client-side search/filter controller:
// free-text input is debounced, category changes apply immediately, and each
// trigger wholly replaces the previous result set.
package searchctl

import (
	"context"
	"sync"
	"time"
)

const DefaultDebounce = 400 * time.Millisecond

// Query is the tuple that triggers a fetch: the settled (debounced) text and
// the active category.
type Query struct {
	Text     string
	Category string
}

// FetchFunc performs the actual query.
type FetchFunc[T any] func(ctx context.Context, q Query) (T, error)

// ApplyFunc receives the outcome of a fetch. Superseded fetches are dropped
// before apply, so results can never arrive out of order.
type ApplyFunc[T any] func(q Query, result T, err error)

type Controller[T any] struct {
	ctx      context.Context
	debounce time.Duration
	fetch    FetchFunc[T]
	apply    ApplyFunc[T]

	mu       sync.Mutex
	timer    *time.Timer
	field    string // raw keystroke-driven text
	settled  string // debounced value, the only text that queries
	category string
	gen      uint64 // bumped per dispatch; stale fetches are discarded
	applied  uint64
}

func New[T any](ctx context.Context, debounce time.Duration, fetch FetchFunc[T], apply ApplyFunc[T]) *Controller[T] {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller[T]{
		ctx:      ctx,
		debounce: debounce,
		fetch:    fetch,
		apply:    apply,
	}
}

func (c *Controller[T]) Field() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.field
}

func (c *Controller[T]) SettledField() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

func (c *Controller[T]) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// SetField records a keystroke: the raw field updates immediately and the
// debounce timer resets. Only after the input has been quiet for the full
// interval does the text settle and trigger a query.
func (c *Controller[T]) SetField(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.field = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.settle(text) })
}

func (c *Controller[T]) settle(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A keystroke may have landed between the timer firing and this lock.
	if text != c.field {
		return
	}
	c.settled = text
	c.dispatchLocked()
}

// SetCategory switches the active category and queries immediately, no
// debounce.
func (c *Controller[T]) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.category = category
	c.dispatchLocked()
}

// Clear resets the raw and settled text atomically and queries immediately,
// bypassing the debounce delay.
func (c *Controller[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.field = ""
	c.settled = ""
	c.dispatchLocked()
}

// Refresh re-issues the current query, e.g. for the initial load.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked()
}

// Stop cancels any pending debounce timer.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Controller[T]) dispatchLocked() {
	c.gen++
	gen := c.gen
	q := Query{Text: c.settled, Category: c.category}

	go func() {
		result, err := c.fetch(c.ctx, q)

		c.mu.Lock()
		// Drop this outcome if a newer query was dispatched, or one already
		// applied. applied is monotonic, so a slow old fetch can never
		// overwrite a newer result set.
		if gen != c.gen || gen <= c.applied {
			c.mu.Unlock()
			return
		}
		c.applied = gen
		c.mu.Unlock()

		c.apply(q, result, err)
	}()
}
