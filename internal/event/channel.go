// Package event provides a synchronous publish-subscribe channel with a
// one-shot blocking wait.
//
// A [Channel] dispatches to handlers in connection order. [Channel.Fire]
// snapshots the subscriber and waiter lists at entry, so connections and
// waits registered while a dispatch is running are only seen by later fires.
// Disconnection takes effect immediately: a handler disconnected mid-dispatch
// is skipped if its turn has not yet come, even by the fire that is currently
// running. Handlers may freely Connect, Disconnect (including themselves),
// and Fire from inside a dispatch; the channel's lock is never held while
// handler code runs.
//
// [Channel.Wait] suspends the calling goroutine until the next Fire and
// returns its argument. Each Wait is single-shot.
package event

import "sync"

// Channel is an ordered set of subscribers plus pending waiters for a single
// event kind.
type Channel[T any] struct {
	mu      sync.Mutex
	subs    []*Subscription[T]
	waiters []chan T
}

// Subscription is the handle returned by Connect.
type Subscription[T any] struct {
	ch        *Channel[T]
	handler   func(T)
	connected bool
}

// New creates an empty channel.
func New[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Connect appends handler to the dispatch order and returns its handle.
func (c *Channel[T]) Connect(handler func(T)) *Subscription[T] {
	s := &Subscription[T]{ch: c, handler: handler, connected: true}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	return s
}

// Connected reports whether the subscription still receives dispatches.
func (s *Subscription[T]) Connected() bool {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	return s.connected
}

// Disconnect removes the subscription from future dispatch. It is idempotent
// and safe to call from inside a handler, including the handler being
// disconnected.
func (s *Subscription[T]) Disconnect() {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	if !s.connected {
		return
	}
	s.connected = false
	for i, sub := range s.ch.subs {
		if sub == s {
			s.ch.subs = append(s.ch.subs[:i], s.ch.subs[i+1:]...)
			break
		}
	}
}

// Fire dispatches v to every subscriber connected when Fire began, in
// connection order, skipping any that disconnect before their turn. It then
// resolves every waiter registered when Fire began and removes them. Fire
// returns only after all snapshotted handlers have run and all snapshotted
// waiters have been handed v.
func (c *Channel[T]) Fire(v T) {
	c.mu.Lock()
	subs := make([]*Subscription[T], len(c.subs))
	copy(subs, c.subs)
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, s := range subs {
		c.mu.Lock()
		live := s.connected
		c.mu.Unlock()
		if live {
			s.handler(v)
		}
	}

	// Waiter channels are buffered, so delivery completes here even if the
	// waiting goroutine has not been scheduled yet.
	for _, w := range waiters {
		w <- v
	}
}

// Wait blocks until the next Fire and returns its argument. The registration
// is consumed by that fire; call Wait again to observe another.
func (c *Channel[T]) Wait() T {
	w := make(chan T, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
	return <-w
}

// Len returns the number of connected subscribers.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
