// Package observable provides value and list containers that notify
// subscribers on change. Renderers subscribe to view-model fields and
// redraw when they fire.
//
// Subscribers are invoked after the container's lock is released, in the
// order they subscribed, on the goroutine that made the change.
package observable

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/recipebook/internal/domain"
)

// subscribers is the registry shared by Value and List.
type subscribers[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.fns = append(s.fns, subscriber[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.fns {
			if sub.id == id {
				s.fns = append(s.fns[:i], s.fns[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	fns := make([]func(T), len(s.fns))
	for i, sub := range s.fns {
		fns[i] = sub.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Value holds a single observable value.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	subs subscribers[T]
}

// NewValue creates a Value holding v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.v
}

// Set stores v and notifies subscribers.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	o.v = v
	o.mu.Unlock()
	o.subs.notify(v)
}

// Subscribe registers fn to be called with every new value. The returned
// function removes the subscription.
func (o *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	return o.subs.add(fn)
}

// List is an observable ordered sequence. Subscribers receive a copy of
// the items after every mutation.
type List[T any] struct {
	mu    sync.RWMutex
	items []T
	subs  subscribers[[]T]
}

// NewList creates a List holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the item at index i.
func (l *List[T]) At(i int) (T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, fmt.Errorf("at %d of %d: %w", i, len(l.items), domain.ErrIndexOutOfRange)
	}
	return l.items[i], nil
}

// Push appends items.
func (l *List[T]) Push(items ...T) {
	l.mutate(func(cur []T) []T { return append(cur, items...) })
}

// RemoveAt deletes the item at index i. Out-of-range indices leave the
// list unchanged, return ErrIndexOutOfRange and notify nobody.
func (l *List[T]) RemoveAt(i int) error {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		n := len(l.items)
		l.mu.Unlock()
		return fmt.Errorf("remove %d of %d: %w", i, n, domain.ErrIndexOutOfRange)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	snapshot := append([]T(nil), l.items...)
	l.mu.Unlock()

	l.subs.notify(snapshot)
	return nil
}

// Update replaces the item at index i.
func (l *List[T]) Update(i int, v T) error {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		n := len(l.items)
		l.mu.Unlock()
		return fmt.Errorf("update %d of %d: %w", i, n, domain.ErrIndexOutOfRange)
	}
	l.items[i] = v
	snapshot := append([]T(nil), l.items...)
	l.mu.Unlock()

	l.subs.notify(snapshot)
	return nil
}

// Replace swaps the whole contents for a copy of items.
func (l *List[T]) Replace(items []T) {
	l.mutate(func([]T) []T { return append([]T(nil), items...) })
}

// Subscribe registers fn to be called with the items after each mutation.
func (l *List[T]) Subscribe(fn func([]T)) (cancel func()) {
	return l.subs.add(fn)
}

func (l *List[T]) mutate(apply func([]T) []T) {
	l.mu.Lock()
	l.items = apply(l.items)
	snapshot := append([]T(nil), l.items...)
	l.mu.Unlock()

	l.subs.notify(snapshot)
}
