// Package storage provides a small key-value area shared between focus
// processes. Every mutation is announced to the other origins attached to the
// same area, never to the origin that made it.
package storage

import (
	"errors"
	"strings"
	"sync"
)

var (
	errInvalidKey = errors.New("storage key must be a non-empty name without path separators")
	errClosed     = errors.New("storage area is closed")
)

// Event describes a mutation made by another origin.
type Event struct {
	Key     string
	Value   string
	Removed bool
}

// Area is a single-slot-per-key store with change notification.
type Area interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Subscribe registers fn for mutations made by other origins. Events are
	// delivered asynchronously and in order. The returned func cancels the
	// subscription.
	Subscribe(fn func(Event)) (cancel func())
	// Origin identifies this view of the area.
	Origin() string
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return errInvalidKey
	}

	return nil
}

// subscriber delivers events to fn on its own goroutine so that writers never
// block on readers.
type subscriber struct {
	fn    func(Event)
	wake  chan struct{}
	done  chan struct{}
	queue []Event
	mu    sync.Mutex
	once  sync.Once
}

func newSubscriber(fn func(Event)) *subscriber {
	s := &subscriber{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	go s.loop()

	return s
}

func (s *subscriber) push(e Event) {
	s.mu.Lock()
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *subscriber) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}

			e := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			default:
			}

			s.fn(e)
		}
	}
}

// subscribers is the registry shared by both area implementations.
type subscribers struct {
	m      map[uint64]*subscriber
	mu     sync.Mutex
	nextID uint64
}

func (r *subscribers) add(fn func(Event)) func() {
	s := newSubscriber(fn)

	r.mu.Lock()
	if r.m == nil {
		r.m = make(map[uint64]*subscriber)
	}

	r.nextID++
	id := r.nextID
	r.m[id] = s
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.m, id)
		r.mu.Unlock()

		s.stop()
	}
}

func (r *subscribers) publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.m {
		s.push(e)
	}
}

func (r *subscribers) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.m {
		s.stop()
		delete(r.m, id)
	}
}
