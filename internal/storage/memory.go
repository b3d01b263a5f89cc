package storage

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryHub is an in-process storage area. Each call to Area returns a new
// origin, so several components of one process can talk to each other the
// same way separate processes do through a FileArea.
type MemoryHub struct {
	data  map[string]string
	areas map[string]*memoryArea
	mu    sync.Mutex
}

// NewMemoryHub returns an empty hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		data:  make(map[string]string),
		areas: make(map[string]*memoryArea),
	}
}

// Area attaches a new origin to the hub.
func (h *MemoryHub) Area() Area {
	a := &memoryArea{
		hub:    h,
		origin: uuid.NewString(),
	}

	h.mu.Lock()
	h.areas[a.origin] = a
	h.mu.Unlock()

	return a
}

func (h *MemoryHub) broadcast(from string, e Event) {
	h.mu.Lock()
	targets := make([]*memoryArea, 0, len(h.areas))

	for origin, a := range h.areas {
		if origin != from {
			targets = append(targets, a)
		}
	}
	h.mu.Unlock()

	for _, a := range targets {
		a.subs.publish(e)
	}
}

type memoryArea struct {
	hub    *MemoryHub
	origin string
	subs   subscribers
	closed bool
	mu     sync.Mutex
}

func (a *memoryArea) Origin() string {
	return a.origin
}

func (a *memoryArea) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.closed
}

func (a *memoryArea) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	if a.isClosed() {
		return "", false, errClosed
	}

	a.hub.mu.Lock()
	defer a.hub.mu.Unlock()

	v, ok := a.hub.data[key]

	return v, ok, nil
}

func (a *memoryArea) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if a.isClosed() {
		return errClosed
	}

	a.hub.mu.Lock()
	a.hub.data[key] = value
	a.hub.mu.Unlock()

	a.hub.broadcast(a.origin, Event{Key: key, Value: value})

	return nil
}

func (a *memoryArea) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if a.isClosed() {
		return errClosed
	}

	a.hub.mu.Lock()
	_, existed := a.hub.data[key]
	delete(a.hub.data, key)
	a.hub.mu.Unlock()

	if existed {
		a.hub.broadcast(a.origin, Event{Key: key, Removed: true})
	}

	return nil
}

func (a *memoryArea) Subscribe(fn func(Event)) func() {
	return a.subs.add(fn)
}

func (a *memoryArea) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.hub.mu.Lock()
	delete(a.hub.areas, a.origin)
	a.hub.mu.Unlock()

	a.subs.closeAll()

	return nil
}
