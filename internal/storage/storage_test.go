package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func collect(a Area) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	cancel := a.Subscribe(func(e Event) {
		ch <- e
	})

	return ch, cancel
}

func expectEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case e := <-ch:
		return e
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for storage event")
	}

	return Event{}
}

func expectNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()

	select {
	case e := <-ch:
		t.Fatalf("unexpected storage event: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

// areaPair returns two origins attached to the same storage.
type areaPair func(t *testing.T) (Area, Area)

func memoryPair(t *testing.T) (Area, Area) {
	t.Helper()

	hub := NewMemoryHub()

	a, b := hub.Area(), hub.Area()

	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	return a, b
}

func filePair(t *testing.T) (Area, Area) {
	t.Helper()

	dir := t.TempDir()

	a, err := NewFileArea(dir)
	require.NoError(t, err)

	b, err := NewFileArea(dir)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	return a, b
}

var backends = map[string]areaPair{
	"memory": memoryPair,
	"file":   filePair,
}

func TestAreaRoundTrip(t *testing.T) {
	for name, pair := range backends {
		t.Run(name, func(t *testing.T) {
			a, b := pair(t)

			_, ok, err := a.Get("state")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, a.Set("state", `{"enabled":true}`))

			v, ok, err := b.Get("state")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"enabled":true}`, v)

			require.NoError(t, b.Remove("state"))
			require.NoError(t, b.Remove("state"), "removing an absent key")

			_, ok, err = a.Get("state")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestAreaNotifiesOtherOriginsOnly(t *testing.T) {
	for name, pair := range backends {
		t.Run(name, func(t *testing.T) {
			a, b := pair(t)

			aEvents, cancelA := collect(a)
			defer cancelA()

			bEvents, cancelB := collect(b)
			defer cancelB()

			require.NoError(t, a.Set("action", "pause"))

			e := expectEvent(t, bEvents)
			assert.Equal(t, Event{Key: "action", Value: "pause"}, e)

			require.NoError(t, b.Remove("action"))

			e = expectEvent(t, aEvents)
			assert.Equal(t, Event{Key: "action", Removed: true}, e)

			expectNoEvent(t, aEvents)
			expectNoEvent(t, bEvents)
		})
	}
}

func TestAreaRejectsInvalidKeys(t *testing.T) {
	a, _ := memoryPair(t)

	for _, key := range []string{"", ".hidden", "a/b", `a\b`} {
		assert.ErrorIs(t, a.Set(key, "x"), errInvalidKey, key)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	a, b := memoryPair(t)

	ch, cancel := collect(b)
	cancel()

	require.NoError(t, a.Set("state", "x"))

	expectNoEvent(t, ch)
}
