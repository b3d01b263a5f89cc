package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/storage"
)

func TestParseActionKind(t *testing.T) {
	for _, s := range []string{"pause", "resume", "complete"} {
		k, err := ParseActionKind(s)
		require.NoError(t, err)
		assert.Equal(t, ActionKind(s), k)
	}

	_, err := ParseActionKind("stop")
	require.ErrorIs(t, err, errUnknownAction)
}

func TestRelayConsumeOnce(t *testing.T) {
	hub := storage.NewMemoryHub()
	sender := NewRelay(hub.Area())
	receiver := NewRelay(hub.Area())

	require.NoError(t, sender.Send(ActionPause))
	require.NoError(t, sender.Send(ActionResume))

	a, ok := receiver.Consume()
	require.True(t, ok)
	assert.Equal(t, ActionResume, a.Action)
	assert.NotZero(t, a.Timestamp)

	_, ok = receiver.Consume()
	assert.False(t, ok)
}

func TestRelayMalformedAction(t *testing.T) {
	hub := storage.NewMemoryHub()
	area := hub.Area()

	require.NoError(t, area.Set(ActionKey, "pause"))

	_, ok := NewRelay(area).Consume()
	assert.False(t, ok)

	_, present, err := area.Get(ActionKey)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestRelayLocalDelivery(t *testing.T) {
	hub := storage.NewMemoryHub()
	area := hub.Area()
	r := NewRelay(area)

	var got []ActionKind

	r.RegisterLocal(func(a Action) {
		got = append(got, a.Action)
	})

	require.NoError(t, r.Send(ActionComplete))

	assert.Equal(t, []ActionKind{ActionComplete}, got)

	_, present, err := area.Get(ActionKey)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestRelayListenPicksUpPending(t *testing.T) {
	hub := storage.NewMemoryHub()

	require.NoError(t, NewRelay(hub.Area()).Send(ActionPause))

	got := make(chan Action, 4)
	cancel := NewRelay(hub.Area()).Listen(func(a Action) {
		got <- a
	})
	defer cancel()

	select {
	case a := <-got:
		assert.Equal(t, ActionPause, a.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("pending action was not delivered")
	}
}
