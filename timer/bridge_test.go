package timer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/andromeda/focus/internal/storage"
)

func TestBridgeRead(t *testing.T) {
	testCases := []struct {
		Name     string
		Stored   string
		Expected State
	}{
		{
			Name:     "missing entry",
			Expected: IdleState(),
		},
		{
			Name:     "malformed entry",
			Stored:   "{not json",
			Expected: IdleState(),
		},
		{
			Name:   "negative remaining is clamped",
			Stored: `{"state":"work","enabled":true,"timerRemaining":-4}`,
			Expected: State{
				Phase:   Work,
				Enabled: true,
			},
		},
		{
			Name:   "full entry",
			Stored: `{"state":"break","enabled":true,"isPaused":false,"expectedEnd":1714554000000,"timerRemaining":300,"currentCycle":2,"settings":{"workMinutes":25,"shortBreak":5,"longBreak":15,"cyclesBeforeLongBreak":4}}`,
			Expected: State{
				Phase:          Break,
				Enabled:        true,
				ExpectedEnd:    1714554000000,
				TimerRemaining: 300,
				CurrentCycle:   2,
				Settings: Settings{
					WorkMinutes:           25,
					ShortBreakMinutes:     5,
					LongBreakMinutes:      15,
					CyclesBeforeLongBreak: 4,
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			hub := storage.NewMemoryHub()
			area := hub.Area()

			if tc.Stored != "" {
				if err := area.Set(StateKey, tc.Stored); err != nil {
					t.Fatal(err)
				}
			}

			got := NewBridge(area).Read()

			if diff := cmp.Diff(tc.Expected, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBridgeWatchRemoval(t *testing.T) {
	hub := storage.NewMemoryHub()
	writer := NewBridge(hub.Area())
	reader := NewBridge(hub.Area())

	if err := writer.Write(State{Phase: Work, Enabled: true}); err != nil {
		t.Fatal(err)
	}

	states := make(chan State, 4)

	cancel := reader.Watch(func(s State) {
		states <- s
	})
	defer cancel()

	if err := writer.Clear(); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-states:
		if s.Phase != Idle {
			t.Errorf("expected idle state after removal, got %s", s.Phase)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("removal was not delivered")
	}
}

func TestWidgetVisibility(t *testing.T) {
	hub := storage.NewMemoryHub()
	b := NewBridge(hub.Area())
	other := NewBridge(hub.Area())

	if !b.WidgetVisible() {
		t.Fatal("widget should be visible by default")
	}

	changes := make(chan bool, 4)

	cancel := other.WatchVisibility(func(v bool) {
		changes <- v
	})
	defer cancel()

	if err := b.SetWidgetVisible(false); err != nil {
		t.Fatal(err)
	}

	if other.WidgetVisible() {
		t.Error("expected widget to be hidden")
	}

	select {
	case v := <-changes:
		if v {
			t.Error("expected a hidden notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("visibility change was not delivered")
	}
}
