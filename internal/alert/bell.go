package alert

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const sampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// bellTones are the two notes of the bell, played high then low.
var bellTones = []struct {
	freq float64
	dur  time.Duration
}{
	{880, 180 * time.Millisecond},
	{660, 320 * time.Millisecond},
}

// Bell builds the bell as a single streamer.
func Bell() (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, 2*len(bellTones))

	for _, t := range bellTones {
		tone, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}

		parts = append(parts,
			beep.Take(sampleRate.N(t.dur), tone),
			beep.Silence(sampleRate.N(60*time.Millisecond)),
		)
	}

	return beep.Seq(parts...), nil
}

// Ring plays the bell and returns once it has finished.
func Ring() error {
	speakerOnce.Do(func() {
		bufferSize := 10
		speakerErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	if speakerErr != nil {
		return speakerErr
	}

	bell, err := Bell()
	if err != nil {
		return err
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(bell, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
