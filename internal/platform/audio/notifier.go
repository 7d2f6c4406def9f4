// Package audio synthesizes short gameplay cues with beep. Cues are
// fire-and-forget: the engine emits events and never waits on playback.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/kkurian/typeattack/internal/core"
)

const sampleRate = beep.SampleRate(48000)

// Notifier consumes gameplay events and plays cues for them.
type Notifier interface {
	HandleEvents(events []core.Event)
	Close()
}

// Nop is the silent notifier used for tests and --mute.
type Nop struct{}

// HandleEvents discards the events.
func (Nop) HandleEvents([]core.Event) {}

// Close does nothing.
func (Nop) Close() {}

// Beeper plays synthesized cues through the system speaker.
type Beeper struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewBeeper initializes the speaker and returns a live notifier.
func NewBeeper() (*Beeper, error) {
	b := &Beeper{mixer: &beep.Mixer{}}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return b, nil
}

// Close silences and detaches all cues.
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}

// HandleEvents maps one tick's events to cues.
func (b *Beeper) HandleEvents(events []core.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case core.EventKeystroke:
			if !e.Correct {
				b.play(buzz(110, 60*time.Millisecond))
			}
		case core.EventImpact:
			if e.Last {
				b.play(tone(880, 50*time.Millisecond))
			} else {
				b.play(tone(660, 25*time.Millisecond))
			}
		case core.EventWordMissed:
			b.play(buzz(80, 120*time.Millisecond))
		case core.EventMultiplierChanged:
			b.play(tone(988, 80*time.Millisecond))
		case core.EventHotStreakEnded:
			b.play(sweep(880, 440, 150*time.Millisecond))
		case core.EventStageAdvanced:
			b.play(arpeggio(523.25, 659.25, 783.99))
		case core.EventGameOver:
			b.play(sweep(440, 110, 400*time.Millisecond))
		case core.EventLevelComplete:
			b.play(arpeggio(523.25, 659.25, 783.99, 1046.5))
		}
	}
}

func (b *Beeper) play(s beep.Streamer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// cue is a finite synthesized streamer with a linear decay envelope.
type cue struct {
	total  int
	pos    int
	sample func(n int) float64
}

func (c *cue) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.total {
		return 0, false
	}
	n := 0
	for ; n < len(samples) && c.pos < c.total; n++ {
		env := 1.0 - float64(c.pos)/float64(c.total)
		v := c.sample(c.pos) * env * 0.25
		samples[n][0] = v
		samples[n][1] = v
		c.pos++
	}
	return n, true
}

func (c *cue) Err() error { return nil }

func durSamples(d time.Duration) int {
	return sampleRate.N(d)
}

// tone is a plain sine cue.
func tone(freq float64, d time.Duration) beep.Streamer {
	step := freq / float64(sampleRate)
	return &cue{
		total: durSamples(d),
		sample: func(n int) float64 {
			return math.Sin(2 * math.Pi * step * float64(n))
		},
	}
}

// buzz is a square-wave cue used for errors.
func buzz(freq float64, d time.Duration) beep.Streamer {
	step := freq / float64(sampleRate)
	return &cue{
		total: durSamples(d),
		sample: func(n int) float64 {
			if math.Mod(step*float64(n), 1.0) < 0.5 {
				return 1.0
			}
			return -1.0
		},
	}
}

// sweep glides a sine from one frequency to another.
func sweep(from, to float64, d time.Duration) beep.Streamer {
	total := durSamples(d)
	return &cue{
		total: total,
		sample: func(n int) float64 {
			t := float64(n) / float64(total)
			freq := from + (to-from)*t
			return math.Sin(2 * math.Pi * freq * float64(n) / float64(sampleRate))
		},
	}
}

// arpeggio plays the given notes in sequence, 90ms each.
func arpeggio(freqs ...float64) beep.Streamer {
	per := durSamples(90 * time.Millisecond)
	return &cue{
		total: per * len(freqs),
		sample: func(n int) float64 {
			freq := freqs[(n/per)%len(freqs)]
			return math.Sin(2 * math.Pi * freq * float64(n%per) / float64(sampleRate))
		},
	}
}
