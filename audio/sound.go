// Package audio plays the match cues: a two-tone whistle on goals and a short
// click on kicks. Playback is best effort; an uninitialized Sound is silent.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays cues through the system speaker
type Sound struct {
	mu          sync.Mutex
	initialized bool
}

// New creates a silent Sound; call Initialize to open the speaker.
func New() *Sound {
	return &Sound{}
}

// Initialize opens the speaker
func (s *Sound) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.initialized = true
	return nil
}

// Close releases the speaker
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}

// Whistle plays the goal cue
func (s *Sound) Whistle() {
	s.play(Whistle)
}

// Kick plays the ball contact cue
func (s *Sound) Kick() {
	s.play(Kick)
}

func (s *Sound) play(cue func(beep.SampleRate) (beep.Streamer, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	streamer, err := cue(sampleRate)
	if err != nil {
		return
	}
	speaker.Play(streamer)
}

// Whistle builds two short high tones separated by a gap
func Whistle(sr beep.SampleRate) (beep.Streamer, error) {
	first, err := Tone(sr, 2800, 180*time.Millisecond)
	if err != nil {
		return nil, err
	}
	second, err := Tone(sr, 2800, 420*time.Millisecond)
	if err != nil {
		return nil, err
	}
	return beep.Seq(first, beep.Silence(sr.N(80*time.Millisecond)), second), nil
}

// Kick builds a short low click
func Kick(sr beep.SampleRate) (beep.Streamer, error) {
	return Tone(sr, 180, 40*time.Millisecond)
}

// Tone returns a sine tone of the given frequency and duration
func Tone(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.0fHz: %w", freq, err)
	}
	return beep.Take(sr.N(d), sine), nil
}
