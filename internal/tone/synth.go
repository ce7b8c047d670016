package tone

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Settings controls how sequences are shaped and how loud the convenience
// players are.
type Settings struct {
	// Overlap is the fraction of a note's duration that the next note
	// overlaps, so sequences run together instead of beeping.
	Overlap float64
	Attack  time.Duration
	Floor   float64
	// Lead delays the first note relative to the device clock.
	Lead time.Duration

	SceneNoteDuration time.Duration
	SceneVolume       float64
	ChoiceVolume      float64
}

// DefaultSettings returns the settings used by the player.
func DefaultSettings() Settings {
	return Settings{
		Overlap:           0.3,
		Attack:            10 * time.Millisecond,
		Floor:             0.01,
		SceneNoteDuration: 200 * time.Millisecond,
		SceneVolume:       0.5,
		ChoiceVolume:      0.4,
	}
}

const maxOverlap = 0.9

// Sequence lays out freqs as events starting at start. Each event begins
// noteDuration*(1-Overlap) after the previous one.
func Sequence(freqs []float64, start, noteDuration time.Duration, volume float64, s Settings) []Event {
	overlap := s.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap > maxOverlap {
		overlap = maxOverlap
	}
	step := time.Duration(math.Round(float64(noteDuration) * (1 - overlap)))

	events := make([]Event, 0, len(freqs))
	for i, f := range freqs {
		events = append(events, Event{
			Frequency: f,
			Start:     start + time.Duration(i)*step,
			Duration:  noteDuration,
			Volume:    volume,
			Attack:    s.Attack,
			Floor:     s.Floor,
		})
	}
	return events
}

// Opener creates the audio output on first use.
type Opener func() (Output, error)

// Synthesizer plays scene and choice tones. Audio is cosmetic: every failure
// is logged and swallowed.
type Synthesizer struct {
	open     Opener
	settings Settings
	logger   *slog.Logger

	once sync.Once
	out  Output
}

// NewSynthesizer creates a Synthesizer. The output is opened lazily by open;
// a nil open or an open error leaves the synthesizer on the Null output.
func NewSynthesizer(open Opener, settings Settings, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synthesizer{
		open:     open,
		settings: settings,
		logger:   logger,
	}
}

// Output returns the output in use, opening it if needed.
func (s *Synthesizer) Output() Output {
	s.once.Do(func() {
		if s.open == nil {
			s.out = Null{}
			return
		}
		out, err := s.open()
		if err != nil || out == nil {
			s.logger.Warn("audio output unavailable, tones disabled", "error", err)
			s.out = Null{}
			return
		}
		s.out = out
	})
	return s.out
}

// PlayToneSequence schedules freqs on the output and returns without waiting
// for playback. Concurrent sequences overlap.
func (s *Synthesizer) PlayToneSequence(ctx context.Context, freqs []float64, noteDuration time.Duration, volume float64) {
	if len(freqs) == 0 || noteDuration <= 0 {
		return
	}

	out := s.Output()
	if out.State() == StateSuspended {
		if err := out.Resume(ctx); err != nil {
			s.logger.Warn("audio output did not resume", "error", err)
			return
		}
	}

	for _, ev := range Sequence(freqs, out.CurrentTime()+s.settings.Lead, noteDuration, volume, s.settings) {
		if err := out.Schedule(ev); err != nil {
			s.logger.Debug("tone dropped", "frequency", ev.Frequency, "error", err)
			return
		}
	}
}

// PlaySceneTone plays the melody of a scene.
func (s *Synthesizer) PlaySceneTone(ctx context.Context, sceneID string) {
	s.PlayToneSequence(ctx, SceneMelody(sceneID), s.settings.SceneNoteDuration, s.settings.SceneVolume)
}

// PlayChoiceTone plays the melody of a choice label at its rule's tempo.
func (s *Synthesizer) PlayChoiceTone(ctx context.Context, text string) {
	r := MatchChoice(text)
	s.PlayToneSequence(ctx, r.Melody, r.NoteDuration, s.settings.ChoiceVolume)
}
