package tone

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultSampleRate is used when a Recorder is created with a non-positive rate.
const DefaultSampleRate = 44100

// Recorder is an offline Output: it collects scheduled events and, on Close,
// mixes them into a 16-bit mono WAV file. Like a browser audio context it
// starts suspended and must be resumed before it accepts events.
type Recorder struct {
	mu         sync.Mutex
	path       string
	sampleRate int
	state      DeviceState
	now        func() time.Duration
	events     []Event
}

// NewRecorder creates a suspended Recorder that writes to path on Close.
// Its clock starts at zero when the Recorder is created.
func NewRecorder(path string, sampleRate int) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	created := time.Now()
	return &Recorder{
		path:       path,
		sampleRate: sampleRate,
		state:      StateSuspended,
		now:        func() time.Duration { return time.Since(created) },
	}
}

// SetClock replaces the device clock.
func (r *Recorder) SetClock(now func() time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Recorder) State() DeviceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	r.state = StateRunning
	return nil
}

func (r *Recorder) CurrentTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now()
}

func (r *Recorder) Schedule(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateClosed:
		return ErrClosed
	case StateSuspended:
		return fmt.Errorf("schedule on suspended output")
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns the scheduled events in scheduling order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Samples mixes the scheduled events into 16-bit PCM. The timeline starts at
// the first event; silences between sequences are shortened to MaxSilence.
func (r *Recorder) Samples() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return mix(r.events, r.sampleRate)
}

// Close renders the WAV file and shuts the device down. Later calls are no-ops.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.state == StateClosed {
		r.mu.Unlock()
		return nil
	}
	r.state = StateClosed
	samples := mix(r.events, r.sampleRate)
	r.mu.Unlock()

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, r.sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: r.sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}

// sampleCount returns the number of samples covering d.
func sampleCount(d time.Duration, sampleRate int) int {
	return int(math.Ceil(d.Seconds() * float64(sampleRate)))
}

// MaxSilence is the longest pause kept between recorded sequences.
const MaxSilence = 250 * time.Millisecond

// compact returns events sorted by start and shifted so the first begins at
// zero and no gap between overlapping runs exceeds MaxSilence.
func compact(events []Event) []Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b Event) int {
		return cmp.Compare(a.Start, b.Start)
	})

	// runEnd is in device time; shift is applied after it is measured.
	var shift, runEnd time.Duration
	for i := range out {
		if i == 0 {
			shift = out[i].Start
			runEnd = out[i].End()
		} else if gap := out[i].Start - runEnd; gap > MaxSilence {
			shift += gap - MaxSilence
		}
		runEnd = max(runEnd, out[i].End())
		out[i].Start -= shift
	}
	return out
}

func mix(events []Event, sampleRate int) []int {
	events = compact(events)

	var end time.Duration
	for _, ev := range events {
		if ev.End() > end {
			end = ev.End()
		}
	}

	acc := make([]float64, sampleCount(end, sampleRate))
	for _, ev := range events {
		first := max(sampleCount(ev.Start, sampleRate), 0)
		last := min(sampleCount(ev.End(), sampleRate), len(acc))
		for i := first; i < last; i++ {
			t := time.Duration(float64(i) / float64(sampleRate) * float64(time.Second))
			phase := 2 * math.Pi * ev.Frequency * (t - ev.Start).Seconds()
			acc[i] += math.Sin(phase) * ev.Gain(t)
		}
	}

	const peak = math.MaxInt16
	samples := make([]int, len(acc))
	for i, v := range acc {
		v = math.Max(-1, math.Min(1, v))
		samples[i] = int(v * peak)
	}
	return samples
}
