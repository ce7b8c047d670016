package tone

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
)

func TestRecorderStartsSuspended(t *testing.T) {
	r := NewRecorder(filepath.Join(t.TempDir(), "out.wav"), 8000)
	if r.State() != StateSuspended {
		t.Fatalf("State() = %v, want suspended", r.State())
	}
	if err := r.Schedule(Event{Frequency: A4, Duration: time.Millisecond}); err == nil {
		t.Error("Schedule on a suspended recorder should fail")
	}
	if err := r.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if r.State() != StateRunning {
		t.Errorf("State() = %v, want running", r.State())
	}
}

func TestRecorderResumeHonorsContext(t *testing.T) {
	r := NewRecorder(filepath.Join(t.TempDir(), "out.wav"), 8000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Resume(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Resume error = %v, want context.Canceled", err)
	}
}

func TestRecorderWritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tones.wav")
	r := NewRecorder(path, 8000)
	r.SetClock(func() time.Duration { return 0 })

	s := NewSynthesizer(func() (Output, error) { return r, nil }, DefaultSettings(), nil)
	s.PlaySceneTone(context.Background(), "welcome")

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events))
	}
	// Two 200ms notes, the second starting at 140ms: 340ms of audio.
	wantSamples := sampleCount(340*time.Millisecond, 8000)
	samples := r.Samples()
	if len(samples) != wantSamples {
		t.Errorf("len(Samples()) = %d, want %d", len(samples), wantSamples)
	}
	var loud bool
	for _, v := range samples {
		if v > 1000 || v < -1000 {
			loud = true
			break
		}
	}
	if !loud {
		t.Error("mixed samples are silent")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := r.Schedule(events[0]); !errors.Is(err, ErrClosed) {
		t.Errorf("Schedule after Close = %v, want ErrClosed", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("recorder output is not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if dec.SampleRate != 8000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Errorf("format = %d Hz, %d ch, %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(buf.Data) != wantSamples {
		t.Errorf("decoded %d samples, want %d", len(buf.Data), wantSamples)
	}
}

func TestRecorderEmptyTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	r := NewRecorder(path, 0)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("empty recording not written: %v", err)
	}
}

func TestRecorderCollapsesIdleTime(t *testing.T) {
	r := NewRecorder(filepath.Join(t.TempDir(), "session.wav"), 8000)
	var now time.Duration
	r.SetClock(func() time.Duration { return now })

	s := NewSynthesizer(func() (Output, error) { return r, nil }, DefaultSettings(), nil)
	now = 5 * time.Second
	s.PlaySceneTone(context.Background(), "welcome")
	now = 10 * time.Minute
	s.PlaySceneTone(context.Background(), "welcome")

	// Each sequence spans 340ms; the ten minute wait shrinks to MaxSilence
	// and the five second lead-in disappears.
	want := sampleCount(340*time.Millisecond+MaxSilence+340*time.Millisecond, 8000)
	if got := len(r.Samples()); got != want {
		t.Errorf("len(Samples()) = %d, want %d", got, want)
	}

	events := r.Events()
	if events[0].Start != 5*time.Second {
		t.Errorf("Events()[0].Start = %v, want device time 5s", events[0].Start)
	}
}

func TestCompactKeepsShortGapsAndOverlaps(t *testing.T) {
	events := []Event{
		{Start: 2 * time.Second, Duration: 100 * time.Millisecond},
		{Start: time.Second, Duration: 200 * time.Millisecond},
		{Start: time.Second + 150*time.Millisecond, Duration: 200 * time.Millisecond},
	}
	got := compact(events)

	wantStarts := []time.Duration{0, 150 * time.Millisecond, 350*time.Millisecond + MaxSilence}
	for i, want := range wantStarts {
		if got[i].Start != want {
			t.Errorf("compact()[%d].Start = %v, want %v", i, got[i].Start, want)
		}
	}
	if events[0].Start != 2*time.Second {
		t.Error("compact modified its input")
	}
}
