package tone

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrClosed is returned by outputs that have been shut down.
var ErrClosed = errors.New("audio output closed")

// DeviceState is the activity state of an audio output.
type DeviceState int

const (
	StateRunning DeviceState = iota
	StateSuspended
	StateClosed
)

func (s DeviceState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Output is an audio device that plays tone events at device times.
type Output interface {
	State() DeviceState
	// Resume reactivates a suspended device.
	Resume(ctx context.Context) error
	// CurrentTime is the device clock that Event.Start is measured against.
	CurrentTime() time.Duration
	// Schedule queues an event. It must not wait for playback.
	Schedule(ev Event) error
}

// Null is an Output that discards everything. It stands in when no real
// device is available.
type Null struct{}

func (Null) State() DeviceState { return StateRunning }
func (Null) Resume(context.Context) error { return nil }
func (Null) CurrentTime() time.Duration { return 0 }
func (Null) Schedule(Event) error { return nil }

// Event is one sine tone with an attack/decay envelope.
type Event struct {
	Frequency float64
	Start     time.Duration
	Duration  time.Duration
	Volume    float64
	// Attack is the linear fade-in length.
	Attack time.Duration
	// Floor is the gain the exponential fade-out reaches at End.
	Floor float64
}

// End returns the device time at which the event falls silent.
func (e Event) End() time.Duration {
	return e.Start + e.Duration
}

// Gain returns the envelope value at device time t: zero outside the event,
// a linear ramp from 0 to Volume over Attack, then an exponential ramp from
// Volume down to Floor at End.
func (e Event) Gain(t time.Duration) float64 {
	if t < e.Start || t >= e.End() || e.Volume <= 0 {
		return 0
	}
	rel := t - e.Start
	attack := min(e.Attack, e.Duration)
	if rel < attack {
		return e.Volume * float64(rel) / float64(attack)
	}
	if e.Floor <= 0 || e.Floor >= e.Volume || e.Duration == attack {
		return e.Volume
	}
	frac := float64(rel-attack) / float64(e.Duration-attack)
	return e.Volume * math.Pow(e.Floor/e.Volume, frac)
}
