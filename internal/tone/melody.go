// Package tone derives short tone sequences from scene ids and choice labels
// and plays them through an audio output.
package tone

// Note frequencies in Hz.
const (
	A3  = 220.00
	B3  = 246.94
	C4  = 261.63
	CS4 = 277.18
	D4  = 293.66
	E4  = 329.63
	F4  = 349.23
	FS4 = 369.99
	G4  = 392.00
	A4  = 440.00
	B4  = 493.88
	C5  = 523.25
	CS5 = 554.37
	D5  = 587.33
	E5  = 659.25
	FS5 = 739.99
	G5  = 783.99
	GS5 = 830.61
	A5  = 880.00
	B5  = 987.77
	C6  = 1046.50
)

// DefaultSceneMelody plays for scenes without an entry in the table.
var DefaultSceneMelody = []float64{A4, C5}

var sceneMelodies = map[string][]float64{
	// menus
	"welcome": {C5, E5},
	"help":    {A4, C5},

	// exploring
	"intro":    {E4, FS4},
	"river":    {FS4, E4},
	"tree":     {G4, B4},
	"backpack": {G4, F4},

	// company
	"village": {D5, E5},
	"helper":  {C5, D5},
	"friends": {E5, G5},

	// nature
	"creature": {CS4, FS4},
	"cave":     {B3, A3},
	"portal":   {E5, B5},
	"rest":     {C4, B3},

	// endings
	"hero":       {E5, A5},
	"otherworld": {G5, C6},
	"friendship": {C5, E5},
	"treasure":   {E5, FS5},
	"rescue":     {A4, C5},
}

// SceneMelody returns the melody for a scene id, or DefaultSceneMelody for
// ids the table does not know. The result is a fresh slice.
func SceneMelody(sceneID string) []float64 {
	if m, ok := sceneMelodies[sceneID]; ok {
		return clone(m)
	}
	return clone(DefaultSceneMelody)
}

func clone(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	copy(out, freqs)
	return out
}
