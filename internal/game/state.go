// Package game implements the session store: the single mutable record of a
// playthrough over an immutable scene graph.
package game

import "github.com/grove-dev/grove/internal/story"

// State is a snapshot of a playthrough.
// An empty CurrentSceneID means no scene is selected.
type State struct {
	CurrentSceneID string
	VisitedScenes  []string
	IsGameStarted  bool
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.VisitedScenes = make([]string, len(s.VisitedScenes))
	copy(c.VisitedScenes, s.VisitedScenes)
	return c
}

// Equal reports whether two snapshots are identical. A nil history equals an
// empty one.
func (s State) Equal(o State) bool {
	if s.CurrentSceneID != o.CurrentSceneID || s.IsGameStarted != o.IsGameStarted {
		return false
	}
	if len(s.VisitedScenes) != len(o.VisitedScenes) {
		return false
	}
	for i := range s.VisitedScenes {
		if s.VisitedScenes[i] != o.VisitedScenes[i] {
			return false
		}
	}
	return true
}

// NotStarted is the initial state of a story that declares none.
func NotStarted() State {
	return State{VisitedScenes: []string{}}
}

// InitialFor converts a story's declared initial state, falling back to
// NotStarted when the story declares none.
func InitialFor(st *story.Story) State {
	if st == nil || st.Initial == nil {
		return NotStarted()
	}
	return State{
		CurrentSceneID: st.Initial.Current,
		VisitedScenes:  append([]string{}, st.Initial.Visited...),
		IsGameStarted:  st.Initial.Started,
	}
}
