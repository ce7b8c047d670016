// Package story holds the scene graph: scenes, their ordered choices, and the
// story files they are loaded from.
package story

import (
	"errors"
	"fmt"
)

// ErrEmptySceneID is returned when a scene is declared without an id.
var ErrEmptySceneID = errors.New("scene id is empty")

// ErrDuplicateScene is returned when two scenes share an id.
var ErrDuplicateScene = errors.New("duplicate scene id")

// Choice is a labeled edge from one scene to another.
type Choice struct {
	Label  string `yaml:"label"`
	Target string `yaml:"next"`
}

// Scene is a node of the narrative graph.
type Scene struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text"`
	Choices []Choice `yaml:"choices"`
}

// Terminal reports whether the scene is an ending (no choices).
func (s Scene) Terminal() bool {
	return len(s.Choices) == 0
}

// clone returns a copy that shares nothing with s.
func (s Scene) clone() Scene {
	c := s
	if s.Choices != nil {
		c.Choices = make([]Choice, len(s.Choices))
		copy(c.Choices, s.Choices)
	}
	return c
}

// Graph maps scene ids to scenes. It is immutable once built.
type Graph struct {
	scenes map[string]Scene
	order  []string
}

// NewGraph builds a Graph from scenes in declaration order.
// Choice targets are not checked; see Dangling.
func NewGraph(scenes []Scene) (*Graph, error) {
	g := &Graph{
		scenes: make(map[string]Scene, len(scenes)),
		order:  make([]string, 0, len(scenes)),
	}

	for i, s := range scenes {
		if s.ID == "" {
			return nil, fmt.Errorf("scene #%d: %w", i, ErrEmptySceneID)
		}
		if _, exists := g.scenes[s.ID]; exists {
			return nil, fmt.Errorf("scene %q: %w", s.ID, ErrDuplicateScene)
		}
		g.scenes[s.ID] = s.clone()
		g.order = append(g.order, s.ID)
	}

	return g, nil
}

// Scene returns a copy of the scene registered under id.
// The second result is false when id is unknown.
func (g *Graph) Scene(id string) (Scene, bool) {
	s, ok := g.scenes[id]
	if !ok {
		return Scene{}, false
	}
	return s.clone(), true
}

// Has reports whether id names a scene.
func (g *Graph) Has(id string) bool {
	_, ok := g.scenes[id]
	return ok
}

// IDs returns scene ids in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Len returns the number of scenes.
func (g *Graph) Len() int {
	return len(g.order)
}
