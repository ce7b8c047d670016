package game

import (
	"sync"

	"github.com/grove-dev/grove/internal/story"
)

// Op names the store operation behind a Transition.
type Op string

// Store operations reported to listeners.
const (
	OpSubscribe Op = "subscribe"
	OpStart     Op = "start"
	OpChoice    Op = "choice"
	OpNavigate  Op = "navigate"
	OpReset     Op = "reset"
)

// Transition describes one state change delivered to listeners.
// Choice and Label are set for OpChoice only.
type Transition struct {
	Op     Op
	From   string
	Choice int
	Label  string
	State  State
}

// Listener receives transitions synchronously, after the store has released
// its lock. Listeners must not block.
type Listener func(Transition)

// Options configures a Store.
type Options struct {
	// EntrySceneID is where StartGame lands.
	EntrySceneID string
	// Initial is the state a new or reset store holds.
	Initial State
}

type subscriber struct {
	id int
	fn Listener
}

// Store owns the session state of one playthrough over a scene graph.
// Lookup failures never surface as errors: unknown scenes read as absent and
// invalid choices are ignored.
type Store struct {
	graph *story.Graph
	opts  Options

	mu        sync.Mutex
	state     State
	listeners []subscriber
	nextID    int
}

// NewStore creates a store positioned at opts.Initial.
func NewStore(g *story.Graph, opts Options) *Store {
	opts.Initial = opts.Initial.Clone()
	return &Store{
		graph: g,
		opts:  opts,
		state: opts.Initial.Clone(),
	}
}

// FromStory creates a store for a loaded story.
func FromStory(st *story.Story) *Store {
	return NewStore(st.Graph, Options{
		EntrySceneID: st.Entry,
		Initial:      InitialFor(st),
	})
}

// Graph returns the scene graph the store navigates.
func (s *Store) Graph() *story.Graph {
	return s.graph
}

// EntrySceneID returns the scene StartGame lands on.
func (s *Store) EntrySceneID() string {
	return s.opts.EntrySceneID
}

// State returns a snapshot of the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// StartGame begins a fresh playthrough at the entry scene, discarding any
// session in progress.
func (s *Store) StartGame() {
	s.mu.Lock()
	from := s.state.CurrentSceneID
	s.state = State{
		CurrentSceneID: s.opts.EntrySceneID,
		VisitedScenes:  []string{s.opts.EntrySceneID},
		IsGameStarted:  true,
	}
	t := Transition{Op: OpStart, From: from, State: s.state.Clone()}
	s.mu.Unlock()

	s.notify(t)
}

// MakeChoice follows choice i of the current scene. It does nothing when the
// current scene is unknown or i is out of range.
func (s *Store) MakeChoice(i int) {
	s.mu.Lock()
	scene, ok := s.graph.Scene(s.state.CurrentSceneID)
	if !ok || i < 0 || i >= len(scene.Choices) {
		s.mu.Unlock()
		return
	}

	choice := scene.Choices[i]
	from := s.state.CurrentSceneID
	s.state.CurrentSceneID = choice.Target
	s.state.VisitedScenes = append(s.state.VisitedScenes, choice.Target)
	t := Transition{Op: OpChoice, From: from, Choice: i, Label: choice.Label, State: s.state.Clone()}
	s.mu.Unlock()

	s.notify(t)
}

// NavigateToScene jumps to id without checking that it exists or is reachable.
func (s *Store) NavigateToScene(id string) {
	s.mu.Lock()
	from := s.state.CurrentSceneID
	s.state.CurrentSceneID = id
	s.state.VisitedScenes = append(s.state.VisitedScenes, id)
	t := Transition{Op: OpNavigate, From: from, State: s.state.Clone()}
	s.mu.Unlock()

	s.notify(t)
}

// CurrentScene resolves the current scene id against the graph.
func (s *Store) CurrentScene() (story.Scene, bool) {
	s.mu.Lock()
	id := s.state.CurrentSceneID
	s.mu.Unlock()

	if id == "" {
		return story.Scene{}, false
	}
	return s.graph.Scene(id)
}

// Reset restores the configured initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	from := s.state.CurrentSceneID
	s.state = s.opts.Initial.Clone()
	t := Transition{Op: OpReset, From: from, State: s.state.Clone()}
	s.mu.Unlock()

	s.notify(t)
}

// Subscribe registers fn and immediately delivers the current state to it as
// an OpSubscribe transition. The returned func removes the listener.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscriber{id: id, fn: fn})
	current := s.state.Clone()
	s.mu.Unlock()

	fn(Transition{Op: OpSubscribe, From: current.CurrentSceneID, State: current})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) notify(t Transition) {
	s.mu.Lock()
	listeners := make([]subscriber, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		lt := t
		lt.State = t.State.Clone()
		l.fn(lt)
	}
}
