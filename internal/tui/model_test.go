package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
	"github.com/grove-dev/grove/internal/testutil"
)

type fakeTones struct {
	mu      sync.Mutex
	scenes  []string
	choices []string
}

func (f *fakeTones) PlaySceneTone(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes = append(f.scenes, id)
}

func (f *fakeTones) PlayChoiceTone(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.choices = append(f.choices, text)
}

func loadStory(t *testing.T, doc string) *story.Story {
	t.Helper()
	st, err := story.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return st
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs every command it returns except the transition
// listener, which would block.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	runCmd(cmd)
	return next.(Model)
}

func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func TestModelPlaysBranchingStory(t *testing.T) {
	st := loadStory(t, testutil.BranchingStory)
	store := game.FromStory(st)
	tones := &fakeTones{}
	m := NewModel(context.Background(), store, st, tones)

	if !strings.Contains(m.View(), "Press enter to begin") {
		t.Errorf("unstarted view = %q", m.View())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.State(); got.CurrentSceneID != "intro" || !got.IsGameStarted {
		t.Fatalf("after enter state = %+v", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 1 {
		t.Errorf("cursor moved past last choice: %d", m.Cursor())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	want := game.State{CurrentSceneID: "b", VisitedScenes: []string{"intro", "b"}, IsGameStarted: true}
	if got := store.State(); !got.Equal(want) {
		t.Errorf("store state = %+v, want %+v", got, want)
	}
	if !strings.Contains(m.View(), "The End") {
		t.Errorf("terminal view missing ending: %q", m.View())
	}

	tones.mu.Lock()
	defer tones.mu.Unlock()
	if strings.Join(tones.scenes, ",") != "intro,b" {
		t.Errorf("scene tones = %v", tones.scenes)
	}
	if strings.Join(tones.choices, ",") != "Go right" {
		t.Errorf("choice tones = %v", tones.choices)
	}
}

func TestModelNumberKeysMenuAndReset(t *testing.T) {
	st := loadStory(t, testutil.BranchingStory)
	store := game.FromStory(st)
	m := NewModel(context.Background(), store, st, nil)

	m = press(t, m, keyRunes("s"))
	m = press(t, m, keyRunes("9"))
	if got := store.State().CurrentSceneID; got != "intro" {
		t.Fatalf("out of range pick moved to %q", got)
	}

	m = press(t, m, keyRunes("1"))
	if got := store.State().CurrentSceneID; got != "a" {
		t.Fatalf("pick 1 moved to %q, want a", got)
	}

	m = press(t, m, keyRunes("h"))
	if got := m.State(); got.CurrentSceneID != "welcome" || len(got.VisitedScenes) != 3 {
		t.Errorf("after menu state = %+v", got)
	}

	m = press(t, m, keyRunes("r"))
	if got := m.State(); !got.Equal(game.NotStarted()) {
		t.Errorf("after reset state = %+v", got)
	}
}

func TestModelFollowsExternalChanges(t *testing.T) {
	st := loadStory(t, testutil.PreseededStory)
	store := game.FromStory(st)
	m := NewModel(context.Background(), store, st, nil)

	store.NavigateToScene("nowhere")

	for len(m.transitions) > 0 {
		msg := waitForTransition(m.transitions)()
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	if got := m.State(); !got.Equal(store.State()) {
		t.Errorf("model state = %+v, store state = %+v", got, store.State())
	}
	if !strings.Contains(m.View(), `Scene "nowhere" is missing`) {
		t.Errorf("view = %q", m.View())
	}
}

func TestModelQuitUnsubscribes(t *testing.T) {
	st := loadStory(t, testutil.BranchingStory)
	store := game.FromStory(st)
	m := NewModel(context.Background(), store, st, nil)

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not quit")
	}

	queued := len(m.transitions)
	store.StartGame()
	if len(m.transitions) != queued {
		t.Error("listener still subscribed after quit")
	}
}
