package story

import (
	"errors"
	"reflect"
	"testing"

	"github.com/grove-dev/grove/internal/testutil"
)

func TestNewGraphRejectsDuplicateIDs(t *testing.T) {
	_, err := NewGraph([]Scene{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	if !errors.Is(err, ErrDuplicateScene) {
		t.Fatalf("NewGraph error = %v, want ErrDuplicateScene", err)
	}
}

func TestNewGraphRejectsEmptyID(t *testing.T) {
	_, err := NewGraph([]Scene{{ID: "a"}, {Text: "no id"}})
	if !errors.Is(err, ErrEmptySceneID) {
		t.Fatalf("NewGraph error = %v, want ErrEmptySceneID", err)
	}
}

func TestGraphLookup(t *testing.T) {
	g, err := NewGraph([]Scene{
		{ID: "intro", Text: "hi", Choices: []Choice{{Label: "Go", Target: "end"}}},
		{ID: "end", Text: "bye"},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	s, ok := g.Scene("intro")
	if !ok {
		t.Fatal("Scene(intro) not found")
	}
	if s.Text != "hi" || len(s.Choices) != 1 || s.Choices[0].Target != "end" {
		t.Errorf("Scene(intro) = %+v", s)
	}
	if s.Terminal() {
		t.Error("intro should not be terminal")
	}

	end, _ := g.Scene("end")
	if !end.Terminal() {
		t.Error("end should be terminal")
	}

	if _, ok := g.Scene("Intro"); ok {
		t.Error("lookup should be an exact match")
	}
	if _, ok := g.Scene(""); ok {
		t.Error("empty id should not resolve")
	}

	if got := g.IDs(); !reflect.DeepEqual(got, []string{"intro", "end"}) {
		t.Errorf("IDs() = %v, want declaration order", got)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestGraphLookupReturnsCopy(t *testing.T) {
	g, _ := NewGraph([]Scene{{ID: "x", Choices: []Choice{{Label: "a", Target: "y"}}}})

	s, _ := g.Scene("x")
	s.Choices[0].Target = "tampered"
	s.Text = "tampered"

	again, _ := g.Scene("x")
	if again.Choices[0].Target != "y" || again.Text != "" {
		t.Errorf("graph was mutated through a lookup: %+v", again)
	}
}

func TestDanglingAndUnreachable(t *testing.T) {
	st, err := Parse([]byte(testutil.PreseededStory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	refs := st.Graph.Dangling()
	if len(refs) != 1 {
		t.Fatalf("Dangling() = %v, want 1 ref", refs)
	}
	want := DanglingRef{SceneID: "intro", Index: 1, Label: "Into the void", Target: "nowhere"}
	if refs[0] != want {
		t.Errorf("Dangling()[0] = %+v, want %+v", refs[0], want)
	}

	if got := st.Graph.Unreachable("welcome"); len(got) != 0 {
		t.Errorf("Unreachable(welcome) = %v, want none", got)
	}

	fork, _ := Parse([]byte(testutil.BranchingStory))
	if got := fork.Graph.Unreachable("intro"); !reflect.DeepEqual(got, []string{"welcome"}) {
		t.Errorf("Unreachable(intro) = %v, want [welcome]", got)
	}
	if got := fork.Graph.Unreachable("missing"); len(got) != 4 {
		t.Errorf("Unreachable(missing) = %v, want every scene", got)
	}
}
