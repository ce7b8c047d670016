package session

import (
	"path/filepath"
	"testing"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
	"github.com/grove-dev/grove/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPlaythroughCRUD(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreatePlaythrough("Fork")
	if err != nil {
		t.Fatalf("CreatePlaythrough: %v", err)
	}
	if p.ID == "" || p.Status != StatusActive {
		t.Fatalf("created = %+v", p)
	}

	got, err := s.GetPlaythrough(p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetPlaythrough = %v, %v", got, err)
	}
	if got.Story != "Fork" {
		t.Errorf("Story = %q", got.Story)
	}

	if err := s.SetStatus(p.ID, StatusFinished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _ = s.GetPlaythrough(p.ID)
	if got.Status != StatusFinished {
		t.Errorf("Status = %q, want finished", got.Status)
	}

	missing, err := s.GetPlaythrough("nope")
	if err != nil || missing != nil {
		t.Errorf("GetPlaythrough(nope) = %v, %v; want nil, nil", missing, err)
	}
}

func TestVisitsAndSummaries(t *testing.T) {
	s := newTestStore(t)

	p, _ := s.CreatePlaythrough("Fork")
	for i, id := range []string{"intro", "a"} {
		if err := s.AddVisit(p.ID, i, id, "choice"); err != nil {
			t.Fatalf("AddVisit: %v", err)
		}
	}
	empty, _ := s.CreatePlaythrough("Fork")

	visits, err := s.GetVisits(p.ID)
	if err != nil {
		t.Fatalf("GetVisits: %v", err)
	}
	if len(visits) != 2 || visits[0].SceneID != "intro" || visits[1].SceneID != "a" {
		t.Errorf("visits = %+v", visits)
	}

	sums, err := s.ListPlaythroughs(10)
	if err != nil {
		t.Fatalf("ListPlaythroughs: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(sums))
	}
	byID := map[string]Summary{}
	for _, sum := range sums {
		byID[sum.ID] = sum
	}
	if got := byID[p.ID]; got.Visits != 2 || got.LastScene != "a" {
		t.Errorf("summary = %+v", got)
	}
	if got := byID[empty.ID]; got.Visits != 0 || got.LastScene != "" {
		t.Errorf("empty summary = %+v", got)
	}

	limited, _ := s.ListPlaythroughs(1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d rows", len(limited))
	}
}

func TestRecorderFollowsStore(t *testing.T) {
	st, err := story.Parse([]byte(testutil.BranchingStory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	db := newTestStore(t)
	rec := NewRecorder(db, st.Graph, st.Title, nil)
	gs := game.FromStory(st)
	gs.Subscribe(rec.Observe)

	if rec.Current() != "" {
		t.Fatal("subscribe should not open a playthrough")
	}

	gs.StartGame()
	first := rec.Current()
	if first == "" {
		t.Fatal("StartGame should open a playthrough")
	}

	gs.StartGame()
	second := rec.Current()
	if second == first {
		t.Fatal("second StartGame should open a new playthrough")
	}
	if p, _ := db.GetPlaythrough(first); p.Status != StatusAbandoned {
		t.Errorf("first status = %q, want abandoned", p.Status)
	}

	gs.MakeChoice(0)
	if rec.Current() != "" {
		t.Error("terminal scene should close the playthrough")
	}
	p, _ := db.GetPlaythrough(second)
	if p.Status != StatusFinished {
		t.Errorf("status = %q, want finished", p.Status)
	}
	visits, _ := db.GetVisits(second)
	if len(visits) != 2 || visits[0].SceneID != "intro" || visits[0].Op != "start" || visits[1].SceneID != "a" || visits[1].Op != "choice" {
		t.Errorf("visits = %+v", visits)
	}
}

func TestRecorderOpensLazilyOnPreseededStory(t *testing.T) {
	st, err := story.Parse([]byte(testutil.PreseededStory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	db := newTestStore(t)
	rec := NewRecorder(db, st.Graph, st.Title, nil)
	gs := game.FromStory(st)
	gs.Subscribe(rec.Observe)

	gs.MakeChoice(0)
	id := rec.Current()
	if id == "" {
		t.Fatal("choice without StartGame should open a playthrough")
	}
	visits, _ := db.GetVisits(id)
	if len(visits) != 2 || visits[0].SceneID != "welcome" || visits[0].Op != OpCarried || visits[1].SceneID != "intro" {
		t.Errorf("visits = %+v", visits)
	}

	gs.Reset()
	if rec.Current() != "" {
		t.Error("Reset should close the playthrough")
	}
	if p, _ := db.GetPlaythrough(id); p.Status != StatusAbandoned {
		t.Errorf("status = %q, want abandoned", p.Status)
	}
}

func TestRecorderClose(t *testing.T) {
	st, _ := story.Parse([]byte(testutil.BranchingStory))
	db := newTestStore(t)
	rec := NewRecorder(db, st.Graph, st.Title, nil)
	gs := game.FromStory(st)
	gs.Subscribe(rec.Observe)

	gs.StartGame()
	id := rec.Current()
	rec.Close()
	rec.Close()

	if p, _ := db.GetPlaythrough(id); p.Status != StatusAbandoned {
		t.Errorf("status = %q, want abandoned", p.Status)
	}
}

func TestRecorderAbandonsPlaythroughWhenCarryFails(t *testing.T) {
	st, err := story.Parse([]byte(testutil.PreseededStory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	db := newTestStore(t)
	if _, err := db.db.Exec(`DROP TABLE visits`); err != nil {
		t.Fatalf("drop visits: %v", err)
	}

	rec := NewRecorder(db, st.Graph, st.Title, nil)
	gs := game.FromStory(st)
	gs.Subscribe(rec.Observe)

	gs.MakeChoice(0)
	if id := rec.Current(); id != "" {
		t.Errorf("Current() = %q after a failed open, want none", id)
	}

	rows, err := db.db.Query(`SELECT status FROM playthroughs`)
	if err != nil {
		t.Fatalf("query playthroughs: %v", err)
	}
	defer rows.Close()
	var statuses []string
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			t.Fatalf("scan: %v", err)
		}
		statuses = append(statuses, status)
	}
	if len(statuses) != 1 || statuses[0] != StatusAbandoned {
		t.Errorf("statuses = %v, want [abandoned]", statuses)
	}
}
