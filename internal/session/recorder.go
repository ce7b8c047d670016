package session

import (
	"log/slog"
	"sync"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
)

// Op recorded for scenes that were already in the history when a
// playthrough was opened lazily.
const OpCarried = "carried"

// Recorder mirrors store transitions into the playthrough journal.
//
// StartGame opens a playthrough and abandons any active one. Choices and
// navigations append visits, opening a playthrough first if none is active.
// Reaching a terminal scene finishes it. Reset abandons it.
type Recorder struct {
	store  *Store
	graph  *story.Graph
	title  string
	logger *slog.Logger

	mu      sync.Mutex
	current string
	seq     int
}

// NewRecorder creates a Recorder for one story. A nil logger discards.
func NewRecorder(store *Store, graph *story.Graph, title string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{store: store, graph: graph, title: title, logger: logger}
}

// Current returns the id of the active playthrough, or "".
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Observe is a game.Listener. Journal failures are logged and otherwise ignored
// so play is never interrupted by the database.
func (r *Recorder) Observe(t game.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch t.Op {
	case game.OpStart:
		r.closeLocked(StatusAbandoned)
		err = r.openLocked(nil)
		if err == nil {
			err = r.visitLocked(t.State.CurrentSceneID, string(t.Op))
		}
	case game.OpChoice, game.OpNavigate:
		if r.current == "" {
			err = r.openLocked(t.State.VisitedScenes)
		}
		if err == nil {
			err = r.visitLocked(t.State.CurrentSceneID, string(t.Op))
		}
	case game.OpReset:
		r.closeLocked(StatusAbandoned)
		return
	default:
		return
	}
	if err != nil {
		r.logger.Warn("journal write failed", "op", string(t.Op), "scene", t.State.CurrentSceneID, "error", err)
		return
	}

	if scene, ok := r.graph.Scene(t.State.CurrentSceneID); ok && scene.Terminal() {
		r.closeLocked(StatusFinished)
	}
}

// openLocked starts a playthrough. history holds the scenes visited before
// the triggering transition, including its own target as the last element.
// The playthrough becomes current only once its carried visits are stored;
// on failure it is marked abandoned.
func (r *Recorder) openLocked(history []string) error {
	p, err := r.store.CreatePlaythrough(r.title)
	if err != nil {
		return err
	}

	seq := 0
	if len(history) > 1 {
		for _, id := range history[:len(history)-1] {
			if err := r.store.AddVisit(p.ID, seq, id, OpCarried); err != nil {
				if statusErr := r.store.SetStatus(p.ID, StatusAbandoned); statusErr != nil {
					r.logger.Warn("journal status update failed", "id", p.ID, "status", StatusAbandoned, "error", statusErr)
				}
				return err
			}
			seq++
		}
	}

	r.current = p.ID
	r.seq = seq
	r.logger.Debug("playthrough opened", "id", p.ID, "story", r.title)
	return nil
}

func (r *Recorder) visitLocked(sceneID, op string) error {
	if err := r.store.AddVisit(r.current, r.seq, sceneID, op); err != nil {
		return err
	}
	r.seq++
	return nil
}

func (r *Recorder) closeLocked(status string) {
	if r.current == "" {
		return
	}
	if err := r.store.SetStatus(r.current, status); err != nil {
		r.logger.Warn("journal status update failed", "id", r.current, "status", status, "error", err)
	}
	r.logger.Debug("playthrough closed", "id", r.current, "status", status)
	r.current = ""
	r.seq = 0
}

// Close abandons the active playthrough, if any.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked(StatusAbandoned)
}
