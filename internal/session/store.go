package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for playthroughs.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS playthroughs (
		id TEXT PRIMARY KEY,
		story TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		playthrough_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		scene_id TEXT NOT NULL,
		op TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (playthrough_id) REFERENCES playthroughs(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreatePlaythrough creates a new active playthrough of the given story.
func (s *Store) CreatePlaythrough(story string) (*Playthrough, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO playthroughs (id, story, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, story, StatusActive, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert playthrough: %w", err)
	}

	return &Playthrough{
		ID:        id,
		Story:     story,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetPlaythrough retrieves a playthrough by ID. Returns nil, nil when absent.
func (s *Store) GetPlaythrough(id string) (*Playthrough, error) {
	row := s.db.QueryRow(
		`SELECT id, story, status, created_at, updated_at
		 FROM playthroughs WHERE id = ?`,
		id,
	)

	var p Playthrough
	err := row.Scan(&p.ID, &p.Story, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan playthrough: %w", err)
	}

	return &p, nil
}

// SetStatus updates the status of a playthrough.
func (s *Store) SetStatus(id, status string) error {
	_, err := s.db.Exec(
		`UPDATE playthroughs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update playthrough: %w", err)
	}
	return nil
}

// AddVisit appends a scene visit to a playthrough.
func (s *Store) AddVisit(playthroughID string, seq int, sceneID, op string) error {
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO visits (playthrough_id, seq, scene_id, op, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		playthroughID, seq, sceneID, op, now,
	)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE playthroughs SET updated_at = ? WHERE id = ?`,
		now, playthroughID,
	)
	if err != nil {
		return fmt.Errorf("touch playthrough: %w", err)
	}

	return nil
}

// GetVisits returns the visits of a playthrough in order.
func (s *Store) GetVisits(playthroughID string) ([]Visit, error) {
	rows, err := s.db.Query(
		`SELECT id, playthrough_id, seq, scene_id, op, timestamp
		 FROM visits
		 WHERE playthrough_id = ?
		 ORDER BY seq ASC, id ASC`,
		playthroughID,
	)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.PlaythroughID, &v.Seq, &v.SceneID, &v.Op, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return visits, nil
}

// ListPlaythroughs returns summaries of the most recent playthroughs.
func (s *Store) ListPlaythroughs(limit int) ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.story, p.status, p.updated_at,
		        COUNT(v.id) AS visits,
		        COALESCE((SELECT scene_id FROM visits lv
		                  WHERE lv.playthrough_id = p.id
		                  ORDER BY lv.seq DESC, lv.id DESC LIMIT 1), '') AS last_scene
		 FROM playthroughs p
		 LEFT JOIN visits v ON p.id = v.playthrough_id
		 GROUP BY p.id
		 ORDER BY p.updated_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query playthroughs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Story, &sum.Status, &sum.UpdatedAt, &sum.Visits, &sum.LastScene); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}
