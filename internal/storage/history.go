package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pagebuilder/internal/domain"
)

// DefaultMaxEntries bounds the stored timeline per canvas.
const DefaultMaxEntries = 100

// HistoryStore persists undo timelines so history survives reopening a
// canvas. Each entry keeps its full snapshot as JSON.
type HistoryStore struct {
	db         *DB
	maxEntries int
}

func NewHistoryStore(db *DB, maxEntries int) *HistoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &HistoryStore{db: db, maxEntries: maxEntries}
}

// SaveTimeline replaces the stored timeline. When it is longer than the
// store's limit the oldest entries are dropped, never the current one.
func (s *HistoryStore) SaveTimeline(canvasID string, tl domain.Timeline) error {
	tl = prune(tl, s.maxEntries)

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history_entries WHERE canvas_id = ?`, canvasID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	for i, e := range tl.Entries {
		snapshot, err := json.Marshal(e.Canvas)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", e.ID, err)
		}
		selected, err := json.Marshal(e.Selected)
		if err != nil {
			return fmt.Errorf("encode selection %s: %w", e.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO history_entries (id, canvas_id, seq, label, snapshot_json, selected_json, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, canvasID, i, e.Label, string(snapshot), string(selected), e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert history entry %s: %w", e.ID, err)
		}
	}
	_, err = tx.Exec(
		`INSERT INTO history_state (canvas_id, cursor) VALUES (?, ?)
		 ON CONFLICT(canvas_id) DO UPDATE SET cursor = excluded.cursor`,
		canvasID, tl.Cursor,
	)
	if err != nil {
		return fmt.Errorf("update history state: %w", err)
	}
	return tx.Commit()
}

// LoadTimeline returns the stored timeline, or nil when none was saved.
func (s *HistoryStore) LoadTimeline(canvasID string) (*domain.Timeline, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, label, snapshot_json, selected_json, created_at
		 FROM history_entries WHERE canvas_id = ? ORDER BY seq ASC`, canvasID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var snapshot, selected string
		if err := rows.Scan(&e.ID, &e.Label, &snapshot, &selected, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &e.Canvas); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(selected), &e.Selected); err != nil {
			return nil, fmt.Errorf("decode selection %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	tl := &domain.Timeline{Entries: entries, Cursor: len(entries) - 1}
	var cursor int
	err = s.db.Conn().QueryRow(`SELECT cursor FROM history_state WHERE canvas_id = ?`, canvasID).Scan(&cursor)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("load history state: %w", err)
	case cursor >= 0 && cursor < len(entries):
		tl.Cursor = cursor
	}
	return tl, nil
}

func (s *HistoryStore) ClearTimeline(canvasID string) error {
	if _, err := s.db.Conn().Exec(`DELETE FROM history_state WHERE canvas_id = ?`, canvasID); err != nil {
		return fmt.Errorf("clear history state: %w", err)
	}
	_, err := s.db.Conn().Exec(`DELETE FROM history_entries WHERE canvas_id = ?`, canvasID)
	return err
}

func prune(tl domain.Timeline, max int) domain.Timeline {
	over := len(tl.Entries) - max
	if over <= 0 {
		return tl
	}
	if over > tl.Cursor {
		over = tl.Cursor
	}
	entries := tl.Entries[over:]
	if len(entries) > max {
		entries = entries[:max]
	}
	return domain.Timeline{Entries: entries, Cursor: tl.Cursor - over}
}
