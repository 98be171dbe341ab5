package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// CanvasStore implements domain.CanvasStore using SQLite. Components are
// stored one row each, ordered within their parent by sort_order.
type CanvasStore struct {
	db *DB
}

func NewCanvasStore(db *DB) *CanvasStore {
	return &CanvasStore{db: db}
}

func (s *CanvasStore) CreateCanvas(c *domain.Canvas) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.State == nil {
		c.State = domain.NewCanvasState(domain.GridConfig{Enabled: true, CellSize: 8, Snap: true})
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	st := c.State
	_, err = tx.Exec(
		`INSERT INTO canvases (id, name, viewport_x, viewport_y, viewport_zoom, grid_enabled, grid_cell, grid_snap, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, st.Viewport.PanX, st.Viewport.PanY, st.Viewport.Zoom,
		st.Grid.Enabled, st.Grid.CellSize, st.Grid.Snap, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert canvas: %w", err)
	}
	if err := insertComponents(tx, c.ID, st); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *CanvasStore) GetCanvas(id string) (*domain.Canvas, error) {
	c := &domain.Canvas{State: &domain.CanvasState{Components: make(map[string]*domain.ComponentInstance)}}
	st := c.State
	err := s.db.Conn().QueryRow(
		`SELECT id, name, viewport_x, viewport_y, viewport_zoom, grid_enabled, grid_cell, grid_snap, created_at, updated_at
		 FROM canvases WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &st.Viewport.PanX, &st.Viewport.PanY, &st.Viewport.Zoom,
		&st.Grid.Enabled, &st.Grid.CellSize, &st.Grid.Snap, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get canvas: %w", err)
	}

	rows, err := s.db.Conn().Query(
		`SELECT id, parent_id, type, props_json, position_json, size_json
		 FROM components WHERE canvas_id = ? ORDER BY parent_id ASC, sort_order ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	// Rows arrive grouped by parent in sibling order; children lists are
	// rebuilt once every row is known.
	var order []*domain.ComponentInstance
	for rows.Next() {
		var inst domain.ComponentInstance
		var props, pos, size string
		if err := rows.Scan(&inst.ID, &inst.ParentID, &inst.Type, &props, &pos, &size); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		if err := decodeComponent(&inst, props, pos, size); err != nil {
			return nil, fmt.Errorf("decode component %s: %w", inst.ID, err)
		}
		inst.Children = []string{}
		st.Components[inst.ID] = &inst
		order = append(order, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	st.RootIDs = []string{}
	for _, inst := range order {
		if inst.ParentID == "" {
			st.RootIDs = append(st.RootIDs, inst.ID)
			continue
		}
		parent, ok := st.Components[inst.ParentID]
		if !ok {
			return nil, fmt.Errorf("component %s: parent %s missing", inst.ID, inst.ParentID)
		}
		parent.Children = append(parent.Children, inst.ID)
	}
	return c, nil
}

func (s *CanvasStore) ListCanvases() ([]domain.CanvasSummary, error) {
	rows, err := s.db.Conn().Query(
		`SELECT c.id, c.name, c.updated_at,
		        (SELECT COUNT(*) FROM components WHERE canvas_id = c.id)
		 FROM canvases c ORDER BY c.updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CanvasSummary
	for rows.Next() {
		var cs domain.CanvasSummary
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.UpdatedAt, &cs.ComponentCount); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// SaveCanvas atomically replaces the stored tree and view settings.
func (s *CanvasStore) SaveCanvas(c *domain.Canvas) error {
	c.UpdatedAt = time.Now()
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	st := c.State
	res, err := tx.Exec(
		`UPDATE canvases SET name = ?, viewport_x = ?, viewport_y = ?, viewport_zoom = ?,
		        grid_enabled = ?, grid_cell = ?, grid_snap = ?, updated_at = ? WHERE id = ?`,
		c.Name, st.Viewport.PanX, st.Viewport.PanY, st.Viewport.Zoom,
		st.Grid.Enabled, st.Grid.CellSize, st.Grid.Snap, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update canvas: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{ID: c.ID}
	}
	if _, err := tx.Exec(`DELETE FROM components WHERE canvas_id = ?`, c.ID); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}
	if err := insertComponents(tx, c.ID, st); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *CanvasStore) CanvasUpdatedAt(id string) (time.Time, error) {
	var t time.Time
	err := s.db.Conn().QueryRow(`SELECT updated_at FROM canvases WHERE id = ?`, id).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return t, &domain.NotFoundError{ID: id}
	}
	return t, err
}

func (s *CanvasStore) RenameCanvas(id, name string) error {
	res, err := s.db.Conn().Exec(`UPDATE canvases SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("rename canvas: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}

// DeleteCanvas removes the canvas with its components and history.
func (s *CanvasStore) DeleteCanvas(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM components WHERE canvas_id = ?`,
		`DELETE FROM history_entries WHERE canvas_id = ?`,
		`DELETE FROM history_state WHERE canvas_id = ?`,
		`DELETE FROM canvases WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete canvas: %w", err)
		}
	}
	return tx.Commit()
}

func insertComponents(tx *sql.Tx, canvasID string, st *domain.CanvasState) error {
	var walk func(parentID string, ids []string) error
	walk = func(parentID string, ids []string) error {
		for i, id := range ids {
			inst, ok := st.Components[id]
			if !ok {
				return fmt.Errorf("insert component: %w", &domain.NotFoundError{ID: id})
			}
			props, pos, size, err := encodeComponent(inst)
			if err != nil {
				return fmt.Errorf("encode component %s: %w", id, err)
			}
			_, err = tx.Exec(
				`INSERT INTO components (id, canvas_id, parent_id, sort_order, type, props_json, position_json, size_json)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id, canvasID, parentID, i, inst.Type, props, pos, size,
			)
			if err != nil {
				return fmt.Errorf("insert component %s: %w", id, err)
			}
			if err := walk(id, inst.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk("", st.RootIDs)
}

func encodeComponent(c *domain.ComponentInstance) (props, pos, size string, err error) {
	p := c.Props
	if p == nil {
		p = map[string]any{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", "", "", err
	}
	props = string(b)
	if c.Position != nil {
		b, _ := json.Marshal(c.Position)
		pos = string(b)
	}
	if c.Size != nil {
		b, _ := json.Marshal(c.Size)
		size = string(b)
	}
	return props, pos, size, nil
}

func decodeComponent(c *domain.ComponentInstance, props, pos, size string) error {
	c.Props = map[string]any{}
	if props != "" {
		if err := json.Unmarshal([]byte(props), &c.Props); err != nil {
			return err
		}
	}
	if pos != "" {
		c.Position = &domain.Point{}
		if err := json.Unmarshal([]byte(pos), c.Position); err != nil {
			return err
		}
	}
	if size != "" {
		c.Size = &domain.Size{}
		if err := json.Unmarshal([]byte(size), c.Size); err != nil {
			return err
		}
	}
	return nil
}
