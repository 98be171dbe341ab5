package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// Canvas Service: opening, saving and autosaving documents
// ─────────────────────────────────────────────────────────────

const settingLastCanvas = "last_canvas"

// Settings is the key-value store for app preferences.
type Settings interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// CanvasService binds one editor to the stored canvases. The editor holds
// the open document; the service loads it, writes it back and keeps the
// undo timeline alongside it.
type CanvasService struct {
	canvases domain.CanvasStore
	history  domain.HistoryStore
	settings Settings
	editor   *editor.Editor
	emitter  EventEmitter

	mu          sync.Mutex
	ctx         context.Context
	current     *domain.CanvasSummary
	dirty       bool
	saving      saveGuard
	cronSched   *cron.Cron
	unsubscribe func()
}

// NewCanvasService creates a CanvasService and starts tracking editor changes.
func NewCanvasService(
	canvases domain.CanvasStore,
	history domain.HistoryStore,
	settings Settings,
	ed *editor.Editor,
	emitter EventEmitter,
) *CanvasService {
	s := &CanvasService{
		canvases: canvases,
		history:  history,
		settings: settings,
		editor:   ed,
		emitter:  emitter,
		ctx:      context.Background(),
	}
	s.unsubscribe = ed.Subscribe(s.onChange)
	return s
}

// SetContext sets the context passed to the emitter.
func (s *CanvasService) SetContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *CanvasService) onChange(c editor.Change) {
	s.mu.Lock()
	switch c.Kind {
	case editor.ChangeTree, editor.ChangeHistory, editor.ChangeViewport:
		s.dirty = s.current != nil
	}
	ctx := s.ctx
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventCanvasChanged, c)
}

// Editor returns the editor bound to the open canvas.
func (s *CanvasService) Editor() *editor.Editor {
	return s.editor
}

// Current returns the open canvas, if any.
func (s *CanvasService) Current() (domain.CanvasSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.CanvasSummary{}, false
	}
	cur := *s.current
	cur.ComponentCount = len(s.editor.State().Components)
	return cur, true
}

// Dirty reports whether the open canvas has unsaved changes.
func (s *CanvasService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// ── Documents ──────────────────────────────────────────────

func (s *CanvasService) ListCanvases() ([]domain.CanvasSummary, error) {
	return s.canvases.ListCanvases()
}

// CreateCanvas stores an empty canvas using the editor's grid and opens it.
func (s *CanvasService) CreateCanvas(name string) (*domain.CanvasSummary, error) {
	if name == "" {
		name = "Untitled"
	}
	c := &domain.Canvas{
		ID:    uuid.New().String(),
		Name:  name,
		State: domain.NewCanvasState(s.editor.Grid()),
	}
	if err := s.canvases.CreateCanvas(c); err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	if err := s.OpenCanvas(c.ID); err != nil {
		return nil, err
	}
	cur, _ := s.Current()
	return &cur, nil
}

// OpenCanvas saves pending changes of the open canvas, then loads id and
// its undo timeline into the editor.
func (s *CanvasService) OpenCanvas(id string) error {
	if s.Dirty() {
		if err := s.save(SaveSwitch); err != nil {
			log.Printf("[CANVAS] save before switching failed: %v", err)
		}
	}

	c, err := s.canvases.GetCanvas(id)
	if err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}
	tl, err := s.history.LoadTimeline(id)
	if err != nil {
		log.Printf("[CANVAS] history for %s unreadable, starting fresh: %v", id, err)
		tl = nil
	}
	if err := s.editor.Load(c.State, tl); err != nil {
		if tl == nil {
			return fmt.Errorf("open canvas: %w", err)
		}
		log.Printf("[CANVAS] stored history for %s rejected, starting fresh: %v", id, err)
		if err := s.editor.Load(c.State, nil); err != nil {
			return fmt.Errorf("open canvas: %w", err)
		}
	}

	s.mu.Lock()
	s.current = &domain.CanvasSummary{ID: c.ID, Name: c.Name, UpdatedAt: c.UpdatedAt}
	s.dirty = false
	ctx := s.ctx
	s.mu.Unlock()

	if err := s.settings.Set(settingLastCanvas, id); err != nil {
		log.Printf("[CANVAS] remember last canvas: %v", err)
	}
	log.Printf("[CANVAS] opened %s (%d components)", c.Name, len(c.State.Components))
	s.emitter.Emit(ctx, EventCanvasOpened, id)
	return nil
}

// OpenLast reopens the canvas used last time, falling back to the most
// recently updated one, or a new empty canvas.
func (s *CanvasService) OpenLast() error {
	if id, ok, err := s.settings.Get(settingLastCanvas); err == nil && ok {
		err := s.OpenCanvas(id)
		if err == nil {
			return nil
		}
		if !domain.IsNotFound(err) {
			return err
		}
	}
	list, err := s.canvases.ListCanvases()
	if err != nil {
		return fmt.Errorf("list canvases: %w", err)
	}
	if len(list) > 0 {
		return s.OpenCanvas(list[0].ID)
	}
	_, err = s.CreateCanvas("Untitled")
	return err
}

// Save writes the open canvas and its timeline. A save already running for
// the same canvas makes this call a no-op.
func (s *CanvasService) Save() error {
	return s.save(SaveManual)
}

// Saving reports what is saving canvasID right now.
func (s *CanvasService) Saving(canvasID string) (SaveReason, bool) {
	return s.saving.Holder(canvasID)
}

func (s *CanvasService) save(reason SaveReason) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return errors.New("save: no canvas open")
	}
	cur := *s.current
	s.mu.Unlock()

	if held, ok := s.saving.TryLock(cur.ID, reason); !ok {
		log.Printf("[CANVAS] %s save of %s skipped: %s save running", reason, cur.ID, held)
		return nil
	}
	defer s.saving.Unlock(cur.ID)

	s.mu.Lock()
	s.dirty = false
	ctx := s.ctx
	s.mu.Unlock()

	c := &domain.Canvas{ID: cur.ID, Name: cur.Name, State: s.editor.State()}
	tl := s.editor.Timeline()
	err := s.canvases.SaveCanvas(c)
	if err == nil {
		err = s.history.SaveTimeline(cur.ID, tl)
	}
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("save canvas %s: %w", cur.ID, err)
	}
	s.mu.Lock()
	if s.current != nil && s.current.ID == cur.ID {
		s.current.UpdatedAt = c.UpdatedAt
	}
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventCanvasSaved, cur.ID)
	return nil
}

// ReloadIfChanged reopens the open canvas when another process saved it
// after it was loaded. Unsaved local edits are kept and nothing is reloaded.
func (s *CanvasService) ReloadIfChanged() (bool, error) {
	s.mu.Lock()
	cur := s.current
	dirty := s.dirty
	ctx := s.ctx
	s.mu.Unlock()
	if cur == nil || dirty {
		return false, nil
	}
	stamp, err := s.canvases.CanvasUpdatedAt(cur.ID)
	if err != nil {
		return false, err
	}
	if !stamp.After(cur.UpdatedAt) {
		return false, nil
	}
	log.Printf("[CANVAS] %s changed on disk, reloading", cur.Name)
	if err := s.OpenCanvas(cur.ID); err != nil {
		return false, err
	}
	s.emitter.Emit(ctx, EventCanvasReloaded, cur.ID)
	return true, nil
}

func (s *CanvasService) RenameCanvas(id, name string) error {
	if err := s.canvases.RenameCanvas(id, name); err != nil {
		return fmt.Errorf("rename canvas: %w", err)
	}
	stamp, stampErr := s.canvases.CanvasUpdatedAt(id)
	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current.Name = name
		if stampErr == nil {
			s.current.UpdatedAt = stamp
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteCanvas removes id. Deleting the open canvas opens another one.
func (s *CanvasService) DeleteCanvas(id string) error {
	if err := s.canvases.DeleteCanvas(id); err != nil {
		return fmt.Errorf("delete canvas: %w", err)
	}
	s.mu.Lock()
	wasOpen := s.current != nil && s.current.ID == id
	if wasOpen {
		s.current = nil
		s.dirty = false
	}
	s.mu.Unlock()
	if wasOpen {
		return s.OpenLast()
	}
	return nil
}

// ── Autosave ───────────────────────────────────────────────

// StartAutosave saves the open canvas on schedule whenever it is dirty.
// An empty schedule only stops the previous one.
func (s *CanvasService) StartAutosave(schedule string) error {
	s.StopAutosave()
	if schedule == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if !s.Dirty() {
			return
		}
		if err := s.save(SaveAutosave); err != nil {
			log.Printf("[AUTOSAVE] %v", err)
			return
		}
		log.Printf("[AUTOSAVE] saved")
	})
	if err != nil {
		return fmt.Errorf("autosave: invalid schedule %q: %w", schedule, err)
	}
	c.Start()
	s.mu.Lock()
	s.cronSched = c
	s.mu.Unlock()
	return nil
}

func (s *CanvasService) StopAutosave() {
	s.mu.Lock()
	c := s.cronSched
	s.cronSched = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Shutdown stops autosave, flushes pending changes and waits for saves.
func (s *CanvasService) Shutdown(ctx context.Context) {
	s.StopAutosave()
	if s.Dirty() {
		if err := s.save(SaveShutdown); err != nil {
			log.Printf("[CANVAS] final save failed: %v", err)
		}
	}
	s.saving.WaitAll(ctx)
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
