package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/input"
	"pagebuilder/internal/keyboard"
)

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

func key(k string) input.Event { return input.Event{Kind: input.KeyDown, Key: k} }

func shift(k string) input.Event {
	ev := key(k)
	ev.Modifiers.Shift = true
	return ev
}

func alt(k string) input.Event {
	ev := key(k)
	ev.Modifiers.Alt = true
	return ev
}

func ctrl(k string) input.Event {
	ev := key(k)
	ev.Modifiers.Ctrl = true
	return ev
}

func setup(t *testing.T, grid domain.GridConfig, types ...string) (*editor.Editor, []string, *keyboard.Controller, *keyboard.Recorder) {
	t.Helper()
	ed := editor.New(editor.WithGrid(grid))
	var ids []string
	for _, typ := range types {
		id, err := ed.Add("", domain.ComponentInstance{Type: typ, Position: &domain.Point{}})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	rec := &keyboard.Recorder{}
	return ed, ids, keyboard.NewController(ed, rec), rec
}

var freeGrid = domain.GridConfig{Enabled: false, CellSize: 8}

// ─────────────────────────────────────────────────────────────
// Focus traversal
// ─────────────────────────────────────────────────────────────

func TestTab_CyclesAndWraps(t *testing.T) {
	ed, ids, kb, rec := setup(t, freeGrid, "heading", "button")

	assert.True(t, kb.HandleKey(key("Tab")))
	assert.Equal(t, ids[0], ed.Selection().Focused)
	assert.Equal(t, "Focused heading, 1 of 2", rec.Last())

	kb.HandleKey(key("Tab"))
	kb.HandleKey(key("Tab"))
	assert.Equal(t, ids[0], ed.Selection().Focused, "forward wraps")

	kb.HandleKey(shift("Tab"))
	assert.Equal(t, ids[1], ed.Selection().Focused, "backward wraps")
	assert.Equal(t, "Focused button, 2 of 2", rec.Last())
}

func TestTab_NoComponentsIsAnnouncedNoop(t *testing.T) {
	_, _, kb, rec := setup(t, freeGrid)
	assert.True(t, kb.HandleKey(key("Tab")))
	assert.Equal(t, "No components to focus", rec.Last())
}

// ─────────────────────────────────────────────────────────────
// Grab, move, drop
// ─────────────────────────────────────────────────────────────

func TestGrab_MoveAndCommit(t *testing.T) {
	ed, ids, kb, rec := setup(t, freeGrid, "box")
	pastBefore := ed.HistoryStatus().Past

	kb.HandleKey(key("Tab"))
	kb.HandleKey(key(" "))
	require.Equal(t, keyboard.ModeGrab, kb.Mode())
	assert.Contains(t, rec.Last(), "Picked up box")

	_, err := ed.Undo()
	assert.ErrorIs(t, err, domain.ErrSessionActive)

	kb.HandleKey(key("ArrowRight"))
	kb.HandleKey(key("ArrowRight"))
	kb.HandleKey(alt("ArrowDown"))
	_, pos, ok := kb.Grabbed()
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 20, Y: 1}, pos)
	assert.Equal(t, "box at 20, 1", rec.Last())

	comp, _ := ed.Component(ids[0])
	assert.Equal(t, domain.Point{}, *comp.Position, "tree untouched before drop")

	kb.HandleKey(key("Enter"))
	assert.Equal(t, keyboard.ModeOff, kb.Mode())
	assert.Equal(t, "Dropped box at 20, 1", rec.Last())

	comp, _ = ed.Component(ids[0])
	assert.Equal(t, domain.Point{X: 20, Y: 1}, *comp.Position)
	status := ed.HistoryStatus()
	assert.Equal(t, pastBefore+1, status.Past)
	assert.Equal(t, "move box", status.UndoLabel)

	_, active := ed.ActiveSession()
	assert.False(t, active)
}

func TestGrab_EscapeRestores(t *testing.T) {
	ed, ids, kb, rec := setup(t, freeGrid, "box")
	before := ed.HistoryStatus()

	kb.HandleKey(key("Tab"))
	kb.HandleKey(key("Enter"))
	kb.HandleKey(key("ArrowUp"))
	kb.HandleKey(key("Escape"))

	assert.Equal(t, keyboard.ModeOff, kb.Mode())
	assert.Equal(t, "Move cancelled. box returned to 0, 0", rec.Last())
	comp, _ := ed.Component(ids[0])
	assert.Equal(t, domain.Point{}, *comp.Position)
	assert.Equal(t, before, ed.HistoryStatus())
}

func TestGrab_DropWithoutMovingRecordsNothing(t *testing.T) {
	ed, _, kb, rec := setup(t, freeGrid, "box")
	before := ed.HistoryStatus()

	kb.HandleKey(key("Tab"))
	kb.HandleKey(key(" "))
	kb.HandleKey(key(" "))
	assert.Equal(t, "Dropped box. Position unchanged", rec.Last())
	assert.Equal(t, before, ed.HistoryStatus())
}

func TestGrab_GridAccumulatesAcrossReversal(t *testing.T) {
	_, _, kb, _ := setup(t, domain.GridConfig{Enabled: true, CellSize: 8, Snap: true}, "box")
	kb.HandleKey(key("Tab"))
	kb.HandleKey(key(" "))

	pos := func() domain.Point {
		_, p, _ := kb.Grabbed()
		return p
	}

	kb.HandleKey(key("ArrowRight"))
	assert.Equal(t, 8.0, pos().X)
	kb.HandleKey(key("ArrowRight"))
	assert.Equal(t, 16.0, pos().X, "residual 2 + 10 crosses one more cell")
	kb.HandleKey(key("ArrowLeft"))
	assert.Equal(t, 16.0, pos().X, "residual carries over on reversal")
	kb.HandleKey(key("ArrowLeft"))
	assert.Equal(t, 0.0, pos().X)

	for i := 0; i < 7; i++ {
		kb.HandleKey(alt("ArrowDown"))
	}
	assert.Equal(t, 0.0, pos().Y, "fine steps below one cell are held")
	kb.HandleKey(alt("ArrowDown"))
	assert.Equal(t, 8.0, pos().Y)

	kb.HandleKey(key("Enter"))
}

func TestGrab_FineStepsOnGridAnnouncePending(t *testing.T) {
	_, _, kb, rec := setup(t, domain.GridConfig{Enabled: true, CellSize: 8, Snap: true}, "box")
	kb.HandleKey(key("Tab"))
	kb.HandleKey(key(" "))
	picked := len(rec.Messages())

	kb.HandleKey(alt("ArrowRight"))
	_, p, _ := kb.Grabbed()
	assert.Equal(t, domain.Point{}, p)
	require.Len(t, rec.Messages(), picked+1, "a held step still speaks")
	assert.Equal(t, "box moving, 1, 0 pending", rec.Last())

	kb.HandleKey(alt("ArrowLeft"))
	assert.Len(t, rec.Messages(), picked+1, "back to zero has nothing pending")

	kb.HandleKey(key("Escape"))
}

func TestGrab_NothingFocused(t *testing.T) {
	_, _, kb, rec := setup(t, freeGrid, "box")
	assert.True(t, kb.HandleKey(key(" ")))
	assert.Equal(t, keyboard.ModeOff, kb.Mode())
	assert.Equal(t, "Nothing focused to pick up", rec.Last())
}

func TestGrab_RejectedDuringResize(t *testing.T) {
	ed, _, kb, rec := setup(t, freeGrid, "box")
	kb.HandleKey(key("Tab"))

	release, err := ed.BeginSession(editor.SessionResize)
	require.NoError(t, err)
	defer release()

	kb.HandleKey(key(" "))
	assert.Equal(t, keyboard.ModeOff, kb.Mode())
	assert.Contains(t, rec.Last(), "Cannot pick up box")
}

func TestWithSteps(t *testing.T) {
	ed, _, _, _ := setup(t, freeGrid, "box")
	kb := keyboard.NewController(ed, nil, keyboard.WithSteps(25, 5))
	kb.HandleKey(key("Tab"))
	kb.HandleKey(key(" "))
	kb.HandleKey(key("ArrowRight"))
	kb.HandleKey(alt("ArrowRight"))
	_, pos, _ := kb.Grabbed()
	assert.Equal(t, 30.0, pos.X)
	kb.Cancel()
	assert.Equal(t, keyboard.ModeOff, kb.Mode())
}

// ─────────────────────────────────────────────────────────────
// Shortcuts
// ─────────────────────────────────────────────────────────────

func TestResolve(t *testing.T) {
	meta := key("z")
	meta.Modifiers.Meta = true
	redoShift := ctrl("Z")
	redoShift.Modifiers.Shift = true

	cases := []struct {
		ev   input.Event
		want keyboard.Action
		ok   bool
	}{
		{ctrl("z"), keyboard.ActionUndo, true},
		{meta, keyboard.ActionUndo, true},
		{redoShift, keyboard.ActionRedo, true},
		{ctrl("y"), keyboard.ActionRedo, true},
		{ctrl("c"), keyboard.ActionCopy, true},
		{ctrl("x"), keyboard.ActionCut, true},
		{ctrl("v"), keyboard.ActionPaste, true},
		{ctrl("d"), keyboard.ActionDuplicate, true},
		{ctrl("a"), keyboard.ActionSelectAll, true},
		{key("Delete"), keyboard.ActionDelete, true},
		{key("Backspace"), keyboard.ActionDelete, true},
		{key("Escape"), keyboard.ActionClearSelection, true},
		{key("z"), "", false},
		{ctrl("q"), "", false},
	}
	for _, tc := range cases {
		got, ok := keyboard.Resolve(tc.ev)
		assert.Equal(t, tc.ok, ok, "%+v", tc.ev)
		assert.Equal(t, tc.want, got, "%+v", tc.ev)
	}
}

func TestDispatcher_ClipboardAndHistory(t *testing.T) {
	ed, ids, kb, rec := setup(t, freeGrid, "card")
	d := keyboard.NewDispatcher(ed, kb, rec)
	require.NoError(t, ed.Select(ids[0], domain.SelectReplace))

	handled, err := d.HandleKey(ctrl("c"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Copied 1 component", rec.Last())

	_, err = d.HandleKey(ctrl("v"))
	require.NoError(t, err)
	assert.Equal(t, "Pasted 1 component", rec.Last())
	assert.Len(t, ed.State().RootIDs, 2)

	_, err = d.HandleKey(ctrl("z"))
	require.NoError(t, err)
	assert.Equal(t, "Undid paste", rec.Last())
	assert.Len(t, ed.State().RootIDs, 1)

	_, err = d.HandleKey(ctrl("y"))
	require.NoError(t, err)
	assert.Equal(t, "Redid paste", rec.Last())
	assert.Len(t, ed.State().RootIDs, 2)

	_, err = d.HandleKey(ctrl("a"))
	require.NoError(t, err)
	assert.Equal(t, "Selected 2 components", rec.Last())

	_, err = d.HandleKey(key("Delete"))
	require.NoError(t, err)
	assert.Equal(t, "Deleted 2 components", rec.Last())
	assert.Empty(t, ed.State().RootIDs)
}

func TestDispatcher_EmptyStates(t *testing.T) {
	ed, _, _, rec := setup(t, freeGrid)
	d := keyboard.NewDispatcher(ed, nil, rec)

	require.NoError(t, d.Run(keyboard.ActionUndo))
	assert.Equal(t, "Nothing to undo", rec.Last())
	require.NoError(t, d.Run(keyboard.ActionCopy))
	assert.Equal(t, "Nothing selected", rec.Last())
	require.NoError(t, d.Run(keyboard.ActionPaste))
	assert.Equal(t, "Clipboard is empty", rec.Last())
	require.NoError(t, d.Run(keyboard.ActionDuplicate))
	assert.Equal(t, "Nothing selected", rec.Last())
}

func TestDispatcher_DuplicateAndEscape(t *testing.T) {
	ed, ids, kb, rec := setup(t, freeGrid, "card")
	d := keyboard.NewDispatcher(ed, kb, rec)
	require.NoError(t, ed.Select(ids[0], domain.SelectReplace))

	_, err := d.HandleKey(ctrl("d"))
	require.NoError(t, err)
	assert.Equal(t, "Duplicated card", rec.Last())
	assert.Len(t, ed.State().RootIDs, 2)

	_, err = d.HandleKey(key("Escape"))
	require.NoError(t, err)
	assert.Empty(t, ed.Selection().Selected)
	assert.Equal(t, "Selection cleared", rec.Last())
}

func TestDispatcher_GrabSuppressesShortcuts(t *testing.T) {
	ed, _, kb, rec := setup(t, freeGrid, "card")
	d := keyboard.NewDispatcher(ed, kb, rec)

	d.HandleKey(key("Tab"))
	d.HandleKey(key(" "))
	require.Equal(t, keyboard.ModeGrab, kb.Mode())

	handled, err := d.HandleKey(ctrl("z"))
	require.NoError(t, err)
	assert.False(t, handled)

	handled, _ = d.HandleKey(key("Escape"))
	assert.True(t, handled)
	assert.Equal(t, keyboard.ModeOff, kb.Mode())
	assert.Contains(t, rec.Last(), "Move cancelled")
}
