package dragdrop_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/dragdrop"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/input"
)

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

type fixture struct {
	ed     *editor.Editor
	bridge *dragdrop.Bridge
	ctl    *dragdrop.Controller
	log    []dragdrop.ZoneStatus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ed: editor.New(), bridge: dragdrop.NewBridge()}
	f.ctl = dragdrop.NewController(f.bridge, f.ed)
	f.ctl.OnChange(func(st dragdrop.ZoneStatus) { f.log = append(f.log, st) })
	return f
}

func (f *fixture) register(t *testing.T, id string, cfg dragdrop.ZoneConfig) {
	t.Helper()
	_, err := f.ctl.Register(id, cfg)
	require.NoError(t, err)
}

func (f *fixture) state(t *testing.T, id string) dragdrop.ZoneState {
	t.Helper()
	st, ok := f.ctl.Status(id)
	require.True(t, ok)
	return st.State
}

func (f *fixture) statesOf(id string) []dragdrop.ZoneState {
	var out []dragdrop.ZoneState
	for _, st := range f.log {
		if st.ZoneID == id {
			out = append(out, st.State)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────
// Zone state machine
// ─────────────────────────────────────────────────────────────

func TestDrop_PaletteInsertWalksStates(t *testing.T) {
	f := newFixture(t)
	f.register(t, "buttons", dragdrop.ZoneConfig{Accepts: []string{"button"}, Index: -1, Label: "Button bar"})
	f.register(t, "any", dragdrop.ZoneConfig{Index: -1})

	assert.Equal(t, dragdrop.ZoneIdle, f.state(t, "buttons"))

	f.bridge.Begin(domain.DragData{Type: "button", Payload: map[string]any{"props": map[string]any{"name": "Save"}}})
	require.NoError(t, f.ctl.Start())
	assert.Equal(t, dragdrop.ZonePotential, f.state(t, "buttons"))
	assert.Equal(t, dragdrop.ZonePotential, f.state(t, "any"))

	f.bridge.PointerOver("buttons")
	hit, ok := f.ctl.Over()
	require.True(t, ok)
	assert.Equal(t, "buttons", hit)

	st, _ := f.ctl.Status("buttons")
	assert.Equal(t, dragdrop.ZoneActive, st.State)
	assert.True(t, st.Valid)
	assert.Equal(t, "region", st.Role)
	assert.Equal(t, "Button bar", st.AriaLabel)
	assert.Equal(t, "copy", st.DropEffect)
	assert.Equal(t, dragdrop.ZonePotential, f.state(t, "any"))

	res, err := f.ctl.Drop()
	require.NoError(t, err)
	assert.True(t, res.Dropped)
	assert.Equal(t, "buttons", res.ZoneID)
	require.Len(t, res.IDs, 1)

	assert.Equal(t, []dragdrop.ZoneState{
		dragdrop.ZonePotential, dragdrop.ZoneActive, dragdrop.ZoneDropping, dragdrop.ZoneIdle,
	}, f.statesOf("buttons"))
	assert.Equal(t, dragdrop.ZoneIdle, f.state(t, "any"))

	comp, ok := f.ed.Component(res.IDs[0])
	require.True(t, ok)
	assert.Equal(t, "Save", comp.Label())
	assert.Equal(t, res.IDs, f.ed.Selection().Selected)

	status := f.ed.HistoryStatus()
	assert.Equal(t, 1, status.Past)
	assert.Equal(t, "drop button", status.UndoLabel)

	_, active := f.ed.ActiveSession()
	assert.False(t, active)
}

func TestDrop_InvalidZoneDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "buttons", dragdrop.ZoneConfig{Accepts: []string{"button"}, Index: -1})

	f.bridge.Begin(domain.DragData{Type: "image"})
	require.NoError(t, f.ctl.Start())
	f.bridge.PointerOver("buttons")
	f.ctl.Over()

	st, _ := f.ctl.Status("buttons")
	assert.Equal(t, dragdrop.ZoneInvalid, st.State)
	assert.False(t, st.Valid)
	assert.Contains(t, st.Reason, "image")
	assert.Equal(t, "none", st.DropEffect)

	res, err := f.ctl.Drop()
	require.NoError(t, err)
	assert.False(t, res.Dropped)
	assert.Empty(t, f.ed.State().Components)
	assert.Equal(t, 0, f.ed.HistoryStatus().Past)
	assert.Equal(t, dragdrop.ZoneIdle, f.state(t, "buttons"))
}

func TestDrop_OffEveryZoneCancels(t *testing.T) {
	f := newFixture(t)
	f.register(t, "z", dragdrop.ZoneConfig{Index: -1})

	f.bridge.Begin(domain.DragData{Type: "text"})
	require.NoError(t, f.ctl.Start())
	f.bridge.PointerOver("z")
	f.ctl.Over()
	f.bridge.PointerOver("")

	res, err := f.ctl.Drop()
	require.NoError(t, err)
	assert.False(t, res.Dropped)
	assert.Empty(t, f.ed.State().Components)

	_, err = f.ctl.Drop()
	assert.ErrorIs(t, err, dragdrop.ErrNoDrag)
}

func TestValidator_RunsOnEveryOver(t *testing.T) {
	f := newFixture(t)
	calls := 0
	allow := false
	f.register(t, "z", dragdrop.ZoneConfig{Index: -1, Validate: func(domain.DragData) domain.DropValidation {
		calls++
		if !allow {
			return domain.Reject("container is full")
		}
		return domain.Accept()
	}})

	f.bridge.Begin(domain.DragData{Type: "text"})
	require.NoError(t, f.ctl.Start())
	f.bridge.PointerOver("z")
	f.ctl.Over()
	st, _ := f.ctl.Status("z")
	assert.Equal(t, "container is full", st.Reason)

	allow = true
	f.ctl.Over()
	assert.Equal(t, 2, calls)
	assert.Equal(t, dragdrop.ZoneActive, f.state(t, "z"))
	f.ctl.Cancel()
	assert.Equal(t, dragdrop.ZoneIdle, f.state(t, "z"))
}

// ─────────────────────────────────────────────────────────────
// Moving existing components
// ─────────────────────────────────────────────────────────────

func TestDrop_MovesExistingComponents(t *testing.T) {
	f := newFixture(t)
	section, err := f.ed.Add("", domain.ComponentInstance{Type: "section"})
	require.NoError(t, err)
	first, err := f.ed.Add(section, domain.ComponentInstance{Type: "text"})
	require.NoError(t, err)
	loose, err := f.ed.Add("", domain.ComponentInstance{Type: "button"})
	require.NoError(t, err)

	f.register(t, "section-top", dragdrop.ZoneConfig{ParentID: section, Index: 0})
	f.bridge.Begin(domain.DragData{Type: "button", SourceIDs: []string{loose}})
	require.NoError(t, f.ctl.Start())
	f.bridge.PointerOver("section-top")
	f.ctl.Over()
	st, _ := f.ctl.Status("section-top")
	assert.Equal(t, "move", st.DropEffect)

	res, err := f.ctl.Drop()
	require.NoError(t, err)
	require.True(t, res.Dropped)

	comp, _ := f.ed.Component(section)
	assert.Equal(t, []string{loose, first}, comp.Children)
	assert.Equal(t, []string{section}, f.ed.State().RootIDs)

	ok, err := f.ed.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{section, loose}, f.ed.State().RootIDs)
}

func TestDrop_CycleGuardMarksInvalid(t *testing.T) {
	f := newFixture(t)
	outer, _ := f.ed.Add("", domain.ComponentInstance{Type: "section"})
	inner, _ := f.ed.Add(outer, domain.ComponentInstance{Type: "column"})

	f.register(t, "inner", dragdrop.ZoneConfig{ParentID: inner, Index: -1})
	f.bridge.Begin(domain.DragData{Type: "section", SourceIDs: []string{outer}})
	require.NoError(t, f.ctl.Start())
	f.bridge.PointerOver("inner")
	f.ctl.Over()

	st, _ := f.ctl.Status("inner")
	assert.Equal(t, dragdrop.ZoneInvalid, st.State)
	assert.Equal(t, "cannot drop a component into itself", st.Reason)

	res, err := f.ctl.Drop()
	require.NoError(t, err)
	assert.False(t, res.Dropped)
	comp, _ := f.ed.Component(inner)
	assert.Equal(t, outer, comp.ParentID)
}

// ─────────────────────────────────────────────────────────────
// Sessions and registry
// ─────────────────────────────────────────────────────────────

func TestStart_RejectedDuringKeyboardDrag(t *testing.T) {
	f := newFixture(t)
	release, err := f.ed.BeginSession(editor.SessionKeyboardDrag)
	require.NoError(t, err)
	defer release()

	f.bridge.Begin(domain.DragData{Type: "text"})
	err = f.ctl.Start()
	var se *domain.SessionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, string(editor.SessionKeyboardDrag), se.Active)

	_, active := f.ctl.Active()
	assert.False(t, active)
}

func TestStart_NeedsPayload(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctl.Start(), dragdrop.ErrNoDrag)
}

func TestRegister_DuplicateAndUnregister(t *testing.T) {
	f := newFixture(t)
	unregister, err := f.ctl.Register("z", dragdrop.ZoneConfig{})
	require.NoError(t, err)

	_, err = f.ctl.Register("z", dragdrop.ZoneConfig{})
	assert.ErrorIs(t, err, dragdrop.ErrZoneExists)

	f.bridge.Begin(domain.DragData{Type: "text"})
	f.bridge.PointerOver("z")
	assert.True(t, f.bridge.IsOver("z"))

	unregister()
	unregister()
	_, ok := f.ctl.Status("z")
	assert.False(t, ok)
	assert.False(t, f.bridge.IsOver("z"))
}

func TestRegister_MidDragStartsPotential(t *testing.T) {
	f := newFixture(t)
	f.bridge.Begin(domain.DragData{Type: "text"})
	require.NoError(t, f.ctl.Start())
	defer f.ctl.Cancel()

	f.register(t, "late", dragdrop.ZoneConfig{})
	assert.Equal(t, dragdrop.ZonePotential, f.state(t, "late"))
}

// ─────────────────────────────────────────────────────────────
// Session exits from the input stream
// ─────────────────────────────────────────────────────────────

func TestSession_EndsOnAbortEvents(t *testing.T) {
	cases := []struct {
		name string
		ev   input.Event
	}{
		{"escape", input.Event{Kind: input.KeyDown, Key: "Escape"}},
		{"pointer cancel", input.Event{Kind: input.PointerCancel}},
		{"lost capture", input.Event{Kind: input.LostCapture}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			bus := input.NewBus()
			f.ctl.Listen(bus)
			f.register(t, "any", dragdrop.ZoneConfig{Index: -1})

			f.bridge.Begin(domain.DragData{Type: "text"})
			require.NoError(t, f.ctl.Start())
			f.bridge.PointerOver("any")
			f.ctl.Over()
			require.Equal(t, dragdrop.ZoneActive, f.state(t, "any"))

			assert.True(t, bus.Dispatch(tc.ev))

			_, active := f.ctl.Active()
			assert.False(t, active)
			assert.Equal(t, dragdrop.ZoneIdle, f.state(t, "any"))
			_, carrying := f.bridge.Payload()
			assert.False(t, carrying)
			assert.Empty(t, f.ed.State().RootIDs)

			// Listeners are released and the session slot is free again.
			assert.Zero(t, bus.Count(input.KeyDown))
			assert.Zero(t, bus.Count(input.LostCapture))
			release, err := f.ed.BeginSession(editor.SessionKeyboardDrag)
			require.NoError(t, err)
			release()
		})
	}
}

func TestSession_OtherKeysKeepDragging(t *testing.T) {
	f := newFixture(t)
	bus := input.NewBus()
	f.ctl.Listen(bus)
	f.bridge.Begin(domain.DragData{Type: "text"})
	require.NoError(t, f.ctl.Start())
	defer f.ctl.Cancel()

	bus.Dispatch(input.Event{Kind: input.KeyDown, Key: "ArrowLeft"})
	_, active := f.ctl.Active()
	assert.True(t, active)
}

func TestValidator_MayQueryController(t *testing.T) {
	f := newFixture(t)
	seen := 0
	f.register(t, "z", dragdrop.ZoneConfig{
		Validate: func(domain.DragData) domain.DropValidation {
			seen = len(f.ctl.Statuses())
			return domain.Accept()
		},
	})
	f.bridge.Begin(domain.DragData{Type: "text"})
	require.NoError(t, f.ctl.Start())
	defer f.ctl.Cancel()

	f.bridge.PointerOver("z")
	hit, ok := f.ctl.Over()
	require.True(t, ok)
	assert.Equal(t, "z", hit)
	assert.Equal(t, 1, seen)
	assert.Equal(t, dragdrop.ZoneActive, f.state(t, "z"))
}
