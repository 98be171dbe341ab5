package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

// shape strips ids so two subtrees can be compared structurally.
type shape struct {
	Type     string
	Props    map[string]any
	Children []shape
}

func shapeOf(s *domain.CanvasState, id string) shape {
	c := s.Get(id)
	out := shape{Type: c.Type, Props: c.Props}
	for _, ch := range c.Children {
		out.Children = append(out.Children, shapeOf(s, ch))
	}
	return out
}

func TestCopyPasteTwice(t *testing.T) {
	ed := editor.New()
	_, err := ed.Add("", domain.ComponentInstance{ID: "card", Type: "card", Props: map[string]any{"title": "Hi"}, Position: &domain.Point{X: 40, Y: 40}})
	require.NoError(t, err)
	add(t, ed, "card", "body", "text")
	add(t, ed, "body", "link", "link")
	status := ed.HistoryStatus()

	require.NoError(t, ed.Copy([]string{"card"}))
	assert.Equal(t, status, ed.HistoryStatus(), "copy does not record history")

	first, err := ed.Paste("")
	require.NoError(t, err)
	second, err := ed.Paste("")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, second, ed.Selection().Selected)

	st := ed.State()
	require.NoError(t, canvas.Check(st))
	original := canvas.Subtree(st, "card")
	p1 := canvas.Subtree(st, first[0])
	p2 := canvas.Subtree(st, second[0])
	seen := map[string]bool{}
	for _, set := range [][]string{original, p1, p2} {
		assert.Len(t, set, 3)
		for _, id := range set {
			assert.False(t, seen[id], "id %s shared between subtrees", id)
			seen[id] = true
		}
	}
	assert.Equal(t, shapeOf(st, "card"), shapeOf(st, first[0]))
	assert.Equal(t, shapeOf(st, "card"), shapeOf(st, second[0]))
	assert.Equal(t, domain.Point{X: 56, Y: 56}, *st.Get(first[0]).Position)
}

func TestCutIsOneHistoryStep(t *testing.T) {
	ed := editor.New()
	add(t, ed, "", "A", "section")
	add(t, ed, "A", "B", "text")
	add(t, ed, "", "C", "text")
	before := ed.State()
	past := ed.HistoryStatus().Past

	require.NoError(t, ed.Cut([]string{"A", "B", "C"}))
	assert.Empty(t, ed.State().Components)
	assert.Equal(t, past+1, ed.HistoryStatus().Past)
	clip := ed.Clipboard()
	require.NotNil(t, clip)
	assert.Equal(t, domain.ClipboardCut, clip.Mode)
	assert.Len(t, clip.Roots, 2)

	ok, _ := ed.Undo()
	require.True(t, ok)
	assert.Equal(t, before, ed.State())

	roots, err := ed.Paste("C")
	require.NoError(t, err)
	assert.Len(t, roots, 2)
	c, _ := ed.Component("C")
	assert.Equal(t, roots, c.Children)
}

func TestClipboardErrors(t *testing.T) {
	ed := editor.New()
	_, err := ed.Paste("")
	assert.ErrorIs(t, err, domain.ErrEmptyClipboard)
	assert.ErrorIs(t, ed.Copy(nil), domain.ErrEmptySelection)
	assert.True(t, domain.IsNotFound(ed.Cut([]string{"nope"})))

	add(t, ed, "", "A", "text")
	require.NoError(t, ed.Copy([]string{"A"}))
	_, err = ed.Paste("ghost")
	assert.True(t, domain.IsNotFound(err))

	ed.ClearClipboard()
	assert.Nil(t, ed.Clipboard())
}
