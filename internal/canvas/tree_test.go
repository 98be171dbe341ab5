package canvas_test

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
)

func seqIDs(prefix string) canvas.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newState() *domain.CanvasState {
	return domain.NewCanvasState(domain.GridConfig{})
}

func mustAdd(t *testing.T, s *domain.CanvasState, parent, id, typ string) {
	t.Helper()
	if _, err := canvas.Add(s, parent, domain.ComponentInstance{ID: id, Type: typ}, canvas.NewID); err != nil {
		t.Fatalf("add %s: %v", id, err)
	}
}

func TestAdd_RootAndChild(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "A", "section")
	mustAdd(t, s, "A", "B", "button")
	mustAdd(t, s, "A", "C", "text")

	if !reflect.DeepEqual(s.RootIDs, []string{"A"}) {
		t.Fatalf("roots = %v", s.RootIDs)
	}
	if got := s.Get("A").Children; !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("children of A = %v", got)
	}
	if s.Get("C").ParentID != "A" {
		t.Errorf("expected C parent A, got %q", s.Get("C").ParentID)
	}
	if err := canvas.Check(s); err != nil {
		t.Fatal(err)
	}
}

func TestAdd_UnknownParent(t *testing.T) {
	s := newState()
	_, err := canvas.Add(s, "missing", domain.ComponentInstance{Type: "text"}, canvas.NewID)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" {
		t.Fatalf("expected NotFoundError for missing, got %v", err)
	}
	if len(s.Components) != 0 {
		t.Errorf("tree changed on failed add")
	}
}

func TestAdd_GeneratesIDAndRejectsDuplicate(t *testing.T) {
	s := newState()
	id, err := canvas.Add(s, "", domain.ComponentInstance{Type: "text"}, seqIDs("n"))
	if err != nil || id != "n1" {
		t.Fatalf("expected generated id n1, got %q (%v)", id, err)
	}
	_, err = canvas.Add(s, "", domain.ComponentInstance{ID: "n1", Type: "text"}, canvas.NewID)
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	s := newState()
	if _, err := canvas.Add(s, "", domain.ComponentInstance{ID: "A", Type: "text", Props: map[string]any{"text": "hi", "color": "red"}}, canvas.NewID); err != nil {
		t.Fatal(err)
	}
	typ := "heading"
	err := canvas.Update(s, "A", domain.Patch{
		Type:     &typ,
		Props:    map[string]any{"text": "hello", "color": nil, "level": 2},
		Position: &domain.Point{X: 5, Y: 6},
	})
	if err != nil {
		t.Fatal(err)
	}
	a := s.Get("A")
	want := map[string]any{"text": "hello", "level": 2}
	if !reflect.DeepEqual(a.Props, want) {
		t.Errorf("props = %v, want %v", a.Props, want)
	}
	if a.Type != "heading" || a.Position == nil || a.Position.X != 5 {
		t.Errorf("unexpected component after update: %+v", a)
	}

	if err := canvas.Update(s, "nope", domain.Patch{}); !domain.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestDelete_CascadesAndIgnoresAbsent(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "A", "section")
	mustAdd(t, s, "A", "B", "row")
	mustAdd(t, s, "B", "C", "text")
	mustAdd(t, s, "", "D", "text")

	removed := canvas.Delete(s, "A")
	if !reflect.DeepEqual(removed, []string{"A", "B", "C"}) {
		t.Fatalf("removed = %v", removed)
	}
	if !reflect.DeepEqual(s.RootIDs, []string{"D"}) || len(s.Components) != 1 {
		t.Fatalf("unexpected state after delete: roots=%v comps=%d", s.RootIDs, len(s.Components))
	}
	if got := canvas.Delete(s, "A"); got != nil {
		t.Errorf("expected no-op delete, got %v", got)
	}
	if err := canvas.Check(s); err != nil {
		t.Fatal(err)
	}
}

func TestMove_ClampsIndex(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "P", "section")
	mustAdd(t, s, "P", "a", "text")
	mustAdd(t, s, "P", "b", "text")
	mustAdd(t, s, "", "X", "text")

	if err := canvas.Move(s, "X", "P", 99); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("P").Children; !reflect.DeepEqual(got, []string{"a", "b", "X"}) {
		t.Fatalf("children = %v", got)
	}
	if err := canvas.Move(s, "X", "P", -4); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("P").Children; !reflect.DeepEqual(got, []string{"X", "a", "b"}) {
		t.Fatalf("children = %v", got)
	}
	if err := canvas.Move(s, "b", "", 0); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.RootIDs, []string{"b", "P"}) {
		t.Fatalf("roots = %v", s.RootIDs)
	}
	if err := canvas.Check(s); err != nil {
		t.Fatal(err)
	}
}

func TestMove_RejectsCycle(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "A", "section")
	mustAdd(t, s, "A", "B", "row")
	mustAdd(t, s, "B", "C", "text")
	before := s.Clone()

	for _, target := range []string{"A", "B", "C"} {
		err := canvas.Move(s, "A", target, 0)
		var ce *domain.CycleError
		if !errors.As(err, &ce) {
			t.Fatalf("move A into %s: expected CycleError, got %v", target, err)
		}
	}
	if !reflect.DeepEqual(before, s) {
		t.Fatal("tree changed after rejected move")
	}
}

func TestMoveMany_KeepsOrderAtAnchor(t *testing.T) {
	s := newState()
	for _, id := range []string{"A", "B", "C", "D"} {
		mustAdd(t, s, "", id, "box")
	}
	mustAdd(t, s, "A", "A1", "text")

	moved, err := canvas.MoveMany(s, []string{"D", "A1", "A"}, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(moved, []string{"D", "A"}) {
		t.Fatalf("moved = %v", moved)
	}
	if !reflect.DeepEqual(s.RootIDs, []string{"B", "D", "A", "C"}) {
		t.Fatalf("roots = %v", s.RootIDs)
	}
	if err := canvas.Check(s); err != nil {
		t.Fatal(err)
	}

	if _, err := canvas.MoveMany(s, []string{"B"}, "A1", -1); err != nil {
		t.Fatal(err)
	}
	if s.Get("B").ParentID != "A1" {
		t.Errorf("B parent = %q", s.Get("B").ParentID)
	}

	var ce *domain.CycleError
	if _, err := canvas.MoveMany(s, []string{"C", "A"}, "B", 0); !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if !reflect.DeepEqual(s.RootIDs, []string{"D", "A", "C"}) {
		t.Fatalf("rejected move touched roots: %v", s.RootIDs)
	}
}

func TestDuplicate_InsertsAfterOriginal(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "P", "section")
	mustAdd(t, s, "P", "a", "card")
	mustAdd(t, s, "a", "a1", "text")
	mustAdd(t, s, "P", "b", "text")
	if err := canvas.Update(s, "a", domain.Patch{Position: &domain.Point{X: 10, Y: 10}}); err != nil {
		t.Fatal(err)
	}

	id, err := canvas.Duplicate(s, "a", seqIDs("dup"), domain.Point{X: 16, Y: 16})
	if err != nil {
		t.Fatal(err)
	}
	children := s.Get("P").Children
	if len(children) != 3 || children[1] != id || children[0] != "a" || children[2] != "b" {
		t.Fatalf("children = %v, dup = %s", children, id)
	}
	dup := s.Get(id)
	if dup.Position.X != 26 || len(dup.Children) != 1 || dup.Children[0] == "a1" {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	if s.Get("a").Position.X != 10 {
		t.Error("original moved by duplicate")
	}
	if err := canvas.Check(s); err != nil {
		t.Fatal(err)
	}
}

func TestTopLevel(t *testing.T) {
	s := newState()
	mustAdd(t, s, "", "A", "section")
	mustAdd(t, s, "A", "B", "row")
	mustAdd(t, s, "", "C", "text")

	got := canvas.TopLevel(s, []string{"B", "C", "A", "zz", "C"})
	if !reflect.DeepEqual(got, []string{"C", "A"}) {
		t.Fatalf("TopLevel = %v", got)
	}
}

// Random sequences of add/move/delete/duplicate never break parent/child
// consistency or id uniqueness.
func TestRandomOperationsKeepTreeConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newState()
	ids := seqIDs("r")

	pick := func() string {
		all := canvas.OrderedIDs(s)
		if len(all) == 0 || rng.Intn(5) == 0 {
			return ""
		}
		return all[rng.Intn(len(all))]
	}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			_, _ = canvas.Add(s, pick(), domain.ComponentInstance{Type: "box"}, ids)
		case 1:
			id := pick()
			if id == "" {
				continue
			}
			err := canvas.Move(s, id, pick(), rng.Intn(5)-1)
			var ce *domain.CycleError
			if err != nil && !errors.As(err, &ce) {
				t.Fatalf("step %d: unexpected move error %v", i, err)
			}
		case 2:
			if rng.Intn(3) == 0 {
				canvas.Delete(s, pick())
			}
		case 3:
			if id := pick(); id != "" && len(s.Components) < 300 {
				if _, err := canvas.Duplicate(s, id, ids, domain.Point{}); err != nil {
					t.Fatalf("step %d: duplicate: %v", i, err)
				}
			}
		}
		if err := canvas.Check(s); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
