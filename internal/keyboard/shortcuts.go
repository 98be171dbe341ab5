package keyboard

import (
	"errors"
	"fmt"
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/input"
)

// Action is an editor command bound to a shortcut.
type Action string

const (
	ActionUndo           Action = "undo"
	ActionRedo           Action = "redo"
	ActionCopy           Action = "copy"
	ActionCut            Action = "cut"
	ActionPaste          Action = "paste"
	ActionDelete         Action = "delete"
	ActionDuplicate      Action = "duplicate"
	ActionSelectAll      Action = "select all"
	ActionClearSelection Action = "clear selection"
)

// Resolve maps a key event to its shortcut. Ctrl and Meta are equivalent.
func Resolve(ev input.Event) (Action, bool) {
	primary := ev.Modifiers.Ctrl || ev.Modifiers.Meta
	switch ev.Key {
	case "Delete", "Backspace":
		return ActionDelete, true
	case "Escape":
		return ActionClearSelection, true
	}
	if !primary {
		return "", false
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Modifiers.Shift {
			return ActionRedo, true
		}
		return ActionUndo, true
	case "y":
		return ActionRedo, true
	case "c":
		return ActionCopy, true
	case "x":
		return ActionCut, true
	case "v":
		return ActionPaste, true
	case "d":
		return ActionDuplicate, true
	case "a":
		return ActionSelectAll, true
	}
	return "", false
}

// Commands is what the shortcuts call. The editor satisfies it, and the
// service layer wraps it to mirror the system clipboard.
type Commands interface {
	Undo() (bool, error)
	Redo() (bool, error)
	Copy(ids []string) error
	Cut(ids []string) error
	Paste(parentID string) ([]string, error)
	DeleteMany(ids []string) error
	Duplicate(id string) (string, error)
	SelectAll()
	ClearSelection()
	Selection() domain.SelectionState
	Component(id string) (domain.ComponentInstance, bool)
	HistoryStatus() domain.HistoryStatus
}

// Dispatcher routes document key events: the keyboard drag controller
// gets first refusal, then the shortcut keymap.
type Dispatcher struct {
	cmds     Commands
	drag     *Controller
	announce Announcer
}

func NewDispatcher(cmds Commands, drag *Controller, announcer Announcer) *Dispatcher {
	if announcer == nil {
		announcer = discard{}
	}
	return &Dispatcher{cmds: cmds, drag: drag, announce: announcer}
}

// HandleKey consumes ev if a binding matches. Failed commands are
// announced and returned.
func (d *Dispatcher) HandleKey(ev input.Event) (bool, error) {
	if d.drag != nil {
		if d.drag.HandleKey(ev) {
			return true, nil
		}
		if d.drag.Mode() == ModeGrab {
			return false, nil
		}
	}
	action, ok := Resolve(ev)
	if !ok {
		return false, nil
	}
	return true, d.Run(action)
}

// Run executes one action against the current selection.
func (d *Dispatcher) Run(action Action) error {
	sel := d.cmds.Selection()
	switch action {
	case ActionUndo, ActionRedo:
		return d.travel(action)
	case ActionCopy, ActionCut:
		if len(sel.Selected) == 0 {
			d.announce.Announce("Nothing selected")
			return nil
		}
		op := d.cmds.Copy
		verb := "Copied"
		if action == ActionCut {
			op, verb = d.cmds.Cut, "Cut"
		}
		if err := op(sel.Selected); err != nil {
			return d.fail(action, err)
		}
		d.announce.Announce(fmt.Sprintf("%s %s", verb, plural(len(sel.Selected))))
	case ActionPaste:
		parent := ""
		if first, ok := d.cmds.Component(sel.First()); ok {
			parent = first.ParentID
		}
		roots, err := d.cmds.Paste(parent)
		if errors.Is(err, domain.ErrEmptyClipboard) {
			d.announce.Announce("Clipboard is empty")
			return nil
		}
		if err != nil {
			return d.fail(action, err)
		}
		d.announce.Announce(fmt.Sprintf("Pasted %s", plural(len(roots))))
	case ActionDelete:
		if len(sel.Selected) == 0 {
			d.announce.Announce("Nothing selected")
			return nil
		}
		if err := d.cmds.DeleteMany(sel.Selected); err != nil {
			return d.fail(action, err)
		}
		d.announce.Announce(fmt.Sprintf("Deleted %s", plural(len(sel.Selected))))
	case ActionDuplicate:
		comp, ok := d.cmds.Component(sel.First())
		if !ok {
			d.announce.Announce("Nothing selected")
			return nil
		}
		if _, err := d.cmds.Duplicate(comp.ID); err != nil {
			return d.fail(action, err)
		}
		d.announce.Announce(fmt.Sprintf("Duplicated %s", comp.Label()))
	case ActionSelectAll:
		d.cmds.SelectAll()
		d.announce.Announce(fmt.Sprintf("Selected %s", plural(len(d.cmds.Selection().Selected))))
	case ActionClearSelection:
		if len(sel.Selected) == 0 {
			return nil
		}
		d.cmds.ClearSelection()
		d.announce.Announce("Selection cleared")
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func (d *Dispatcher) travel(action Action) error {
	status := d.cmds.HistoryStatus()
	step, label := d.cmds.Undo, status.UndoLabel
	verb := "Undid"
	if action == ActionRedo {
		step, label, verb = d.cmds.Redo, status.RedoLabel, "Redid"
	}
	ok, err := step()
	if err != nil {
		return d.fail(action, err)
	}
	if !ok {
		d.announce.Announce(fmt.Sprintf("Nothing to %s", action))
		return nil
	}
	d.announce.Announce(fmt.Sprintf("%s %s", verb, label))
	return nil
}

func (d *Dispatcher) fail(action Action, err error) error {
	d.announce.Announce(fmt.Sprintf("Could not %s: %v", action, err))
	return fmt.Errorf("%s: %w", action, err)
}

func plural(n int) string {
	if n == 1 {
		return "1 component"
	}
	return fmt.Sprintf("%d components", n)
}
