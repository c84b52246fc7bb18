package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
)

// Edit is one designer operation named on the command line.
type Edit struct {
	Op   string
	Args []string
}

// editArity lists the argument count each operation takes; -1 means "at least the first value".
var editArity = map[string][2]int{
	"add-state":         {1, 3},
	"remove-state":      {1, 1},
	"final":             {1, 1},
	"rename":            {2, 2},
	"move":              {3, 3},
	"set-transition":    {2, -1},
	"remove-transition": {2, 2},
}

// EditOps returns the supported operation names.
func EditOps() []string {
	return []string{"add-state", "remove-state", "final", "rename", "move", "set-transition", "remove-transition"}
}

// ParseEdit validates the operation and its argument count.
func ParseEdit(args []string) (Edit, error) {
	if len(args) == 0 {
		return Edit{}, fmt.Errorf("missing operation, expected one of %s", strings.Join(EditOps(), ", "))
	}
	op, rest := args[0], args[1:]
	arity, ok := editArity[op]
	if !ok {
		return Edit{}, fmt.Errorf("unknown operation %q, expected one of %s", op, strings.Join(EditOps(), ", "))
	}
	if len(rest) < arity[0] || (arity[1] >= 0 && len(rest) > arity[1]) {
		return Edit{}, fmt.Errorf("%s: wrong number of arguments (%d)", op, len(rest))
	}
	if op == "add-state" && len(rest) == 2 {
		return Edit{}, fmt.Errorf("add-state: position needs both x and y")
	}
	return Edit{Op: op, Args: rest}, nil
}

// Apply runs the edit on d.
func (e Edit) Apply(d *designer.Designer) error {
	switch e.Op {
	case "add-state":
		var pos domain.Position
		if len(e.Args) == 3 {
			p, err := parsePosition(e.Args[1], e.Args[2])
			if err != nil {
				return err
			}
			pos = p
		}
		_, err := d.AddState(e.Args[0], pos)
		return err
	case "remove-state":
		id, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		return d.RemoveState(id)
	case "final":
		id, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		return d.SwitchFinal(id)
	case "rename":
		id, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		return d.RenameState(id, e.Args[1])
	case "move":
		id, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		pos, err := parsePosition(e.Args[1], e.Args[2])
		if err != nil {
			return err
		}
		return d.MoveState(id, pos)
	case "set-transition":
		from, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		to, err := stateID(d, e.Op, e.Args[1])
		if err != nil {
			return err
		}
		labels := make([]domain.Label, 0, len(e.Args)-2)
		for _, raw := range e.Args[2:] {
			labels = append(labels, ParseLabel(raw))
		}
		return d.AddTransition(from, to, labels)
	case "remove-transition":
		from, err := stateID(d, e.Op, e.Args[0])
		if err != nil {
			return err
		}
		to, err := stateID(d, e.Op, e.Args[1])
		if err != nil {
			return err
		}
		return d.RemoveTransition(from, to)
	}
	return fmt.Errorf("unknown operation %q", e.Op)
}

// ParseLabel reads "input" for FSM and "input/top/push,..." for PDA transitions.
// Push symbols are listed bottom first; an empty push list pops without pushing.
func ParseLabel(raw string) domain.Label {
	parts := strings.SplitN(raw, "/", 3)
	l := domain.Label{Input: parts[0]}
	if len(parts) > 1 {
		l.Pop = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		l.Push = strings.Split(parts[2], ",")
	}
	return l
}

func stateID(d *designer.Designer, op, name string) (int, error) {
	id, ok := d.StateID(name)
	if !ok {
		return 0, &domain.EditError{Op: op, Subject: name, Err: domain.ErrUnknownState}
	}
	return id, nil
}

func parsePosition(x, y string) (domain.Position, error) {
	px, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid x %q: %w", x, err)
	}
	py, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid y %q: %w", y, err)
	}
	return domain.Position{X: px, Y: py}, nil
}
