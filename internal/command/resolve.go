package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCommand signals an empty positional prefix: the caller responds with
// general help rather than an "unknown command" complaint.
var ErrNoCommand = errors.New("no command specified")

// NotFoundError reports a positional token with no matching command at its
// level. Path holds the command names matched before the failure.
type NotFoundError struct {
	Token string
	Path  []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("unknown command %q", e.Token)
	}
	return fmt.Sprintf("unknown command %q under %q", e.Token, strings.Join(e.Path, " "))
}

// Resolve walks the positional token sequence down the command forest. The
// synthetic root matches against the full registered set; below that, each
// step searches the current command's declared child list for an exact,
// case-sensitive name match. Exhausting the tokens yields the current
// command; a token with no match at its level yields a NotFoundError, and an
// empty token sequence yields ErrNoCommand.
func Resolve(r *Registry, positionals []string) (*Spec, error) {
	if len(positionals) == 0 {
		return nil, ErrNoCommand
	}

	cur, ok := r.Lookup(positionals[0])
	if !ok {
		return nil, &NotFoundError{Token: positionals[0]}
	}
	path := []string{cur.Name}

	for _, tok := range positionals[1:] {
		next, ok := childNamed(r, cur, tok)
		if !ok {
			return nil, &NotFoundError{Token: tok, Path: path}
		}
		cur = next
		path = append(path, cur.Name)
	}
	return cur, nil
}

func childNamed(r *Registry, parent *Spec, name string) (*Spec, bool) {
	for _, childName := range parent.Children {
		child, ok := r.Lookup(childName)
		if ok && child.Name == name {
			return child, true
		}
	}
	return nil, false
}
