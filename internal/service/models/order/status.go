package order

import "database/sql/driver"

// Status is the order lifecycle state. The only defined transitions are
// NONE -> CREATED and CREATED -> DELETED; DELETED is terminal.
type Status string

const (
	StatusNone    Status = "NONE"
	StatusCreated Status = "CREATED"
	StatusDeleted Status = "DELETED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// CanTransition reports whether moving from s to next is a defined
// lifecycle transition.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusNone:
		return next == StatusCreated
	case StatusCreated:
		return next == StatusDeleted
	default:
		return false
	}
}

// Transition validates and applies a lifecycle transition.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransition(next) {
		return s, ErrInvalidTransition
	}

	return next, nil
}
