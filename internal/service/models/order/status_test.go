package order

import (
	"errors"
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"none to created", StatusNone, StatusCreated, true},
		{"created to deleted", StatusCreated, StatusDeleted, true},
		{"none to deleted", StatusNone, StatusDeleted, false},
		{"created to created", StatusCreated, StatusCreated, false},
		{"deleted is terminal", StatusDeleted, StatusCreated, false},
		{"deleted to deleted", StatusDeleted, StatusDeleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.ok {
				if err != nil {
					t.Fatalf("expected transition %s -> %s to succeed, got %v", tt.from, tt.to, err)
				}
				if got != tt.to {
					t.Errorf("expected status %s, got %s", tt.to, got)
				}

				return
			}

			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition for %s -> %s, got %v", tt.from, tt.to, err)
			}
			if got != tt.from {
				t.Errorf("failed transition must not change status, got %s", got)
			}
		})
	}
}
