package domain

import "fmt"

// Status is the latest graded outcome of a flashcard for one user.
// The numeric values are persisted and must not change.
type Status int

const (
	NotAnswered Status = 0
	Correct     Status = 1
	Incorrect   Status = 2
)

var statusLabels = map[Status]string{
	NotAnswered: "Not Answered",
	Correct:     "Correct",
	Incorrect:   "Incorrect",
}

// Label returns the human readable name shown in tables.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) String() string {
	return s.Label()
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus converts a persisted value back into a Status.
func ParseStatus(v int) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return NotAnswered, fmt.Errorf("%w: %d", ErrInvalidStatus, v)
	}
	return s, nil
}
