// Package domain defines the flashcard entities, their constructors, and the errors shared across layers.
package domain

import "errors"

var (
	// ErrValidation is returned when an entity or a required field fails validation.
	// It is wrapped together with a more specific error such as ErrEmptyField.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyField is returned when a required text field is empty.
	ErrEmptyField = errors.New("cannot be empty")

	// ErrFieldTooLong is returned when a text field exceeds MaxFieldLength characters.
	ErrFieldTooLong = errors.New("cannot be longer than 255 characters")

	// ErrInvalidStatus is returned for a status value outside the known set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNotFound is returned when a referenced flashcard does not exist.
	ErrNotFound = errors.New("not found")
)
