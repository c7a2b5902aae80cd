package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/conorfennell/flashdrill/internal/domain"
)

// ErrInvalidChoice is returned for a main menu answer that names no menu item.
var ErrInvalidChoice = errors.New("invalid choice")

const (
	msgEmptyField    = "This field cannot be empty. Please try again."
	msgFieldTooLong  = "This field cannot be longer than 255 characters. Please try again."
	msgInvalidChoice = "Invalid choice. Please try again."
)

// ParseChoice accepts a menu number or a menu label in any case.
func ParseChoice(input string) (domain.MenuItem, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if item := domain.MenuItem(n); item.Valid() {
			return item, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
	}
	for _, item := range domain.MenuItems() {
		if strings.EqualFold(item.Label(), input) {
			return item, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
}

// parseID reads a flashcard id typed by the user. ok is false for anything but a non-negative integer.
func parseID(input string) (id int64, ok bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// askRequired prompts until the answer is non-empty and at most domain.MaxFieldLength characters.
func (c *Controller) askRequired(message string) (string, error) {
	for {
		answer, err := c.ui.Prompt(message)
		if err != nil {
			return "", err
		}
		if err := domain.ValidateRequired(answer); err != nil {
			c.ui.Error(requiredMessage(err))
			continue
		}
		return answer, nil
	}
}

func requiredMessage(err error) string {
	if errors.Is(err, domain.ErrFieldTooLong) {
		return msgFieldTooLong
	}
	return msgEmptyField
}
