package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChoice is returned when an answer is neither yes nor no.
var ErrInvalidChoice = errors.New("invalid choice")

// ParseAnswer accepts the menu numbers (1 yes, 2 no) and common yes/no words in Spanish and English.
func ParseAnswer(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "s", "si", "sí", "y", "yes", "true":
		return true, nil
	case "2", "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
}
