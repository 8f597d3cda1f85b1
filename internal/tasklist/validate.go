package tasklist

import (
	"regexp"
	"strings"

	"todo/internal/gateway"
)

// MaxTitleLen is the longest accepted title, in characters.
const MaxTitleLen = 100

var titlePattern = regexp.MustCompile(`^[A-Za-z0-9\s.,!?-]{1,100}$`)

// ValidationError is a local pre-check failure. No gateway call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Local pre-check failures.
var (
	ErrEmptyTitle      = &ValidationError{Message: "Please enter the todo"}
	ErrInvalidTitle    = &ValidationError{Message: "Invalid Todo! 1-100 chars, letters, numbers, . , ! ? - only"}
	ErrDuplicateTitle  = &ValidationError{Message: "Todo already exists"}
	ErrNothingToDelete = &ValidationError{Message: "No todos to delete"}
	ErrUnknownTask     = &ValidationError{Message: "Todo not found"}
)

// ValidateTitle checks a title against the allowed pattern and returns it
// trimmed. Whitespace-only titles count as empty.
func ValidateTitle(title string) (string, error) {
	clean := strings.TrimSpace(title)
	if clean == "" {
		return "", ErrEmptyTitle
	}
	if !titlePattern.MatchString(clean) {
		return "", ErrInvalidTitle
	}
	return clean, nil
}

// checkDuplicate rejects title if a task other than exceptID already has an
// equal title, compared trimmed and case-insensitively. It is advisory: other
// sessions can still race a duplicate in.
func checkDuplicate(tasks []gateway.Task, title, exceptID string) error {
	want := normalize(title)
	for _, t := range tasks {
		if t.ID == exceptID && exceptID != "" {
			continue
		}
		if normalize(t.Title) == want {
			return ErrDuplicateTitle
		}
	}
	return nil
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
