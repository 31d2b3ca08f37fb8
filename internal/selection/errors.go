package selection

import (
	"fmt"
	"strings"
)

// AttemptError records one failed candidate attempt.
type AttemptError struct {
	ModelID  string
	Provider string
	Err      error
}

func (e AttemptError) String() string {
	return fmt.Sprintf("%s/%s: %v", e.Provider, e.ModelID, e.Err)
}

// ExhaustedError is returned when every eligible candidate was tried and
// failed. It is a hard failure surfaced to the caller, never swallowed.
type ExhaustedError struct {
	Capability string
	Attempts   []AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("no available backends for capability %q", e.Capability)
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("all providers exhausted for capability %q after %d attempts: %s",
		e.Capability, len(e.Attempts), strings.Join(parts, "; "))
}
