package agent

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitFinished       = 0
	ExitUnexpected     = 1
	ExitActionFailure  = 2
	ExitInfrastructure = 3
	ExitMaxRounds      = 4
)

// Category classifies a fatal round error.
type Category int

const (
	CategoryUnhandled Category = iota
	CategoryPerception
	CategoryInference
	CategoryGrammar
	CategoryAddressing
	CategoryDispatch
)

func (c Category) String() string {
	switch c {
	case CategoryPerception:
		return "perception"
	case CategoryInference:
		return "inference"
	case CategoryGrammar:
		return "grammar"
	case CategoryAddressing:
		return "addressing"
	case CategoryDispatch:
		return "dispatch"
	default:
		return "unhandled"
	}
}

// ExitCode maps the category to the process exit code.
func (c Category) ExitCode() int {
	switch c {
	case CategoryPerception, CategoryInference:
		return ExitInfrastructure
	case CategoryGrammar, CategoryAddressing, CategoryDispatch:
		return ExitActionFailure
	default:
		return ExitUnexpected
	}
}

// RoundError is the single error type that terminates a run.
type RoundError struct {
	Category Category
	Round    int
	Err      error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("round %d: %s error: %v", e.Round, e.Category, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for err: 0 for nil, the category code for a
// *RoundError and ExitUnexpected otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitFinished
	}
	var re *RoundError
	if errors.As(err, &re) {
		return re.Category.ExitCode()
	}
	return ExitUnexpected
}
