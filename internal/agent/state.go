package agent

import "github.com/ai-agents-2030/AppAgent/internal/action"

// Phase is a state of the round state machine.
type Phase int

const (
	PhasePerceive Phase = iota
	PhaseBuildPrompt
	PhaseInfer
	PhaseParse
	PhaseResolve
	PhaseDispatch
	PhaseRecord
	PhaseDone
	PhaseMaxRounds
	PhaseFatal
)

var phaseNames = [...]string{
	"perceive", "build_prompt", "infer", "parse", "resolve_address",
	"dispatch", "record", "done", "max_rounds", "fatal",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Terminal reports whether no further transition follows p.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseMaxRounds || p == PhaseFatal
}

// LoopState is the mutable state of one task run. Only the Runner changes it.
type LoopState struct {
	Phase Phase
	// Round counts recorded rounds.
	Round        int
	LastAction   string
	GridMode     bool
	TaskComplete bool
	Failure      *RoundError

	PromptTokens     int
	CompletionTokens int
}

// NewLoopState returns the entry state.
func NewLoopState() LoopState {
	return LoopState{Phase: PhasePerceive, LastAction: "None"}
}

// ExitCode maps a terminal state to the process exit code.
func (s LoopState) ExitCode() int {
	switch {
	case s.Failure != nil:
		return s.Failure.Category.ExitCode()
	case s.TaskComplete:
		return ExitFinished
	case s.Phase == PhaseMaxRounds:
		return ExitMaxRounds
	default:
		return ExitUnexpected
	}
}

// record is the only transition that writes GridMode: it is set after a grid
// action and cleared after any other.
func (s LoopState) record(kind action.Kind, summary string, promptTokens, completionTokens int) LoopState {
	s.Round++
	s.LastAction = summary
	s.GridMode = kind == action.KindGrid
	s.PromptTokens += promptTokens
	s.CompletionTokens += completionTokens
	s.Phase = PhasePerceive
	return s
}

func (s LoopState) finish(promptTokens, completionTokens int) LoopState {
	s.TaskComplete = true
	s.PromptTokens += promptTokens
	s.CompletionTokens += completionTokens
	s.Phase = PhaseDone
	return s
}

func (s LoopState) fail(err *RoundError) LoopState {
	s.Failure = err
	s.Phase = PhaseFatal
	return s
}
