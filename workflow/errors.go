package workflow

import "fmt"

// GenerationFailure is any fatal agent invocation failure: network or backend
// errors, timeouts, or a broken output applier. It aborts the traversal and
// carries the stage for diagnostics.
type GenerationFailure struct {
	Stage AgentID
	Err   error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed at stage %s: %v", e.Stage, e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}
