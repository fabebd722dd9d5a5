package navigator

import "fmt"

// ConfigurationError reports an inconsistent level chain
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid hierarchy configuration: " + e.Reason
}

// FetchError reports a failed list fetch.
// Level is the level the fetch was issued from and NodeID the node being drilled into
// (0 for the root list). Target is the level whose list was being loaded.
type FetchError struct {
	Level  string
	Target string
	NodeID int64
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.NodeID == 0 {
		return fmt.Sprintf("failed to load %s list (%s): %v", e.Target, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load %s list for %s %d (%s): %v", e.Target, e.Level, e.NodeID, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed create, carrying the server message when there is one
type MutationError struct {
	Level  string
	Detail string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("failed to create %s: %s", e.Level, e.Detail)
}

func (e *MutationError) Unwrap() error { return e.Err }

// LeafLevelError is returned when selecting at the deepest level
type LeafLevelError struct {
	Level string
}

func (e *LeafLevelError) Error() string {
	return fmt.Sprintf("%s is the deepest level and has no children", e.Level)
}

// StaleStateError is returned when an operation refers to state that is not current:
// a jump to a level that was never loaded, or a result superseded by a later navigation.
type StaleStateError struct {
	Level  string
	Reason string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stale navigator state at %s: %s", e.Level, e.Reason)
}

// Stale-state reasons
const (
	ReasonSuperseded = "superseded"
	ReasonNotVisited = "not visited"
	ReasonNotLoaded  = "not loaded"
	ReasonUnknown    = "unknown level"
)

// Fetch failure reasons
const (
	ReasonTimeout = "timeout"
	ReasonServer  = "server"
	ReasonNetwork = "network"
)
