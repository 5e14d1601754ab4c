package dag

import "fmt"

// ConfigNotFoundError is returned when a key has no document in the
// current snapshot, per spec.md §7's ConfigNotFound.
type ConfigNotFoundError struct {
	Key string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("dag: config not found: %s", e.Key)
}

// RenderFailedError covers cycle detection and import resolution failures
// that are not plain lookup misses, per spec.md §7's RenderFailed.
type RenderFailedError struct {
	Key    string
	Reason string
}

func (e *RenderFailedError) Error() string {
	return fmt.Sprintf("dag: render failed for %s: %s", e.Key, e.Reason)
}
