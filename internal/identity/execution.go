package identity

import "github.com/google/uuid"

// NewExecutionID is a UUID v4, assigned once per CLI invocation and recorded
// in the Execution Log side table (spec.md §4.4, §4.6 step 8).
func NewExecutionID() string {
	return uuid.NewString()
}

// NewMatchID is a UUID v4, assigned per emitted query match. It uniquely
// identifies one result row within one execution; it carries no identity
// across runs.
func NewMatchID() string {
	return uuid.NewString()
}
