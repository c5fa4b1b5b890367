package secondary

import "context"

// ActivityWriter defines the interface for writing activity log entries.
// Implementations extract the actor from context.
type ActivityWriter interface {
	// Record appends an event for tool/action on entityID.
	Record(ctx context.Context, tool, action, entityID, detail string) error
}
