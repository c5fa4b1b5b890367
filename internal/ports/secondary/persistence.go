// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"fmt"
	"time"
)

// MilkTypeRepository defines the secondary port for the milk catalog.
type MilkTypeRepository interface {
	// Create persists a new milk type.
	Create(ctx context.Context, milkType *MilkTypeRecord) error

	// Update updates name, category, display order and active flag.
	Update(ctx context.Context, milkType *MilkTypeRecord) error

	// GetByID retrieves a milk type by its ID, including its par value.
	GetByID(ctx context.Context, id string) (*MilkTypeRecord, error)

	// GetByName returns the milk type with the given name, or nil if none.
	GetByName(ctx context.Context, name string) (*MilkTypeRecord, error)

	// List retrieves milk types ordered by display order, then insertion order.
	List(ctx context.Context, filters CatalogFilters) ([]*MilkTypeRecord, error)

	// SetPar creates or replaces the par level for a milk type.
	SetPar(ctx context.Context, milkTypeID string, par int, updatedBy string) error

	// Reorder assigns display orders 1..n following ids, in one transaction.
	Reorder(ctx context.Context, ids []string) error
}

// MilkTypeRecord represents a milk type joined with its par level.
type MilkTypeRecord struct {
	ID           string
	Name         string
	Category     string
	DisplayOrder int
	Active       bool
	ParValue     int // 0 when no par row exists
	ParUpdatedBy string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CatalogFilters contains filter options for catalog listings.
type CatalogFilters struct {
	ActiveOnly bool
}

// MilkSessionRepository defines the secondary port for milk order sessions
// and their entry ledger.
type MilkSessionRepository interface {
	// CreateWithEntries inserts the session and its pre-created entries atomically.
	// Returns a Conflict error when a session already exists for the date.
	CreateWithEntries(ctx context.Context, session *MilkSessionRecord, entries []*MilkEntryRecord) error

	// GetByID retrieves a session. Returns a NotFound error when missing.
	GetByID(ctx context.Context, id string) (*MilkSessionRecord, error)

	// GetByDate returns the session for a date, or nil if none.
	GetByDate(ctx context.Context, date string) (*MilkSessionRecord, error)

	// List retrieves sessions newest date first, with the unpaged total.
	List(ctx context.Context, filters MilkSessionFilters) ([]*MilkSessionRecord, int, error)

	// ListEntries retrieves a session's entries joined with catalog data,
	// ordered by display order, then insertion order.
	ListEntries(ctx context.Context, sessionID string) ([]*MilkEntryRecord, error)

	// ApplyPhase advances the session and writes entry values in one
	// transaction. The advance is conditional on the session still being in
	// write.From; otherwise a *StatusMismatchError is returned and nothing is written.
	ApplyPhase(ctx context.Context, write *PhaseWrite) error

	// DeleteByDate removes the session for a date (entries cascade).
	DeleteByDate(ctx context.Context, date string) (int64, error)

	// DeleteAll removes every session (entries cascade).
	DeleteAll(ctx context.Context) (int64, error)
}

// MilkSessionRecord represents a milk order session as stored in persistence.
type MilkSessionRecord struct {
	ID              string
	SessionDate     string // YYYY-MM-DD in store time
	Status          string
	NightUserID     string
	MorningUserID   string
	NightFOHSavedAt *time.Time
	NightBOHSavedAt *time.Time
	MorningSavedAt  *time.Time
	OnOrderSavedAt  *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// MilkEntryRecord is one (session, milk type) row of the entry ledger.
type MilkEntryRecord struct {
	ID               string
	SessionID        string
	MilkTypeID       string
	FrontCount       *int
	BackCount        *int
	MorningMethod    string
	CurrentBackCount *int
	Delivered        *int
	OnOrder          *int
	UpdatedAt        time.Time

	// Catalog columns, populated by ListEntries only.
	MilkTypeName string
	Category     string
	DisplayOrder int
	ParValue     int
}

// MilkSessionFilters contains filter options for session history.
type MilkSessionFilters struct {
	Status string
	Limit  int
	Offset int
}

// PhaseWrite describes one phase-save.
type PhaseWrite struct {
	SessionID   string
	From        string
	To          string
	StampColumn string    // phase timestamp column to set
	At          time.Time // value for StampColumn
	ActorSlot   string    // "night" or "morning"; empty when the phase records no actor
	ActorID     string
	CompletedAt *time.Time
	Entries     []*MilkEntryRecord // full phase values, matched by MilkTypeID
}

// StatusMismatchError reports that a conditional advance found the session
// in another status.
type StatusMismatchError struct {
	SessionID string
	Actual    string
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("session %s is in status %s", e.SessionID, e.Actual)
}

// RTDEItemRepository defines the secondary port for the RTD&E catalog.
type RTDEItemRepository interface {
	// Create persists a new item.
	Create(ctx context.Context, item *RTDEItemRecord) error

	// Update replaces an item's editable fields.
	Update(ctx context.Context, item *RTDEItemRecord) error

	// GetByID retrieves an item. Returns a NotFound error when missing.
	GetByID(ctx context.Context, id string) (*RTDEItemRecord, error)

	// GetByName returns the item with the given name, or nil if none.
	GetByName(ctx context.Context, name string) (*RTDEItemRecord, error)

	// List retrieves items ordered by display order, then insertion order.
	List(ctx context.Context, filters CatalogFilters) ([]*RTDEItemRecord, error)

	// Reorder assigns display orders 1..n following ids, in one transaction.
	Reorder(ctx context.Context, ids []string) error
}

// RTDEItemRecord represents a restockable ready-to-drink/eat item.
type RTDEItemRecord struct {
	ID           string
	Name         string
	Brand        string
	Icon         string
	ParLevel     int
	DisplayOrder int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RTDESessionRepository defines the secondary port for RTD&E sessions and
// their count rows.
type RTDESessionRepository interface {
	// CreateReplacing deletes the user's in-progress sessions and inserts
	// session, in one transaction.
	CreateReplacing(ctx context.Context, session *RTDESessionRecord) error

	// GetByID retrieves a session. Returns a NotFound error when missing.
	GetByID(ctx context.Context, id string) (*RTDESessionRecord, error)

	// GetLatestInProgress returns the user's most recently started
	// in-progress session, or nil if none.
	GetLatestInProgress(ctx context.Context, userID string) (*RTDESessionRecord, error)

	// MarkExpired flips an in-progress session to expired. No-op otherwise.
	MarkExpired(ctx context.Context, id string) error

	// UpsertCount sets counted_quantity, creating the row if needed. Only
	// applies while the session is in progress; otherwise *StatusMismatchError.
	UpsertCount(ctx context.Context, sessionID, itemID string, quantity int, at time.Time) error

	// UpsertPulled sets is_pulled, creating the row with quantity 0 if needed.
	// Same in-progress condition as UpsertCount.
	UpsertPulled(ctx context.Context, sessionID, itemID string, pulled bool, at time.Time) error

	// ListItemStates returns every active item joined with the session's count rows.
	ListItemStates(ctx context.Context, sessionID string) ([]*RTDEItemStateRecord, error)

	// Complete marks the session completed, records the completion event,
	// deletes the session and the user's other in-progress sessions, all in
	// one transaction.
	Complete(ctx context.Context, req *RTDECompletion) error

	// DeleteExpired bulk-deletes in-progress sessions whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RTDESessionRecord represents an RTD&E session as stored in persistence.
type RTDESessionRecord struct {
	ID          string
	UserID      string
	Status      string
	StartedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
}

// RTDEItemStateRecord is an active item with its optional count row.
type RTDEItemStateRecord struct {
	ItemID       string
	Name         string
	Brand        string
	Icon         string
	ParLevel     int
	DisplayOrder int
	HasCount     bool
	Counted      int
	IsPulled     bool
}

// RTDECompletion describes a session completion.
type RTDECompletion struct {
	SessionID   string
	UserID      string
	CompletedAt time.Time
	Event       *ActivityRecord
}

// ActivityLogRepository defines the secondary port for the append-only activity log.
type ActivityLogRepository interface {
	// Create appends an activity entry.
	Create(ctx context.Context, entry *ActivityRecord) error

	// List retrieves entries newest first.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)

	// Latest returns the newest entry for tool/action, or nil if none.
	Latest(ctx context.Context, tool, action string) (*ActivityRecord, error)
}

// ActivityRecord is one activity log row.
type ActivityRecord struct {
	ID        string
	Tool      string
	Action    string
	EntityID  string
	ActorID   string
	Detail    string
	CreatedAt time.Time
}

// ActivityFilters contains filter options for querying the activity log.
type ActivityFilters struct {
	Tool   string
	Action string
	Limit  int
}
