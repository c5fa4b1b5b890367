// Package primary defines the primary ports (driving adapters) for the application.
// These are the service interfaces the CLI, or any future transport, drives.
package primary

import (
	"context"
	"time"
)

// MilkOrderService defines the primary port for the nightly/morning milk count.
type MilkOrderService interface {
	// StartSession creates the session for date with one entry per active milk type.
	StartSession(ctx context.Context, date string) (*MilkSession, error)

	// GetSession retrieves a session with its entries.
	GetSession(ctx context.Context, sessionID string) (*MilkSession, error)

	// GetSessionByDate returns the session for date, or nil if none exists.
	GetSessionByDate(ctx context.Context, date string) (*MilkSession, error)

	// ListSessions returns session history, newest first.
	ListSessions(ctx context.Context, filters MilkSessionFilters) (*MilkSessionPage, error)

	// SaveFrontCount records the night FOH counts and advances to night_boh.
	SaveFrontCount(ctx context.Context, req SaveCountsRequest) (*MilkSession, error)

	// SaveBackCount records the night BOH counts and advances to morning.
	SaveBackCount(ctx context.Context, req SaveCountsRequest) (*MilkSession, error)

	// SaveMorningCount records deliveries and advances to on_order.
	SaveMorningCount(ctx context.Context, req SaveMorningRequest) (*MilkSession, error)

	// SaveOnOrder records quantities already ordered and completes the session.
	SaveOnOrder(ctx context.Context, req SaveCountsRequest) (*MilkSession, error)

	// GetSummary computes per-item totals and order quantities.
	GetSummary(ctx context.Context, sessionID string) (*MilkSummary, error)

	// ResetSessions deletes sessions (development only).
	ResetSessions(ctx context.Context, req ResetSessionsRequest) (int64, error)
}

// CountInput is one item's value for a single-value phase.
type CountInput struct {
	MilkTypeID string `validate:"required"`
	Value      *int   `validate:"required,gte=0"`
}

// SaveCountsRequest contains parameters for the FOH, BOH and on-order phases.
type SaveCountsRequest struct {
	SessionID string       `validate:"required"`
	ActorID   string
	Counts    []CountInput `validate:"dive"`
}

// MorningCountInput is one item's morning submission.
type MorningCountInput struct {
	MilkTypeID       string `validate:"required"`
	Method           string `validate:"required"` // current_back | direct
	CurrentBackCount *int   `validate:"omitempty,gte=0"`
	Delivered        *int   `validate:"omitempty,gte=0"`
}

// SaveMorningRequest contains parameters for the morning phase.
type SaveMorningRequest struct {
	SessionID string              `validate:"required"`
	ActorID   string
	Counts    []MorningCountInput `validate:"dive"`
}

// ResetSessionsRequest selects which sessions to delete.
type ResetSessionsRequest struct {
	Date string
	All  bool
}

// MilkSessionFilters contains filter options for session history.
type MilkSessionFilters struct {
	Status string
	Limit  int
	Offset int
}

// MilkSessionPage is one page of session history.
type MilkSessionPage struct {
	Sessions []*MilkSession
	Total    int
	Limit    int
	Offset   int
}

// MilkSession represents a milk order session.
type MilkSession struct {
	ID              string
	SessionDate     string
	Status          string
	NightUserID     string
	MorningUserID   string
	NightFOHSavedAt *time.Time
	NightBOHSavedAt *time.Time
	MorningSavedAt  *time.Time
	OnOrderSavedAt  *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	Entries         []*MilkEntry // nil in history listings
}

// MilkEntry is one milk type's row within a session.
type MilkEntry struct {
	ID               string
	MilkTypeID       string
	Name             string
	Category         string
	DisplayOrder     int
	ParValue         int
	FrontCount       *int
	BackCount        *int
	MorningMethod    string
	CurrentBackCount *int
	Delivered        *int
	OnOrder          *int
	UpdatedAt        time.Time
}

// MilkSummary is the order sheet for a session.
type MilkSummary struct {
	SessionID   string
	SessionDate string
	Status      string
	Items       []MilkSummaryItem
	Totals      MilkSummaryTotals
}

// MilkSummaryItem is one milk type's line on the order sheet.
type MilkSummaryItem struct {
	MilkTypeID string
	Name       string
	Category   string
	Front      int
	Back       int
	Delivered  int
	OnOrder    int
	Total      int
	Par        int
	Order      int
}

// MilkSummaryTotals sums the order sheet.
type MilkSummaryTotals struct {
	Front     int
	Back      int
	Delivered int
	OnOrder   int
	Total     int
	Order     int
}
