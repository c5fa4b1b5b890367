package primary

import (
	"context"
	"time"
)

// CatalogService defines the primary port for catalog administration.
type CatalogService interface {
	// ListMilkTypes lists milk types in counting order.
	ListMilkTypes(ctx context.Context, activeOnly bool) ([]*MilkType, error)

	// CreateMilkType adds a milk type, optionally with a par value.
	CreateMilkType(ctx context.Context, req CreateMilkTypeRequest) (*MilkType, error)

	// UpdateMilkType changes the supplied fields of a milk type.
	UpdateMilkType(ctx context.Context, req UpdateMilkTypeRequest) (*MilkType, error)

	// SetMilkPar sets the par value, creating the par row on first write.
	SetMilkPar(ctx context.Context, req SetParRequest) (*MilkType, error)

	// ReorderMilkTypes assigns display orders following ids.
	ReorderMilkTypes(ctx context.Context, ids []string) error

	// ListRTDEItems lists RTD&E items in display order.
	ListRTDEItems(ctx context.Context, activeOnly bool) ([]*RTDEItem, error)

	// CreateRTDEItem adds an RTD&E item.
	CreateRTDEItem(ctx context.Context, req CreateRTDEItemRequest) (*RTDEItem, error)

	// UpdateRTDEItem changes the supplied fields of an RTD&E item.
	UpdateRTDEItem(ctx context.Context, req UpdateRTDEItemRequest) (*RTDEItem, error)

	// ReorderRTDEItems assigns display orders following ids.
	ReorderRTDEItems(ctx context.Context, ids []string) error
}

// MilkType represents a milk catalog entry.
type MilkType struct {
	ID           string
	Name         string
	Category     string
	DisplayOrder int
	Active       bool
	ParValue     int
	ParUpdatedBy string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateMilkTypeRequest contains parameters for creating a milk type.
type CreateMilkTypeRequest struct {
	Name         string `validate:"required"`
	Category     string `validate:"required,oneof=dairy non_dairy"`
	DisplayOrder int    `validate:"gte=1"`
	ParValue     *int   `validate:"omitempty,gte=0"`
	ActorID      string
}

// UpdateMilkTypeRequest contains parameters for updating a milk type.
// Nil fields are left unchanged.
type UpdateMilkTypeRequest struct {
	ID           string  `validate:"required"`
	Name         *string `validate:"omitempty,min=1"`
	Category     *string `validate:"omitempty,oneof=dairy non_dairy"`
	DisplayOrder *int    `validate:"omitempty,gte=1"`
	Active       *bool
}

// SetParRequest contains parameters for setting a par value.
type SetParRequest struct {
	MilkTypeID string `validate:"required"`
	ParValue   *int   `validate:"required,gte=0"`
	ActorID    string
}

// RTDEItem represents an RTD&E catalog entry.
type RTDEItem struct {
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

// CreateRTDEItemRequest contains parameters for creating an RTD&E item.
type CreateRTDEItemRequest struct {
	Name         string `validate:"required"`
	Brand        string
	Icon         string
	ParLevel     int `validate:"gte=0"`
	DisplayOrder int `validate:"gte=1"`
}

// UpdateRTDEItemRequest contains parameters for updating an RTD&E item.
// Nil fields are left unchanged.
type UpdateRTDEItemRequest struct {
	ID           string  `validate:"required"`
	Name         *string `validate:"omitempty,min=1"`
	Brand        *string
	Icon         *string
	ParLevel     *int `validate:"omitempty,gte=0"`
	DisplayOrder *int `validate:"omitempty,gte=1"`
	Active       *bool
}
