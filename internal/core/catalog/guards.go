// Package catalog contains the pure rules for the milk and RTD&E catalogs.
// This is part of the Functional Core - no I/O, only pure functions.
package catalog

import (
	"strings"

	"github.com/example/storeops/internal/apperr"
)

// Category groups milk types on the count sheet.
type Category string

const (
	CategoryDairy    Category = "dairy"
	CategoryNonDairy Category = "non_dairy"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryDairy || c == CategoryNonDairy
}

// ItemContext provides context for create/update guards.
type ItemContext struct {
	Name          string
	Category      Category // empty for RTD&E items
	CheckCategory bool
	DisplayOrder  int
	// ExistingID is the id of another row already using Name, if any.
	ExistingID string
	// SelfID is the id of the row being updated; empty on create.
	SelfID string
}

// CheckItem validates a catalog row before it is written.
func CheckItem(ctx ItemContext) error {
	name := strings.TrimSpace(ctx.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	if ctx.CheckCategory && !ctx.Category.Valid() {
		return apperr.Validation("category must be one of: %s, %s", CategoryDairy, CategoryNonDairy)
	}
	if ctx.DisplayOrder < 1 {
		return apperr.Validation("display_order must be >= 1")
	}
	if ctx.ExistingID != "" && ctx.ExistingID != ctx.SelfID {
		return apperr.Conflict("name %q is already in use", name)
	}
	return nil
}

// CheckPar validates a par value.
func CheckPar(par int) error {
	if par < 0 {
		return apperr.Validation("par value must be non-negative")
	}
	return nil
}

// CheckReorder validates an explicit ordering: every id exactly once and
// every id known.
func CheckReorder(ids []string, known map[string]bool) error {
	if len(ids) == 0 {
		return apperr.Validation("item_ids is required")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperr.Validation("duplicate item id %s", id)
		}
		seen[id] = true
		if !known[id] {
			return apperr.NotFound("item %s not found", id)
		}
	}
	return nil
}
