package catalog

import (
	"testing"

	"github.com/example/storeops/internal/apperr"
)

func TestCheckItem(t *testing.T) {
	tests := []struct {
		name     string
		ctx      ItemContext
		wantKind apperr.Kind
	}{
		{"valid milk type", ItemContext{Name: "Whole", Category: CategoryDairy, CheckCategory: true, DisplayOrder: 1}, ""},
		{"valid rtde item skips category", ItemContext{Name: "Cold Brew", DisplayOrder: 3}, ""},
		{"blank name", ItemContext{Name: "   ", Category: CategoryDairy, CheckCategory: true, DisplayOrder: 1}, apperr.KindValidation},
		{"bad category", ItemContext{Name: "Oat", Category: "grain", CheckCategory: true, DisplayOrder: 1}, apperr.KindValidation},
		{"display order zero", ItemContext{Name: "Oat", Category: CategoryNonDairy, CheckCategory: true, DisplayOrder: 0}, apperr.KindValidation},
		{"duplicate name on create", ItemContext{Name: "Oat", Category: CategoryNonDairy, CheckCategory: true, DisplayOrder: 2, ExistingID: "M-1"}, apperr.KindConflict},
		{"same name on self update", ItemContext{Name: "Oat", Category: CategoryNonDairy, CheckCategory: true, DisplayOrder: 2, ExistingID: "M-1", SelfID: "M-1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckItem(tt.ctx)
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %q, want %q (err=%v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestCheckPar(t *testing.T) {
	if err := CheckPar(0); err != nil {
		t.Errorf("CheckPar(0) = %v", err)
	}
	if apperr.KindOf(CheckPar(-2)) != apperr.KindValidation {
		t.Error("CheckPar(-2) should be a validation error")
	}
}

func TestCheckReorder(t *testing.T) {
	known := map[string]bool{"a": true, "b": true}
	tests := []struct {
		name     string
		ids      []string
		wantKind apperr.Kind
	}{
		{"ok", []string{"b", "a"}, ""},
		{"empty", nil, apperr.KindValidation},
		{"duplicate", []string{"a", "a"}, apperr.KindValidation},
		{"unknown", []string{"a", "z"}, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.KindOf(CheckReorder(tt.ids, known)); got != tt.wantKind {
				t.Errorf("kind = %q, want %q", got, tt.wantKind)
			}
		})
	}
}
