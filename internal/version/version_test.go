package version

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		commit, built, want string
	}{
		{"", "", "storeops dev"},
		{"abc", "", "storeops abc"},
		{"0123456789abcdef", "2026-01-15T08:00:00Z", "storeops 0123456 (built 2026-01-15T08:00:00Z)"},
	}
	for _, tt := range tests {
		if got := format(tt.commit, tt.built); got != tt.want {
			t.Errorf("format(%q, %q) = %q, want %q", tt.commit, tt.built, got, tt.want)
		}
	}
}

func TestString_PrefersLdflags(t *testing.T) {
	oldCommit, oldBuilt := Commit, BuildTime
	t.Cleanup(func() { Commit, BuildTime = oldCommit, oldBuilt })

	Commit, BuildTime = "feedfacecafe", "now"
	if got := String(); got != "storeops feedfac (built now)" {
		t.Errorf("String() = %q", got)
	}
}
