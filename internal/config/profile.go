package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Profile is the per-workstation identity stored in .storeops/profile.json.
type Profile struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"` // free-form, e.g. "night" or "morning"
}

// LoadProfile reads .storeops/profile.json from dir.
// Returns an error if no profile exists; callers decide whether that matters.
func LoadProfile(dir string) (*Profile, error) {
	path := filepath.Join(dir, ".storeops", "profile.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// SaveProfile writes profile.json under dir/.storeops.
func SaveProfile(dir string, p *Profile) error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("profile user id must not be empty")
	}

	profileDir := filepath.Join(dir, ".storeops")
	if err := os.MkdirAll(profileDir, 0755); err != nil {
		return fmt.Errorf("failed to create .storeops dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	path := filepath.Join(profileDir, "profile.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// ResolveUser picks the acting user: an explicit flag wins, then the profile in dir.
func ResolveUser(flagValue, dir string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	p, err := LoadProfile(dir)
	if err != nil {
		return "", fmt.Errorf("no --user given and no profile set (run 'storeops profile set --user <id>'): %w", err)
	}
	return p.UserID, nil
}
