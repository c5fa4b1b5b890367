package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/storeops/internal/ports/primary"
)

// parseAssignment splits "ITEM=QTY".
func parseAssignment(s string) (string, int, error) {
	id, raw, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", 0, fmt.Errorf("invalid count %q: expected <id>=<quantity>", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity in %q: %w", s, err)
	}
	return id, n, nil
}

// parseCounts turns repeated --count flags into phase inputs.
func parseCounts(values []string) ([]primary.CountInput, error) {
	counts := make([]primary.CountInput, 0, len(values))
	for _, v := range values {
		id, n, err := parseAssignment(v)
		if err != nil {
			return nil, err
		}
		counts = append(counts, primary.CountInput{MilkTypeID: id, Value: &n})
	}
	return counts, nil
}

// parseMorningCounts combines --current-back and --delivered flags. Each
// flag picks the item's morning method.
func parseMorningCounts(currentBack, delivered []string) ([]primary.MorningCountInput, error) {
	counts := make([]primary.MorningCountInput, 0, len(currentBack)+len(delivered))
	for _, v := range currentBack {
		id, n, err := parseAssignment(v)
		if err != nil {
			return nil, err
		}
		counts = append(counts, primary.MorningCountInput{MilkTypeID: id, Method: "current_back", CurrentBackCount: &n})
	}
	for _, v := range delivered {
		id, n, err := parseAssignment(v)
		if err != nil {
			return nil, err
		}
		counts = append(counts, primary.MorningCountInput{MilkTypeID: id, Method: "direct", Delivered: &n})
	}
	return counts, nil
}
