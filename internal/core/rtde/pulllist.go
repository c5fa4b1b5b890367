package rtde

// ItemState is an active catalog item joined with its (optional) count row.
type ItemState struct {
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

// PullItem is one line of the pull list.
type PullItem struct {
	ItemID   string
	Name     string
	Brand    string
	Icon     string
	Need     int
	IsPulled bool
}

// PullList is the filtered list plus aggregate counts.
type PullList struct {
	Items       []PullItem
	TotalItems  int
	PulledItems int
}

// Need is the quantity to bring out from the back, never negative.
// A missing count row counts as zero on hand.
func Need(parLevel, counted int) int {
	return max(0, parLevel-counted)
}

// BuildPullList keeps only items with a positive need, in input order.
func BuildPullList(items []ItemState) PullList {
	pl := PullList{Items: []PullItem{}}
	for _, it := range items {
		counted := 0
		if it.HasCount {
			counted = it.Counted
		}
		need := Need(it.ParLevel, counted)
		if need == 0 {
			continue
		}
		pl.Items = append(pl.Items, PullItem{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Brand:    it.Brand,
			Icon:     it.Icon,
			Need:     need,
			IsPulled: it.IsPulled,
		})
		if it.IsPulled {
			pl.PulledItems++
		}
	}
	pl.TotalItems = len(pl.Items)
	return pl
}

// CountedItems returns how many items have a count row with quantity > 0.
func CountedItems(items []ItemState) int {
	n := 0
	for _, it := range items {
		if it.HasCount && it.Counted > 0 {
			n++
		}
	}
	return n
}
