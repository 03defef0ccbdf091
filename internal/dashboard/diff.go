package dashboard

import "github.com/Anas-Ty/restaurant-mvp/internal/orderapi"

// Change is a new order or a status transition between two polls.
type Change struct {
	Order orderapi.Order
	// From is empty for orders not seen before.
	From orderapi.OrderStatus
}

func (c Change) IsNew() bool {
	return c.From == ""
}

// Diff reports orders in next that are new or whose status moved since prev.
func Diff(prev, next []orderapi.Order) []Change {
	seen := make(map[string]orderapi.OrderStatus, len(prev))
	for _, o := range prev {
		seen[o.ID] = o.Status
	}

	var changes []Change
	for _, o := range next {
		old, ok := seen[o.ID]
		switch {
		case !ok:
			changes = append(changes, Change{Order: o})
		case old != o.Status:
			changes = append(changes, Change{Order: o, From: old})
		}
	}
	return changes
}
