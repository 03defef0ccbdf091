package cart

import (
	"math"
	"strconv"

	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
)

// Line is a derived view of one cart entry; it is never stored.
type Line struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Lines joins the store against catalog in first-add order. Ids the catalog
// does not know are skipped.
func (s *Store) Lines(catalog menu.Catalog) []Line {
	lines := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		it, ok := catalog.Lookup(id)
		if !ok {
			continue
		}
		q := s.quantities[id]
		lines = append(lines, Line{
			ItemID:    id,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Quantity:  q,
			LineTotal: roundCents(it.Price * float64(q)),
		})
	}
	return lines
}

// Count is the total quantity over lines the catalog knows.
func (s *Store) Count(catalog menu.Catalog) int {
	n := 0
	for _, l := range s.Lines(catalog) {
		n += l.Quantity
	}
	return n
}

func (s *Store) Subtotal(catalog menu.Catalog) float64 {
	return Subtotal(s.Lines(catalog))
}

// Subtotal sums price times quantity, rounded to cents.
func Subtotal(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return roundCents(total)
}

func FormatMoney(v float64) string {
	return strconv.FormatFloat(roundCents(v), 'f', 2, 64)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
