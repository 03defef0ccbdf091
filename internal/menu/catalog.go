package menu

// Catalog indexes items by id. Later duplicates do not override the first.
type Catalog map[string]Item

func NewCatalog(cats []Category) Catalog {
	c := make(Catalog)
	for _, cat := range cats {
		for _, it := range cat.Items {
			if _, ok := c[it.ID]; !ok {
				c[it.ID] = it
			}
		}
	}
	return c
}

func (c Catalog) Lookup(id string) (Item, bool) {
	it, ok := c[id]
	return it, ok
}

// Flatten returns every item of every category, in order.
func Flatten(cats []Category) []Item {
	var items []Item
	for _, cat := range cats {
		items = append(items, cat.Items...)
	}
	return items
}

// CategoryNames returns "All" followed by the distinct category names.
func CategoryNames(cats []Category) []string {
	names := []string{AllCategory}
	seen := map[string]bool{}
	for _, cat := range cats {
		if cat.Name == "" || seen[cat.Name] {
			continue
		}
		seen[cat.Name] = true
		names = append(names, cat.Name)
	}
	return names
}

// Filter returns the items of one category; "All" (or empty) returns everything.
func Filter(items []Item, category string) []Item {
	if category == "" || category == AllCategory {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
