package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleCategories() []Category {
	return []Category{
		{ID: "1", Name: "Mains", Items: []Item{
			{ID: "a", Name: "Burger", Price: 9.5, Category: "Mains"},
			{ID: "b", Name: "Pasta", Price: 11, Category: "Mains"},
		}},
		{ID: "2", Name: "Drinks", Items: []Item{
			{ID: "c", Name: "Lemonade", Price: 3, Category: "Drinks"},
			{ID: "a", Name: "Duplicate", Price: 1, Category: "Drinks"},
		}},
		{ID: "3", Name: "Mains", Items: nil},
	}
}

func TestCatalog_FirstDuplicateWins(t *testing.T) {
	c := NewCatalog(sampleCategories())

	assert.Len(t, c, 3)
	it, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "Burger", it.Name)

	_, ok = c.Lookup("zzz")
	assert.False(t, ok)
}

func TestMenuCatalog_NilSafe(t *testing.T) {
	var m *Menu
	assert.Empty(t, m.Catalog())
	assert.Equal(t, "", m.RestaurantID())
	assert.Equal(t, "", m.TableID())
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, []string{"All", "Mains", "Drinks"}, CategoryNames(sampleCategories()))
	assert.Equal(t, []string{"All"}, CategoryNames(nil))
}

func TestFilter(t *testing.T) {
	items := Flatten(sampleCategories())
	assert.Len(t, items, 4)

	assert.Equal(t, items, Filter(items, ""))
	assert.Equal(t, items, Filter(items, AllCategory))

	drinks := Filter(items, "Drinks")
	assert.Len(t, drinks, 2)
	for _, it := range drinks {
		assert.Equal(t, "Drinks", it.Category)
	}

	assert.Empty(t, Filter(items, "Desserts"))
}

func TestImageResolver(t *testing.T) {
	local := ImageResolver{}
	assert.Equal(t, "/assets/menu/gourmet-burger.jpg", local.Fallback("Double Burger"))

	remote := ImageResolver{BaseURL: "https://cdn.example.com/static/"}
	assert.Equal(t, "https://cdn.example.com/static/menu/pasta-alfredo.jpg", remote.Fallback("Fettuccine ALFREDO"))
	assert.Equal(t, "", remote.Fallback("Water"))
}

func TestFallbackAssets_Distinct(t *testing.T) {
	assets := FallbackAssets()
	assert.Len(t, assets, 6)
	assert.Contains(t, assets, "menu/berry-pancakes.jpg")
}
