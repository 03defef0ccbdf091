package menu

import "strings"

// fallbackImage maps a keyword found in an item name to a bundled asset.
type fallbackImage struct {
	Keyword string
	Asset   string
}

// Matched in this order; the first keyword contained in the name wins.
var fallbackImages = []fallbackImage{
	{"pizza", "menu/pizza-margherita.jpg"},
	{"margherita", "menu/pizza-margherita.jpg"},
	{"sushi", "menu/sushi-bowl.jpg"},
	{"bowl", "menu/sushi-bowl.jpg"},
	{"burger", "menu/gourmet-burger.jpg"},
	{"pasta", "menu/pasta-alfredo.jpg"},
	{"alfredo", "menu/pasta-alfredo.jpg"},
	{"salad", "menu/mediterranean-salad.jpg"},
	{"mediterranean", "menu/mediterranean-salad.jpg"},
	{"pancakes", "menu/berry-pancakes.jpg"},
	{"berry", "menu/berry-pancakes.jpg"},
}

// FallbackAssets lists the distinct asset keys the resolver can return.
func FallbackAssets() []string {
	var keys []string
	seen := map[string]bool{}
	for _, f := range fallbackImages {
		if !seen[f.Asset] {
			seen[f.Asset] = true
			keys = append(keys, f.Asset)
		}
	}
	return keys
}

// ImageResolver turns fallback asset keys into URLs.
// With an empty BaseURL assets are served by the storefront under /assets.
type ImageResolver struct {
	BaseURL string
}

func (r ImageResolver) URL(asset string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = "/assets"
	}
	return base + "/" + asset
}

// Fallback returns the asset URL for the first keyword contained in name,
// or "" when nothing matches.
func (r ImageResolver) Fallback(name string) string {
	l := strings.ToLower(name)
	for _, f := range fallbackImages {
		if strings.Contains(l, f.Keyword) {
			return r.URL(f.Asset)
		}
	}
	return ""
}
