package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMalformedMenu = errors.New("malformed menu payload")
	ErrMissingItemID = errors.New("menu item has no id")
	ErrInvalidPrice  = errors.New("menu item has an invalid price")
)

// Options controls the lenient parts of normalization.
type Options struct {
	// AllowGeneratedIDs gives id-less items a random id instead of failing.
	// Such ids change on every fetch, so carts cannot refer to them reliably.
	AllowGeneratedIDs bool

	Images ImageResolver
}

// Priority order of id-like fields on a raw item.
var itemIDFields = []string{"id", "pk", "uuid", "uuid4", "_id", "uuid_str"}

// Normalize decodes a backend menu response and normalizes it.
func Normalize(raw []byte, opts Options) ([]Category, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []Category{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMenu, err)
	}
	return NormalizeValue(v, opts)
}

// NormalizeValue normalizes an already decoded payload: an object with a
// "menu" or "categories" list, or the list itself. Each list element is
// either a category with "items" or, when the first element has no
// "items" field, a plain item. Plain items end up in one "All" category.
func NormalizeValue(v any, opts Options) ([]Category, error) {
	list := pickList(v)
	if len(list) == 0 {
		return []Category{}, nil
	}

	first, _ := list[0].(map[string]any)
	if _, hasItems := first["items"]; first == nil || !hasItems {
		items, err := normalizeItems(list, AllCategory, opts)
		if err != nil {
			return nil, err
		}
		return []Category{{ID: "all", Name: AllCategory, Items: items}}, nil
	}

	cats := make([]Category, 0, len(list))
	for i, rc := range list {
		obj, ok := rc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: category %d is not an object", ErrMalformedMenu, i)
		}

		name, ok := firstString(obj, "name", "title")
		if !ok {
			name = "Category"
		}
		id, ok := firstString(obj, "id", "pk", "name")
		if !ok {
			id = name
		}

		rawItems, _ := obj["items"].([]any)
		items, err := normalizeItems(rawItems, name, opts)
		if err != nil {
			return nil, err
		}

		cats = append(cats, Category{ID: id, Name: name, Items: items})
	}

	return cats, nil
}

func pickList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, key := range []string{"menu", "categories"} {
			val, ok := t[key]
			if !ok || val == nil {
				continue
			}
			list, _ := val.([]any)
			return list
		}
	}
	return nil
}

func normalizeItems(list []any, category string, opts Options) ([]Item, error) {
	items := make([]Item, 0, len(list))
	for i, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrMalformedMenu, i)
		}
		it, err := normalizeItem(obj, opts)
		if err != nil {
			return nil, err
		}
		it.Category = category
		if it.Category == "" {
			it.Category = CategoryOf(obj)
		}
		items = append(items, it)
	}
	return items, nil
}

func normalizeItem(raw map[string]any, opts Options) (Item, error) {
	name, ok := firstString(raw, "name", "title")
	if !ok {
		name = "Unnamed"
	}

	id, ok := firstString(raw, itemIDFields...)
	if !ok {
		if !opts.AllowGeneratedIDs {
			return Item{}, fmt.Errorf("%w: %q", ErrMissingItemID, name)
		}
		id = uuid.New().String()
	}

	description, _ := firstString(raw, "description", "summary")

	price, err := parsePrice(raw["price"])
	if err != nil {
		return Item{}, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, name, err)
	}

	return Item{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Image:       pickImage(raw, name, opts.Images),
	}, nil
}

// CategoryOf derives the category name a raw item carries on its own. It is
// only consulted when the enclosing category has an empty name.
func CategoryOf(raw map[string]any) string {
	switch c := raw["category"].(type) {
	case string:
		if c != "" {
			return c
		}
	case map[string]any:
		if name, ok := c["name"].(string); ok && name != "" {
			return name
		}
	}

	for _, key := range []string{"category_name", "categoryId", "category_id"} {
		if s, ok := stringOf(raw[key]); ok && s != "" {
			return s
		}
	}
	return UncategorizedCategory
}

func parsePrice(v any) (float64, error) {
	var price float64

	switch p := v.(type) {
	case nil:
		return 0, nil
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		price = f
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, err
		}
		price = f
	case float64:
		price = p
	default:
		return 0, fmt.Errorf("unsupported price type %T", v)
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errors.New("price is not a finite number")
	}
	if price < 0 {
		return 0, errors.New("negative price")
	}
	return price, nil
}

func pickImage(raw map[string]any, name string, images ImageResolver) string {
	for _, key := range []string{"image_url", "image"} {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return images.Fallback(name)
}

// firstString returns the first key that is present and non-null.
func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := stringOf(obj[k]); ok {
			return s, true
		}
	}
	return "", false
}

func stringOf(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		// objects and arrays carry no usable scalar
		return "", false
	}
}
