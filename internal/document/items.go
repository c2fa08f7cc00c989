package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemInput carries the raw form values for a new line item.
type ItemInput struct {
	Name      string `json:"name"`
	Qualifier string `json:"qualifier"`
	Price     string `json:"price"`
}

// NewItemID generates a line-item id unique within a session: a
// high-resolution timestamp plus a random suffix, stable across removal
// and reordering.
func NewItemID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// AddItem validates the input and returns a new slice with the item
// appended. Rejected input leaves the original slice untouched: the name
// must be non-empty and the price must parse as a number. Negative prices
// are accepted arithmetically.
func AddItem(items []LineItem, input ItemInput) ([]LineItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return items, ErrItemNameRequired
	}
	raw := strings.TrimSpace(input.Price)
	if raw == "" {
		return items, ErrItemPriceInvalid
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return items, ErrItemPriceInvalid
	}

	next := make([]LineItem, len(items), len(items)+1)
	copy(next, items)
	return append(next, LineItem{
		ID:        NewItemID(),
		Name:      name,
		Qualifier: strings.TrimSpace(input.Qualifier),
		Price:     price,
	}), nil
}

// RemoveItem returns a new slice without the item carrying the given id.
// Removing an unknown id is a no-op, not an error.
func RemoveItem(items []LineItem, id string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			continue
		}
		next = append(next, item)
	}
	return next
}
