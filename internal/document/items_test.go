package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem(t *testing.T) {
	items, err := AddItem(nil, ItemInput{Name: "Audit SPT", Qualifier: "5 hari kerja", Price: "250000"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "Audit SPT", items[0].Name)
	assert.Equal(t, "5 hari kerja", items[0].Qualifier)
	assert.Equal(t, 250000.0, items[0].Price)
}

func TestAddItemRejections(t *testing.T) {
	existing := []LineItem{{ID: "keep", Name: "Existing", Price: 1000}}

	tests := []struct {
		name    string
		input   ItemInput
		wantErr error
	}{
		{"empty name", ItemInput{Name: "   ", Price: "1000"}, ErrItemNameRequired},
		{"empty price", ItemInput{Name: "Service", Price: ""}, ErrItemPriceInvalid},
		{"non numeric price", ItemInput{Name: "Service", Price: "abc"}, ErrItemPriceInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := AddItem(existing, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, existing, items, "rejected add must not mutate the collection")
		})
	}
}

func TestAddItemAcceptsZeroAndNegativePrice(t *testing.T) {
	items, err := AddItem(nil, ItemInput{Name: "Gratis", Price: "0"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, items[0].Price)

	items, err = AddItem(items, ItemInput{Name: "Koreksi", Price: "-5000"})
	require.NoError(t, err)
	assert.Equal(t, -5000.0, items[1].Price)
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	original := []LineItem{{ID: "a", Name: "One", Price: 100}}
	next, err := AddItem(original, ItemInput{Name: "Two", Price: "200"})
	require.NoError(t, err)

	require.Len(t, original, 1)
	require.Len(t, next, 2)
}

func TestRemoveItem(t *testing.T) {
	items := []LineItem{
		{ID: "a", Name: "One", Price: 100},
		{ID: "b", Name: "Two", Price: 200},
		{ID: "c", Name: "Three", Price: 300},
	}

	next := RemoveItem(items, "b")
	require.Len(t, next, 2)
	assert.Equal(t, "a", next[0].ID)
	assert.Equal(t, "c", next[1].ID)
}

func TestRemoveItemUnknownIDIsNoop(t *testing.T) {
	items := []LineItem{{ID: "a", Price: 100}, {ID: "b", Price: 200}}
	next := RemoveItem(items, "missing")
	assert.Equal(t, items, next)
}

func TestNewItemIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewItemID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
