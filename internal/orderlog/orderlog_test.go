package orderlog

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderID)
	}
	return out
}

func TestListOrderings(t *testing.T) {
	l := New()
	for _, id := range []string{"ORD0001", "ORD0002", "ORD0003"} {
		l.Append(models.Order{OrderID: id})
	}

	assert.Equal(t, []string{"ORD0003", "ORD0002", "ORD0001"}, ids(l.List(NewestFirst)))
	assert.Equal(t, []string{"ORD0001", "ORD0002", "ORD0003"}, ids(l.List(Chronological)))
	// reversing for display does not touch storage
	assert.Equal(t, []string{"ORD0001", "ORD0002", "ORD0003"}, ids(l.List(Chronological)))
}

func TestAppendKeepsDuplicates(t *testing.T) {
	l := New()
	l.Append(models.Order{OrderID: "ORD0001"})
	l.Append(models.Order{OrderID: "ORD0001"})

	assert.Equal(t, 2, l.Len())
}

func TestEmptyLog(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.List(NewestFirst))
	_, ok := l.Get("ORD0001")
	assert.False(t, ok)
}

func TestStoredOrdersAreIsolated(t *testing.T) {
	l := New()
	items := []models.CartLine{{ProductID: "F001", Quantity: 2}}
	l.Append(models.Order{OrderID: "ORD0001", Items: items})

	items[0].Quantity = 50
	listed := l.List(Chronological)
	listed[0].Items[0].Quantity = 70

	got, ok := l.Get("ORD0001")
	require.True(t, ok)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, NewestFirst, o)

	o, err = ParseOrdering("newest")
	require.NoError(t, err)
	assert.Equal(t, NewestFirst, o)

	o, err = ParseOrdering("chronological")
	require.NoError(t, err)
	assert.Equal(t, Chronological, o)

	_, err = ParseOrdering("random")
	assert.Error(t, err)
}
