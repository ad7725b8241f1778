package cart

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddMergesQuantityAndKeepsFirstPrice(t *testing.T) {
	c := New()

	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))
	require.NoError(t, c.Add("F001", "Apples (renamed)", price("5.00"), 3))

	assert.Equal(t, 1, c.Len())
	line, ok := c.Line("F001")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, "Fresh Apples", line.Name)
	assert.True(t, price("3.99").Equal(line.UnitPrice))
}

func TestAddRejectsInvalidInput(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.Add("F001", "Fresh Apples", price("3.99"), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("F001", "Fresh Apples", price("3.99"), -2), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("", "Nothing", price("1.00"), 1), ErrInvalidProduct)
	assert.ErrorIs(t, c.Add("F001", "Fresh Apples", price("-0.01"), 1), ErrInvalidPrice)
	assert.True(t, c.IsEmpty())
}

func TestAddHasNoStockBound(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("M003", "Fresh Salmon", price("15.99"), 10000))

	line, _ := c.Line("M003")
	assert.Equal(t, 10000, line.Quantity)
}

func TestAddRejectsQuantityOverflow(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), math.MaxInt))

	assert.ErrorIs(t, c.Add("F001", "Fresh Apples", price("3.99"), 2), ErrQuantityOverflow)

	line, ok := c.Line("F001")
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, line.Quantity)
	assert.True(t, c.Total().IsPositive())

	require.NoError(t, c.Add("D001", "Fresh Milk", price("4.99"), math.MaxInt-1))
	require.NoError(t, c.Add("D001", "Fresh Milk", price("4.99"), 1))
	line, _ = c.Line("D001")
	assert.Equal(t, math.MaxInt, line.Quantity)
}

func TestTotal(t *testing.T) {
	c := New()
	assert.True(t, c.Total().IsZero())

	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))
	require.NoError(t, c.Add("D001", "Fresh Milk", price("4.99"), 1))

	assert.Equal(t, "12.97", c.Total().StringFixed(2))
	assert.True(t, price("12.97").Equal(c.Total()))
}

func TestRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))
	require.NoError(t, c.Add("D001", "Fresh Milk", price("4.99"), 1))
	require.NoError(t, c.Add("B002", "Croissants", price("4.99"), 1))

	c.Remove("D001")

	assert.Equal(t, 2, c.Len())
	lines := c.Lines()
	assert.Equal(t, "F001", lines[0].ProductID)
	assert.Equal(t, "B002", lines[1].ProductID)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))
	before := c.Lines()

	c.Remove("NOPE")
	c.Remove("NOPE")

	assert.Equal(t, before, c.Lines())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Lines())
	assert.True(t, c.Total().IsZero())

	require.NoError(t, c.Add("D001", "Fresh Milk", price("4.99"), 1))
	assert.Equal(t, 1, c.Len())
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"M001", "B001", "F003", "BEV002"} {
		require.NoError(t, c.Add(id, id, price("1.00"), 1))
	}
	require.NoError(t, c.Add("B001", "B001", price("1.00"), 1))

	var ids []string
	for _, l := range c.Lines() {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []string{"M001", "B001", "F003", "BEV002"}, ids)
}

func TestSnapshotIsIsolated(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 2))

	snap := c.Snapshot()
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 5))
	c.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, 2, snap[0].Quantity)

	snap[0].Quantity = 99
	require.NoError(t, c.Add("F001", "Fresh Apples", price("3.99"), 1))
	line, _ := c.Line("F001")
	assert.Equal(t, 1, line.Quantity)
}
