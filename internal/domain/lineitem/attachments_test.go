package lineitem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

func TestAttachDetachAreIdempotent(t *testing.T) {
	a := New(7)

	assert.True(t, a.AttachService(1))
	assert.False(t, a.AttachService(1))
	assert.Equal(t, []uint{1}, a.Services)

	assert.True(t, a.DetachService(1))
	assert.False(t, a.DetachService(1))
	assert.Empty(t, a.Services)
}

func TestDetachKeepsOrder(t *testing.T) {
	a := New(1)
	a.ReplaceServices([]uint{3, 1, 2, 1})

	assert.Equal(t, []uint{3, 1, 2}, a.Services)

	a.DetachService(1)
	assert.Equal(t, []uint{3, 2}, a.Services)
}

func TestSeedRunsOnce(t *testing.T) {
	a := New(1)
	a.AttachService(4)
	assert.False(t, a.Disposable())

	assert.True(t, a.Seed([]uint{1, 4, 2}))
	assert.Equal(t, []uint{4, 1, 2}, a.Services)

	a.DetachService(1)
	assert.False(t, a.Seed([]uint{1}))
	assert.Equal(t, []uint{4, 2}, a.Services)

	a.Clear()
	assert.True(t, a.Empty())
	assert.False(t, a.Disposable())
	assert.True(t, a.Clone().Seeded)
}

func TestSetProductQuantityZeroRemovesEntry(t *testing.T) {
	a := New(1)

	a.SetProductQuantity(5, 3)
	assert.Equal(t, 3, a.ProductQuantity(5))

	a.SetProductQuantity(5, 0)
	_, present := a.Products[5]
	assert.False(t, present)

	a.SetProductQuantity(5, -4)
	_, present = a.Products[5]
	assert.False(t, present)
	assert.True(t, a.Empty())
}

func TestIncrementRefusedWhenOutOfStock(t *testing.T) {
	a := New(1)

	assert.False(t, a.IncrementProduct(models.InventoryItem{ID: 9, Quantity: 0}))
	assert.Equal(t, 0, a.ProductQuantity(9))

	assert.True(t, a.IncrementProduct(models.InventoryItem{ID: 9, Quantity: 4}))
	assert.True(t, a.IncrementProduct(models.InventoryItem{ID: 9, Quantity: 4}))
	assert.Equal(t, 2, a.ProductQuantity(9))
}

func TestDecrementFloorsAtZero(t *testing.T) {
	a := New(1)

	assert.False(t, a.DecrementProduct(9))

	a.SetProductQuantity(9, 1)
	assert.True(t, a.DecrementProduct(9))
	assert.False(t, a.DecrementProduct(9))

	_, present := a.Products[9]
	assert.False(t, present)
}

func TestClearAndClone(t *testing.T) {
	a := New(1)
	a.AttachService(2)
	a.SetProductQuantity(3, 2)

	c := a.Clone()
	a.Clear()

	assert.True(t, a.Empty())
	assert.Equal(t, []uint{2}, c.Services)
	assert.Equal(t, 2, c.ProductQuantity(3))
}

func TestZeroValueAttachmentsAcceptProducts(t *testing.T) {
	var a Attachments
	a.SetProductQuantity(1, 2)
	assert.Equal(t, 2, a.ProductQuantity(1))
}
