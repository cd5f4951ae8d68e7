package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

func billedEntry() models.Entry {
	return models.Entry{
		ID: 314, Name: "Alice", Number: "555", Date: "2024-01-01",
		Status: models.StatusDone,
		BillItems: []models.BillItem{
			{ProductID: 1, ProductName: "Coffee", Quantity: 2, UnitPrice: 2.50, SubTotal: 5.00},
			{ProductID: 2, ProductName: "Tea", Quantity: 1, UnitPrice: 1.75, SubTotal: 1.75},
		},
		TotalPrice: 6.75,
	}
}

func TestRenderBilledEntry(t *testing.T) {
	html, err := Render(billedEntry())
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Receipt #314</title>")
	assert.Contains(t, html, "Receipt #314")
	assert.Contains(t, html, "2024-01-01")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "Coffee")
	assert.Contains(t, html, "Tea")
	assert.Contains(t, html, "$2.50")
	assert.Contains(t, html, "$5.00")
	assert.Contains(t, html, "$1.75")
	assert.Contains(t, html, "$6.75")
}

func TestRenderEscapesClientName(t *testing.T) {
	entry := billedEntry()
	entry.Name = "<script>alert(1)</script>"

	html, err := Render(entry)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderRefusesUnbilledEntry(t *testing.T) {
	for _, status := range []models.EntryStatus{models.StatusPending, models.StatusOnHold} {
		entry := billedEntry()
		entry.Status = status

		_, err := Render(entry)
		assert.ErrorIs(t, err, models.ErrInvalidState, "status %s", status)
	}
}

func TestRenderZeroItemBill(t *testing.T) {
	entry := billedEntry()
	entry.BillItems = nil
	entry.TotalPrice = 0

	html, err := Render(entry)
	require.NoError(t, err)
	assert.Contains(t, html, "$0.00")
}
