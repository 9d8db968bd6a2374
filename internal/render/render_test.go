package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/medkit/internal/domain"
)

func item(name string, qty string, expiry *time.Time) domain.ItemDetails {
	return domain.ItemDetails{
		Item:     domain.Item{Quantity: decimal.RequireFromString(qty), Unit: "pcs", ExpiryDate: expiry},
		Medicine: domain.Medicine{Name: name, Type: domain.MedicineTypeTablets, Category: domain.CategoryPainkiller},
		KitName:  "Home",
	}
}

func TestQuantity(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2,5", Quantity(decimal.RequireFromString("2.50")))
	assert.Equal(t, "10", Quantity(decimal.NewFromInt(10)))
}

func TestItemLine(t *testing.T) {
	t.Parallel()
	d := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "💊 Aspirin: 10 pcs, до 30.11.2025", ItemLine(item("Aspirin", "10", &d)))
	assert.Equal(t, "💊 Aspirin: 0,5 pcs", ItemLine(item("Aspirin", "0.5", nil)))
}

func TestItemCard_MarksExpired(t *testing.T) {
	t.Parallel()
	d := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	card := ItemCard(item("Aspirin", "1", &d), time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, card, "просрочено")
	assert.Contains(t, card, "не проверена")

	card = ItemCard(item("Aspirin", "1", &d), d)
	assert.NotContains(t, card, "просрочено")
}

func TestDigest(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Digest(nil, nil, 7))

	d := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	text := Digest([]domain.ItemDetails{item("Aspirin", "1", &d)}, nil, 7)
	assert.Contains(t, text, "Просроченные")
	assert.NotContains(t, text, "Истекают")

	text = Digest(nil, []domain.ItemDetails{item("Nurofen", "1", &d)}, 7)
	assert.Contains(t, text, "7 дн.")
	assert.Contains(t, text, "Nurofen")
}
