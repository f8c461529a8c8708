package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agritrace/agritrace/internal/domain/models"
)

func TestDefaultSeed(t *testing.T) {
	svc := NewService(nil, nil)

	items := svc.List()
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.GreaterOrEqual(t, item.TotalQuantity, 0)
		assert.GreaterOrEqual(t, item.UnitPrice, 0.0)
	}
}

func TestListVerifiedFilters(t *testing.T) {
	svc := NewService([]models.InventoryItem{
		{ID: "1", Name: "Tomato", VerificationStatus: models.VerificationPending},
		{ID: "2", Name: "Rice", VerificationStatus: models.VerificationVerified},
		{ID: "3", Name: "Wheat", VerificationStatus: models.VerificationVerified},
	}, nil)

	verified := svc.ListVerified()
	require.Len(t, verified, 2)
	for _, item := range verified {
		assert.Equal(t, models.VerificationVerified, item.VerificationStatus)
	}
}

func TestGetAndUnitPrice(t *testing.T) {
	svc := NewService([]models.InventoryItem{
		{ID: "2", Name: "Rice", UnitPrice: 120},
	}, nil)

	item, err := svc.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Rice", item.Name)

	price, ok := svc.UnitPrice("2")
	assert.True(t, ok)
	assert.Equal(t, 120.0, price)

	_, err = svc.Get("99")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, ok = svc.UnitPrice("99")
	assert.False(t, ok)
}
