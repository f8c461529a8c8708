// Package catalog serves the produce inventory listing shoppers browse and
// resolves unit prices for the cart engine.
package catalog

import (
	"errors"

	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
)

// ErrItemNotFound indicates the item id is not in the catalog.
var ErrItemNotFound = errors.New("catalog item not found")

// Service holds the seeded inventory. Items are read-only after seeding;
// stock decrement on fulfilled sale is out of scope.
type Service struct {
	items  []models.InventoryItem
	byID   map[string]models.InventoryItem
	logger *zap.Logger
}

// NewService builds a catalog from the provided items. Pass nil to use the
// built-in seed.
func NewService(items []models.InventoryItem, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if items == nil {
		items = seedItems()
	}

	byID := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	logger.Info("catalog seeded", zap.Int("items", len(items)))
	return &Service{items: items, byID: byID, logger: logger}
}

// List returns all catalog items.
func (s *Service) List() []models.InventoryItem {
	return append([]models.InventoryItem(nil), s.items...)
}

// ListVerified returns only the items whose claims a distributor confirmed.
func (s *Service) ListVerified() []models.InventoryItem {
	verified := make([]models.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		if item.VerificationStatus == models.VerificationVerified {
			verified = append(verified, item)
		}
	}
	return verified
}

// Get looks an item up by id.
func (s *Service) Get(itemID string) (models.InventoryItem, error) {
	item, ok := s.byID[itemID]
	if !ok {
		return models.InventoryItem{}, ErrItemNotFound
	}
	return item, nil
}

// UnitPrice resolves the current price for an item. Implements the cart
// engine's Catalog dependency.
func (s *Service) UnitPrice(itemID string) (float64, bool) {
	item, ok := s.byID[itemID]
	if !ok {
		return 0, false
	}
	return item.UnitPrice, true
}
