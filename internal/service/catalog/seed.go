package catalog

import "github.com/agritrace/agritrace/internal/domain/models"

// seedItems is the default produce listing.
func seedItems() []models.InventoryItem {
	return []models.InventoryItem{
		{
			ID:                 "1",
			Name:               "Roma Tomatoes",
			Category:           "Vegetable",
			OriginLocation:     "Nashik, Maharashtra",
			TotalQuantity:      150,
			UnitPrice:          60,
			VerificationStatus: models.VerificationPending,
		},
		{
			ID:                 "2",
			Name:               "Basmati Rice",
			Category:           "Grain",
			OriginLocation:     "Dehradun, Uttarakhand",
			TotalQuantity:      200,
			UnitPrice:          120,
			VerificationStatus: models.VerificationVerified,
		},
		{
			ID:                 "3",
			Name:               "Himalayan Potatoes",
			Category:           "Vegetable",
			OriginLocation:     "Shimla, Himachal Pradesh",
			TotalQuantity:      100,
			UnitPrice:          40,
			VerificationStatus: models.VerificationPending,
		},
		{
			ID:                 "4",
			Name:               "Punjab Wheat",
			Category:           "Grain",
			OriginLocation:     "Ludhiana, Punjab",
			TotalQuantity:      300,
			UnitPrice:          100,
			VerificationStatus: models.VerificationVerified,
		},
	}
}
