package models

// VerificationStatus marks whether an inventory item's claims have been
// confirmed by a distributor.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationVerified VerificationStatus = "Verified"
)

// InventoryItem is one produce listing available to shoppers. Everything
// except VerificationStatus and TotalQuantity is immutable after seeding.
type InventoryItem struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Category           string             `json:"category"`
	OriginLocation     string             `json:"originLocation"`
	TotalQuantity      int                `json:"totalQuantity"`
	UnitPrice          float64            `json:"unitPrice"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	ImageURL           string             `json:"imageUrl,omitempty"`
}
