package models

import "time"

// BatchStatus enumerates the lifecycle stages of a produce batch.
type BatchStatus string

const (
	StatusPending   BatchStatus = "pending"
	StatusVerified  BatchStatus = "verified"
	StatusRejected  BatchStatus = "rejected"
	StatusInTransit BatchStatus = "in-transit"
	StatusDelivered BatchStatus = "delivered"
	StatusSold      BatchStatus = "sold"
)

// lifecycle holds the legal forward edges of the batch state machine.
// There are no backward edges; rejected and sold are terminal.
var lifecycle = map[BatchStatus][]BatchStatus{
	StatusPending:   {StatusVerified, StatusRejected},
	StatusVerified:  {StatusInTransit},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: {StatusSold},
}

// ParseBatchStatus validates a raw status string.
func ParseBatchStatus(raw string) (BatchStatus, bool) {
	switch s := BatchStatus(raw); s {
	case StatusPending, StatusVerified, StatusRejected, StatusInTransit, StatusDelivered, StatusSold:
		return s, true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, allowed := range lifecycle[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s BatchStatus) Terminal() bool {
	return len(lifecycle[s]) == 0
}

// ProduceBatch is a discrete harvested lot tracked through the supply chain.
// Status is mutated only through the verification workflow; batches are
// never deleted.
type ProduceBatch struct {
	ID             string      `bson:"_id" json:"id"`
	CropType       string      `bson:"crop_type" json:"cropType"`
	Variety        string      `bson:"variety" json:"variety"`
	HarvestDate    string      `bson:"harvest_date" json:"harvestDate"`
	Location       string      `bson:"location" json:"location"`
	FarmerID       string      `bson:"farmer_id" json:"farmerId"`
	FarmerName     string      `bson:"farmer_name" json:"farmerName"`
	Quantity       float64     `bson:"quantity" json:"quantity"`
	Unit           string      `bson:"unit" json:"unit"`
	ImageURL       string      `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Status         BatchStatus `bson:"status" json:"status"`
	CreatedAt      time.Time   `bson:"created_at" json:"createdAt"`
	QualityScore   int         `bson:"quality_score,omitempty" json:"qualityScore,omitempty"`
	Certifications []string    `bson:"certifications,omitempty" json:"certifications,omitempty"`
	BlockchainTxID string      `bson:"blockchain_tx_id,omitempty" json:"blockchainTxId,omitempty"`
}

// TransactionType classifies a provenance ledger entry.
type TransactionType string

const (
	TxHarvest      TransactionType = "harvest"
	TxVerification TransactionType = "verification"
	TxTransfer     TransactionType = "transfer"
	TxSale         TransactionType = "sale"
)

// TransactionStatus reflects the settlement outcome of a ledger entry.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusConfirmed TransactionStatus = "confirmed"
	TxStatusFailed    TransactionStatus = "failed"
)

// Transaction is one entry of a batch's provenance history. Entries are
// append-only; the trace view orders them by timestamp.
type Transaction struct {
	ID             string            `bson:"_id" json:"id"`
	BatchID        string            `bson:"batch_id" json:"batchId"`
	Type           TransactionType   `bson:"type" json:"type"`
	From           string            `bson:"from" json:"from"`
	To             string            `bson:"to" json:"to"`
	Timestamp      time.Time         `bson:"timestamp" json:"timestamp"`
	BlockchainTxID string            `bson:"blockchain_tx_id,omitempty" json:"blockchainTxId,omitempty"`
	Status         TransactionStatus `bson:"status" json:"status"`
}
