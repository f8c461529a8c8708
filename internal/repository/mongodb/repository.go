package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agritrace/agritrace/internal/domain/models"
)

// ErrRoleNotFound indicates no role has been saved for the user id.
var ErrRoleNotFound = errors.New("role not found")

// ErrBatchNotFound indicates the batch id is unknown.
var ErrBatchNotFound = errors.New("batch not found")

// ErrConcurrentTransition indicates the batch left the expected status
// before the update landed, usually because another actor transitioned it.
var ErrConcurrentTransition = errors.New("batch concurrently transitioned")

// Repository defines the persistence operations the services depend on.
type Repository interface {
	SaveRole(ctx context.Context, userID string, role models.Role) error
	GetRole(ctx context.Context, userID string) (models.Role, error)

	InsertBatch(ctx context.Context, batch models.ProduceBatch) error
	GetBatch(ctx context.Context, batchID string) (models.ProduceBatch, error)
	ListBatches(ctx context.Context, status models.BatchStatus) ([]models.ProduceBatch, error)
	TransitionBatch(ctx context.Context, batchID string, from, to models.BatchStatus, txID string) error

	InsertTransaction(ctx context.Context, tx models.Transaction) error
	ListTransactionsByBatch(ctx context.Context, batchID string) ([]models.Transaction, error)
	ListTransactionsSince(ctx context.Context, since time.Time) ([]models.Transaction, error)
}

const (
	rolesCollection        = "users"
	batchesCollection      = "batches"
	transactionsCollection = "transactions"
)

type userRecord struct {
	UserID string      `bson:"_id"`
	Role   models.Role `bson:"role"`
}

// MongoDBRepository implements Repository backed by MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects, pings, and returns the repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// SaveRole upserts the user's role. A repeated save overwrites; no history
// is kept.
func (r *MongoDBRepository) SaveRole(ctx context.Context, userID string, role models.Role) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"role": role}}

	_, err := r.collection(rolesCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert role for %s: %w", userID, err)
	}
	return nil
}

// GetRole fetches the role saved for the user id.
func (r *MongoDBRepository) GetRole(ctx context.Context, userID string) (models.Role, error) {
	var record userRecord
	err := r.collection(rolesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrRoleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch role for %s: %w", userID, err)
	}
	return record.Role, nil
}

// InsertBatch stores a newly submitted batch.
func (r *MongoDBRepository) InsertBatch(ctx context.Context, batch models.ProduceBatch) error {
	if _, err := r.collection(batchesCollection).InsertOne(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert batch %s: %w", batch.ID, err)
	}
	return nil
}

// GetBatch fetches one batch by id.
func (r *MongoDBRepository) GetBatch(ctx context.Context, batchID string) (models.ProduceBatch, error) {
	var batch models.ProduceBatch
	err := r.collection(batchesCollection).FindOne(ctx, bson.M{"_id": batchID}).Decode(&batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProduceBatch{}, ErrBatchNotFound
	}
	if err != nil {
		return models.ProduceBatch{}, fmt.Errorf("failed to fetch batch %s: %w", batchID, err)
	}
	return batch, nil
}

// ListBatches returns batches newest first, optionally filtered to one status.
func (r *MongoDBRepository) ListBatches(ctx context.Context, status models.BatchStatus) ([]models.ProduceBatch, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.collection(batchesCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer cursor.Close(ctx)

	var batches []models.ProduceBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}
	return batches, nil
}

// TransitionBatch moves a batch from one status to another with an
// optimistic concurrency check: the update matches on the expected current
// status and reports ErrConcurrentTransition when the batch already moved.
func (r *MongoDBRepository) TransitionBatch(ctx context.Context, batchID string, from, to models.BatchStatus, txID string) error {
	filter := bson.M{"_id": batchID, "status": from}
	set := bson.M{"status": to}
	if txID != "" {
		set["blockchain_tx_id"] = txID
	}

	result, err := r.collection(batchesCollection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to transition batch %s: %w", batchID, err)
	}
	if result.MatchedCount == 0 {
		// Distinguish an unknown batch from a concurrent transition.
		if _, err := r.GetBatch(ctx, batchID); errors.Is(err, ErrBatchNotFound) {
			return ErrBatchNotFound
		}
		return ErrConcurrentTransition
	}
	return nil
}

// InsertTransaction appends one provenance ledger entry.
func (r *MongoDBRepository) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	if _, err := r.collection(transactionsCollection).InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

// ListTransactionsByBatch returns a batch's provenance history, oldest first.
func (r *MongoDBRepository) ListTransactionsByBatch(ctx context.Context, batchID string) ([]models.Transaction, error) {
	cursor, err := r.collection(transactionsCollection).Find(ctx,
		bson.M{"batch_id": batchID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for batch %s: %w", batchID, err)
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

// ListTransactionsSince returns ledger entries with timestamps at or after
// the given time, oldest first. Used by the daily audit export.
func (r *MongoDBRepository) ListTransactionsSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	cursor, err := r.collection(transactionsCollection).Find(ctx,
		bson.M{"timestamp": bson.M{"$gte": since}},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
