// Package rediscart persists session carts to Redis as a JSON-serialized
// array of cart lines under a fixed key namespace.
package rediscart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
)

const keyNamespace = "agritrace:cart:"

// Carts live as long as a typical browsing session plus slack.
const cartTTL = 7 * 24 * time.Hour

// Store implements the cart engine's durable storage over Redis.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, addr string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client, logger: logger}, nil
}

func cartKey(sessionID string) string {
	return keyNamespace + sessionID
}

// Load fetches the session's cart lines. A missing key yields an empty
// cart; a corrupt payload is treated the same way after logging, so a bad
// record can never wedge a session.
func (s *Store) Load(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}

	lines, err := DecodeLines(raw)
	if err != nil {
		s.logger.Warn("discarding corrupt cart record",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil
	}
	return lines, nil
}

// Save writes the session's cart lines, replacing any previous record.
// Last writer wins; no cross-session coordination is attempted.
func (s *Store) Save(ctx context.Context, sessionID string, lines []models.CartLine) error {
	payload, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), payload, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// EncodeLines serializes cart lines for storage.
func EncodeLines(lines []models.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return json.Marshal(lines)
}

// DecodeLines deserializes a stored cart record.
func DecodeLines(raw []byte) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
