// Package cart implements the stock-aware shopping cart engine. The engine
// is the authoritative in-session record of selected items; every mutation
// is a single synchronous state transition written through to the durable
// store.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/notify"
)

// ErrInvalidQuantity indicates an add with a quantity below 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Store persists a session's cart lines. Load returns the lines last saved
// for the session, or an empty slice when none exist.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []models.CartLine) error
}

// Catalog resolves item prices at read time. Totals therefore follow
// catalog price changes; the cart never snapshots prices.
type Catalog interface {
	UnitPrice(itemID string) (float64, bool)
}

// Engine maintains one cart per browsing session. Stock-cap violations are
// recoverable outcomes surfaced as toasts, never errors; store failures
// degrade to in-memory operation.
type Engine struct {
	mu      sync.Mutex
	carts   map[string][]models.CartLine
	store   Store
	catalog Catalog
	toasts  *notify.ToastQueue
	logger  *zap.Logger
}

// NewEngine wires a cart engine over the given store and catalog.
func NewEngine(store Store, catalog Catalog, toasts *notify.ToastQueue, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		carts:   make(map[string][]models.CartLine),
		store:   store,
		catalog: catalog,
		toasts:  toasts,
		logger:  logger,
	}
}

// lines returns the session's cart, loading it from the store on first
// touch. A load failure resets the cart to empty rather than propagating.
func (e *Engine) lines(ctx context.Context, sessionID string) []models.CartLine {
	if cached, ok := e.carts[sessionID]; ok {
		return cached
	}

	loaded, err := e.store.Load(ctx, sessionID)
	if err != nil {
		e.logger.Warn("cart load failed, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
		loaded = nil
	}
	e.carts[sessionID] = loaded
	return loaded
}

// persist writes the session's cart back to the store. A save failure is
// logged and the in-memory cart stays authoritative for the session.
func (e *Engine) persist(ctx context.Context, sessionID string, lines []models.CartLine) {
	e.carts[sessionID] = lines
	if err := e.store.Save(ctx, sessionID, lines); err != nil {
		e.logger.Warn("cart save failed, continuing in memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// AddToCart merges quantity units of item into the session's cart. The add
// is capped, not partially filled: when the existing line plus the request
// would exceed the item's available stock the cart is left unchanged and a
// toast names the maximum available quantity.
func (e *Engine) AddToCart(ctx context.Context, sessionID string, item models.InventoryItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.lines(ctx, sessionID)

	existingQty := 0
	existingIdx := -1
	for i, line := range lines {
		if line.ItemID == item.ID {
			existingQty = line.Quantity
			existingIdx = i
			break
		}
	}

	if existingQty+quantity > item.TotalQuantity {
		e.toasts.Push(sessionID, fmt.Sprintf("Only %d kg of %s available.", item.TotalQuantity, item.Name))
		return nil
	}

	updated := append([]models.CartLine(nil), lines...)
	if existingIdx >= 0 {
		updated[existingIdx].Quantity += quantity
	} else {
		updated = append(updated, models.CartLine{ItemID: item.ID, Quantity: quantity})
	}

	e.persist(ctx, sessionID, updated)
	e.toasts.Push(sessionID, fmt.Sprintf("%s added (x%d) to cart!", item.Name, quantity))
	return nil
}

// UpdateQuantity sets a line's quantity exactly. Below 1 it behaves as
// RemoveFromCart; above the available stock the cart is unchanged and a
// toast reports the cap.
func (e *Engine) UpdateQuantity(ctx context.Context, sessionID, itemID string, newQuantity, availableQuantity int) {
	if newQuantity < 1 {
		e.RemoveFromCart(ctx, sessionID, itemID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if newQuantity > availableQuantity {
		e.toasts.Push(sessionID, fmt.Sprintf("Max available: %d kg", availableQuantity))
		return
	}

	lines := e.lines(ctx, sessionID)
	updated := append([]models.CartLine(nil), lines...)
	for i := range updated {
		if updated[i].ItemID == itemID {
			updated[i].Quantity = newQuantity
		}
	}
	e.persist(ctx, sessionID, updated)
}

// RemoveFromCart deletes the item's line. Removing an absent item is a
// silent no-op.
func (e *Engine) RemoveFromCart(ctx context.Context, sessionID, itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.lines(ctx, sessionID)
	updated := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ItemID != itemID {
			updated = append(updated, line)
		}
	}
	e.persist(ctx, sessionID, updated)
}

// Lines returns a copy of the session's cart lines in insertion order.
func (e *Engine) Lines(ctx context.Context, sessionID string) []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.CartLine(nil), e.lines(ctx, sessionID)...)
}

// Count is the sum of all line quantities, recomputed on every read.
func (e *Engine) Count(ctx context.Context, sessionID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, line := range e.lines(ctx, sessionID) {
		count += line.Quantity
	}
	return count
}

// Total is the sum of quantity times unit price per line, with prices
// resolved from the catalog at read time. Lines whose item vanished from
// the catalog contribute nothing.
func (e *Engine) Total(ctx context.Context, sessionID string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0.0
	for _, line := range e.lines(ctx, sessionID) {
		if price, ok := e.catalog.UnitPrice(line.ItemID); ok {
			total += price * float64(line.Quantity)
		}
	}
	return total
}

// Toasts returns the session's currently visible notifications.
func (e *Engine) Toasts(sessionID string) []models.Toast {
	return e.toasts.Active(sessionID)
}
