package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/service/cart"
	"github.com/agritrace/agritrace/internal/service/catalog"
)

// CartHandler serves the session cart endpoints.
type CartHandler struct {
	engine  *cart.Engine
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewCartHandler constructs the HTTP handler adapter.
func NewCartHandler(engine *cart.Engine, catalogSvc *catalog.Service, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{engine: engine, catalog: catalogSvc, logger: logger}
}

// Get renders the session's cart with derived count, total, and the
// currently visible toasts.
func (h *CartHandler) Get(c *gin.Context) {
	sessionID := c.Param("sessionId")
	ctx := c.Request.Context()

	c.JSON(http.StatusOK, gin.H{
		"lines":  h.engine.Lines(ctx, sessionID),
		"count":  h.engine.Count(ctx, sessionID),
		"total":  h.engine.Total(ctx, sessionID),
		"toasts": h.engine.Toasts(sessionID),
	})
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// AddItem merges an item into the cart. Stock-cap rejections are not
// errors; the outcome shows up in the returned toasts.
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.catalog.Get(req.ItemID)
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	ctx := c.Request.Context()
	if err := h.engine.AddToCart(ctx, sessionID, item, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lines":  h.engine.Lines(ctx, sessionID),
		"count":  h.engine.Count(ctx, sessionID),
		"total":  h.engine.Total(ctx, sessionID),
		"toasts": h.engine.Toasts(sessionID),
	})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity exactly; zero removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID := c.Param("sessionId")
	itemID := c.Param("itemId")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	available := 0
	if item, err := h.catalog.Get(itemID); err == nil {
		available = item.TotalQuantity
	}
	if raw := c.Query("available"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			available = v
		}
	}

	ctx := c.Request.Context()
	h.engine.UpdateQuantity(ctx, sessionID, itemID, req.Quantity, available)

	c.JSON(http.StatusOK, gin.H{
		"lines":  h.engine.Lines(ctx, sessionID),
		"count":  h.engine.Count(ctx, sessionID),
		"total":  h.engine.Total(ctx, sessionID),
		"toasts": h.engine.Toasts(sessionID),
	})
}

// RemoveItem deletes a line; removing an absent item is a no-op.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := c.Param("sessionId")
	itemID := c.Param("itemId")

	ctx := c.Request.Context()
	h.engine.RemoveFromCart(ctx, sessionID, itemID)

	c.JSON(http.StatusOK, gin.H{
		"lines": h.engine.Lines(ctx, sessionID),
		"count": h.engine.Count(ctx, sessionID),
		"total": h.engine.Total(ctx, sessionID),
	})
}

// ListCatalog returns every produce listing.
func (h *CartHandler) ListCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.catalog.List()})
}

// ListVerifiedCatalog returns only distributor-verified listings.
func (h *CartHandler) ListVerifiedCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.catalog.ListVerified()})
}
