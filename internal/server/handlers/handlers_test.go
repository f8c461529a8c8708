package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/notify"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/internal/service/cart"
	"github.com/agritrace/agritrace/internal/service/catalog"
	"github.com/agritrace/agritrace/internal/service/roles"
	"github.com/agritrace/agritrace/internal/service/verification"
)

// stubRepo is an in-memory mongodb.Repository good enough for handler tests.
type stubRepo struct {
	roles   map[string]models.Role
	batches map[string]models.ProduceBatch
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		roles:   make(map[string]models.Role),
		batches: make(map[string]models.ProduceBatch),
	}
}

func (s *stubRepo) SaveRole(_ context.Context, userID string, role models.Role) error {
	s.roles[userID] = role
	return nil
}

func (s *stubRepo) GetRole(_ context.Context, userID string) (models.Role, error) {
	role, ok := s.roles[userID]
	if !ok {
		return "", mongodb.ErrRoleNotFound
	}
	return role, nil
}

func (s *stubRepo) InsertBatch(_ context.Context, batch models.ProduceBatch) error {
	s.batches[batch.ID] = batch
	return nil
}

func (s *stubRepo) GetBatch(_ context.Context, batchID string) (models.ProduceBatch, error) {
	batch, ok := s.batches[batchID]
	if !ok {
		return models.ProduceBatch{}, mongodb.ErrBatchNotFound
	}
	return batch, nil
}

func (s *stubRepo) ListBatches(context.Context, models.BatchStatus) ([]models.ProduceBatch, error) {
	return nil, nil
}

func (s *stubRepo) TransitionBatch(_ context.Context, batchID string, from, to models.BatchStatus, txID string) error {
	batch := s.batches[batchID]
	batch.Status = to
	s.batches[batchID] = batch
	return nil
}

func (s *stubRepo) InsertTransaction(context.Context, models.Transaction) error { return nil }
func (s *stubRepo) ListTransactionsByBatch(context.Context, string) ([]models.Transaction, error) {
	return nil, nil
}
func (s *stubRepo) ListTransactionsSince(context.Context, time.Time) ([]models.Transaction, error) {
	return nil, nil
}

// stubWorkflow records calls and returns canned outcomes.
type stubWorkflow struct {
	verifyErr error
}

func (s *stubWorkflow) SubmitBatch(_ context.Context, batch models.ProduceBatch) (models.ProduceBatch, error) {
	batch.ID = "BTH999"
	batch.Status = models.StatusPending
	return batch, nil
}

func (s *stubWorkflow) VerifyBatch(_ context.Context, batchID string, action verification.Action) (models.ProduceBatch, error) {
	if s.verifyErr != nil {
		return models.ProduceBatch{}, s.verifyErr
	}
	return models.ProduceBatch{ID: batchID, Status: models.StatusVerified}, nil
}

func (s *stubWorkflow) UpdateStatus(_ context.Context, batchID string, newStatus models.BatchStatus) (models.ProduceBatch, error) {
	return models.ProduceBatch{ID: batchID, Status: newStatus}, nil
}

func newRoleRouter(repo mongodb.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRoleHandler(roles.NewService(repo, nil), nil)
	r := gin.New()
	r.POST("/save-role", handler.SaveRole)
	r.GET("/get-role/:userId", handler.GetRole)
	return r
}

func TestSaveRoleAndGetRole(t *testing.T) {
	r := newRoleRouter(newStubRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/save-role",
		strings.NewReader(`{"userId":"user-1","role":"farmer"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var saved struct {
		Success bool   `json:"success"`
		Role    string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.True(t, saved.Success)
	assert.Equal(t, "farmer", saved.Role)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get-role/user-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"farmer"}`, w.Body.String())
}

func TestSaveRoleMissingFields(t *testing.T) {
	r := newRoleRouter(newStubRepo())

	for _, body := range []string{`{}`, `{"userId":"u1"}`, `{"role":"farmer"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/save-role", strings.NewReader(body))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestGetRoleUnknownUser(t *testing.T) {
	r := newRoleRouter(newStubRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get-role/nobody", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newBatchRouter(workflow verification.Workflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBatchHandler(workflow, nil, newStubRepo(), nil)
	r := gin.New()
	r.POST("/api/batches", handler.Submit)
	r.POST("/api/batches/:id/verify", handler.Verify)
	r.POST("/api/batches/:id/status", handler.UpdateStatus)
	return r
}

func TestVerifyBatchEndpoint(t *testing.T) {
	r := newBatchRouter(&stubWorkflow{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/batches/BTH001/verify",
		strings.NewReader(`{"action":"verify"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var batch models.ProduceBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, models.StatusVerified, batch.Status)
}

func TestVerifyBatchEndpointConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not pending", verification.ErrInvalidTransition, http.StatusConflict},
		{"in flight", verification.ErrBatchInFlight, http.StatusConflict},
		{"concurrent transition", mongodb.ErrConcurrentTransition, http.StatusConflict},
		{"ledger timeout", verification.ErrConfirmationTimeout, http.StatusGatewayTimeout},
		{"unknown batch", mongodb.ErrBatchNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBatchRouter(&stubWorkflow{verifyErr: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/batches/BTH001/verify",
				strings.NewReader(`{"action":"verify"}`))
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestSubmitBatchEndpointValidation(t *testing.T) {
	r := newBatchRouter(&stubWorkflow{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/batches",
		strings.NewReader(`{"cropType":"Tomatoes"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/batches",
		strings.NewReader(`{"cropType":"Tomatoes","harvestDate":"2025-01-10","location":"Organic Valley Farm","farmerId":"FRM001","quantity":150}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var batch models.ProduceBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, models.StatusPending, batch.Status)
	assert.Equal(t, "kg", batch.Unit)
}

func newCartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	catalogSvc := catalog.NewService([]models.InventoryItem{
		{ID: "3", Name: "Himalayan Potatoes", TotalQuantity: 100, UnitPrice: 40, VerificationStatus: models.VerificationVerified},
	}, nil)
	engine := cart.NewEngine(memStore{}, catalogSvc, notify.NewToastQueue(), nil)
	handler := NewCartHandler(engine, catalogSvc, nil)

	r := gin.New()
	r.GET("/api/cart/:sessionId", handler.Get)
	r.POST("/api/cart/:sessionId/items", handler.AddItem)
	return r
}

// memStore is a throwaway cart.Store: nothing survives beyond the engine's
// own cache.
type memStore struct{}

func (memStore) Load(context.Context, string) ([]models.CartLine, error) { return nil, nil }
func (memStore) Save(context.Context, string, []models.CartLine) error   { return nil }

func TestCartAddEndpointCapsStock(t *testing.T) {
	r := newCartRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/s1/items",
		strings.NewReader(`{"itemId":"3","quantity":60}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/cart/s1/items",
		strings.NewReader(`{"itemId":"3","quantity":50}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lines  []models.CartLine `json:"lines"`
		Count  int               `json:"count"`
		Total  float64           `json:"total"`
		Toasts []models.Toast    `json:"toasts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 60, resp.Count, "second add rejected, cart unchanged")
	assert.InDelta(t, 2400.0, resp.Total, 1e-9)

	require.NotEmpty(t, resp.Toasts)
	assert.Contains(t, resp.Toasts[len(resp.Toasts)-1].Message, "Only 100 kg")
}

func TestCartAddEndpointUnknownItem(t *testing.T) {
	r := newCartRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/s1/items",
		strings.NewReader(`{"itemId":"99","quantity":1}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
