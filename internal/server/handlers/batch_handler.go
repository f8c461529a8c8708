package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/internal/service/trace"
	"github.com/agritrace/agritrace/internal/service/verification"
)

// BatchHandler serves batch submission, verification, and trace endpoints.
type BatchHandler struct {
	workflow verification.Workflow
	trace    *trace.Service
	repo     mongodb.Repository
	logger   *zap.Logger
}

// NewBatchHandler constructs the HTTP handler adapter.
func NewBatchHandler(workflow verification.Workflow, traceSvc *trace.Service, repo mongodb.Repository, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{workflow: workflow, trace: traceSvc, repo: repo, logger: logger}
}

// List returns batches, optionally filtered by ?status=.
func (h *BatchHandler) List(c *gin.Context) {
	var status models.BatchStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseBatchStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		status = parsed
	}

	batches, err := h.repo.ListBatches(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("failed listing batches", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list batches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

type submitBatchRequest struct {
	CropType       string   `json:"cropType" binding:"required"`
	Variety        string   `json:"variety"`
	HarvestDate    string   `json:"harvestDate" binding:"required"`
	Location       string   `json:"location" binding:"required"`
	FarmerID       string   `json:"farmerId" binding:"required"`
	FarmerName     string   `json:"farmerName"`
	Quantity       float64  `json:"quantity" binding:"required,gt=0"`
	Unit           string   `json:"unit"`
	QualityScore   int      `json:"qualityScore" binding:"omitempty,min=0,max=100"`
	Certifications []string `json:"certifications"`
}

// Submit registers a farmer's batch; it starts pending.
func (h *BatchHandler) Submit(c *gin.Context) {
	var req submitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Unit == "" {
		req.Unit = "kg"
	}

	batch, err := h.workflow.SubmitBatch(c.Request.Context(), models.ProduceBatch{
		CropType:       req.CropType,
		Variety:        req.Variety,
		HarvestDate:    req.HarvestDate,
		Location:       req.Location,
		FarmerID:       req.FarmerID,
		FarmerName:     req.FarmerName,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		QualityScore:   req.QualityScore,
		Certifications: req.Certifications,
	})
	if err != nil {
		h.logger.Error("failed submitting batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit batch"})
		return
	}

	c.JSON(http.StatusCreated, batch)
}

type verifyRequest struct {
	Action string `json:"action" binding:"required"`
}

// Verify applies a distributor's verify or reject decision on a pending
// batch.
func (h *BatchHandler) Verify(c *gin.Context) {
	batchID := c.Param("id")

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action required"})
		return
	}

	batch, err := h.workflow.VerifyBatch(c.Request.Context(), batchID, verification.Action(req.Action))
	if err != nil {
		h.writeTransitionError(c, batchID, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus advances a batch along the post-verification lifecycle.
func (h *BatchHandler) UpdateStatus(c *gin.Context) {
	batchID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}

	status, ok := models.ParseBatchStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	batch, err := h.workflow.UpdateStatus(c.Request.Context(), batchID, status)
	if err != nil {
		h.writeTransitionError(c, batchID, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// Trace returns the consumer provenance report for a batch id.
func (h *BatchHandler) Trace(c *gin.Context) {
	batchID := c.Param("batchId")

	report, err := h.trace.Lookup(c.Request.Context(), batchID)
	if errors.Is(err, mongodb.ErrBatchNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed trace lookup", zap.String("batch_id", batchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to trace batch"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *BatchHandler) writeTransitionError(c *gin.Context, batchID string, err error) {
	switch {
	case errors.Is(err, mongodb.ErrBatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
	case errors.Is(err, verification.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be verify or reject"})
	case errors.Is(err, verification.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, verification.ErrBatchInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a transition for this batch is already in progress"})
	case errors.Is(err, mongodb.ErrConcurrentTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "batch was transitioned by another actor"})
	case errors.Is(err, verification.ErrConfirmationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "ledger confirmation timed out"})
	default:
		h.logger.Error("batch transition failed", zap.String("batch_id", batchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update batch"})
	}
}
