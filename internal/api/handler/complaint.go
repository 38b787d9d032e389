package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/pipeline"
	"github.com/thecodingmage/smartsift/internal/queue"
	"github.com/thecodingmage/smartsift/internal/storage"
)

const MaxComplaintsPerRequest = 100

type ComplaintHandler struct {
	pipeline     *pipeline.Pipeline
	repo         *storage.ComplaintRepo
	analysisRepo *storage.AnalysisRepo
	queue        *queue.RedisQueue
}

func NewComplaintHandler(pl *pipeline.Pipeline, repo *storage.ComplaintRepo, analysisRepo *storage.AnalysisRepo, q *queue.RedisQueue) *ComplaintHandler {
	return &ComplaintHandler{pipeline: pl, repo: repo, analysisRepo: analysisRepo, queue: q}
}

// POST /api/v1/complaints/analyze
//
// Synchronous triage of a single complaint. Binding tags reject malformed
// input (missing id, text under 5 chars) before the pipeline runs.
func (h *ComplaintHandler) Analyze(c *gin.Context) {
	var in domain.ComplaintInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required and text must be at least 5 characters"})
		return
	}

	record, err := h.pipeline.Process(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueWrite) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "escalation was not durably recorded"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "triage unavailable"})
		return
	}

	if err := h.repo.SaveResult(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store result"})
		return
	}

	if record.Analysis != nil {
		if err := h.analysisRepo.Save(c.Request.Context(), record.Analysis); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store analysis"})
			return
		}
	}

	c.JSON(http.StatusOK, record)
}

type IngestRequest struct {
	Complaints []*domain.ComplaintInput `json:"complaints" binding:"required,dive"`
}

type IngestResponse struct {
	Accepted int      `json:"accepted"`
	IDs      []string `json:"ids"`
}

// POST /api/v1/complaints
//
// Asynchronous batch path: complaints are queued for the workers.
func (h *ComplaintHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(req.Complaints) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no complaints provided"})
		return
	}

	if len(req.Complaints) > MaxComplaintsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exceeds maximum batch size of 100"})
		return
	}

	if err := h.queue.PublishBatch(c.Request.Context(), req.Complaints); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue complaints"})
		return
	}

	ids := make([]string, len(req.Complaints))
	for i, in := range req.Complaints {
		ids[i] = in.ID
	}

	c.JSON(http.StatusAccepted, IngestResponse{
		Accepted: len(req.Complaints),
		IDs:      ids,
	})
}

// GET /api/v1/complaints/:id
func (h *ComplaintHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	record, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve complaint"})
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}
