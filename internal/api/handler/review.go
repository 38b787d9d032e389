package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thecodingmage/smartsift/internal/storage"
)

type ReviewHandler struct {
	reviewRepo *storage.ReviewQueueRepo
}

func NewReviewHandler(reviewRepo *storage.ReviewQueueRepo) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo}
}

// GET /api/v1/reviews/pending
func (h *ReviewHandler) GetPending(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.reviewRepo.GetPending(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pending reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_reviews": entries,
		"count":           len(entries),
	})
}

// GET /api/v1/reviews/pending/count
func (h *ReviewHandler) CountPending(c *gin.Context) {
	count, err := h.reviewRepo.CountPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count pending reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": count})
}

// GET /api/v1/reviews/:id
func (h *ReviewHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review ID is required"})
		return
	}

	entry, err := h.reviewRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// POST /api/v1/reviews/:id/complete
func (h *ReviewHandler) CompleteReview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review ID is required"})
		return
	}

	if err := h.reviewRepo.CompleteReview(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review completed"})
}
