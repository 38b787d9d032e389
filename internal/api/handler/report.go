package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thecodingmage/smartsift/internal/report"
)

type ReportHandler struct {
	generator *report.Generator
}

func NewReportHandler(generator *report.Generator) *ReportHandler {
	return &ReportHandler{generator: generator}
}

// GET /api/v1/reports/executive
func (h *ReportHandler) Executive(c *gin.Context) {
	summary, stats, err := h.generator.Executive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": summary,
		"stats":  stats,
	})
}
