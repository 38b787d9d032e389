package api

import (
	"github.com/gin-gonic/gin"
	"github.com/thecodingmage/smartsift/internal/api/handler"
	"github.com/thecodingmage/smartsift/internal/pipeline"
	"github.com/thecodingmage/smartsift/internal/queue"
	"github.com/thecodingmage/smartsift/internal/report"
	"github.com/thecodingmage/smartsift/internal/storage"
)

type Router struct {
	engine *gin.Engine
}

func NewRouter(db *storage.PostgresDB, q *queue.RedisQueue, pl *pipeline.Pipeline, reportGen *report.Generator) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	complaintRepo := storage.NewComplaintRepo(db)
	analysisRepo := storage.NewAnalysisRepo(db)
	reviewQueueRepo := storage.NewReviewQueueRepo(db)

	complaintHandler := handler.NewComplaintHandler(pl, complaintRepo, analysisRepo, q)
	reviewHandler := handler.NewReviewHandler(reviewQueueRepo)
	reportHandler := handler.NewReportHandler(reportGen)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		complaints := v1.Group("/complaints")
		{
			complaints.POST("/analyze", complaintHandler.Analyze)
			complaints.POST("", complaintHandler.Ingest)
			complaints.GET("/:id", complaintHandler.GetByID)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/pending", reviewHandler.GetPending)
			reviews.GET("/pending/count", reviewHandler.CountPending)
			reviews.GET("/:id", reviewHandler.GetByID)
			reviews.POST("/:id/complete", reviewHandler.CompleteReview)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/executive", reportHandler.Executive)
		}
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
