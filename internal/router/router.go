package router

import (
	"time"

	"fundflow/internal/analysis"
	"fundflow/internal/cache"
	"fundflow/internal/config"
	"fundflow/internal/handler"
	"fundflow/internal/ingest"
	"fundflow/internal/middleware"
	"fundflow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Setup configures the Gin engine with all API routes.
func Setup(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.AccessLog(log), gin.Recovery())

	st := store.New(db)
	resultCache := cache.New(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	pipeline := ingest.NewPipeline(st, cfg.Ingest, log)
	analyzer := analysis.New(st, cfg.Analysis)

	uploadHandler := handler.NewUploadHandler(pipeline, resultCache, log)
	analysisHandler := handler.NewAnalysisHandler(analyzer, resultCache)
	caseHandler := handler.NewCaseHandler(st)

	// ====== API ======
	api := r.Group("/api")

	// 上传与入库
	api.POST("/upload", uploadHandler.Upload)

	// 单账单分析
	single := api.Group("/analysis/single")
	single.GET("/trend", analysisHandler.Trend)
	single.GET("/stats", analysisHandler.Stats)
	single.GET("/keywords", analysisHandler.Keywords)

	// 多账单分析
	multi := api.Group("/analysis/multi")
	multi.GET("/interaction", analysisHandler.Interaction)
	multi.GET("/stolen", analysisHandler.Stolen)
	multi.GET("/hidden", analysisHandler.Hidden)

	// 案件与批次
	api.GET("/cases", caseHandler.ListCases)
	api.GET("/cases/:id/batches", caseHandler.ListBatches)

	return r
}
