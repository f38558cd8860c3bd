package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/kiosk/internal/analytics"
	"github.com/your-org/kiosk/internal/api/handlers"
	"github.com/your-org/kiosk/internal/api/ws"
	"github.com/your-org/kiosk/internal/auth"
	"github.com/your-org/kiosk/internal/queue"
	"github.com/your-org/kiosk/internal/storage"
	"github.com/your-org/kiosk/internal/visits"
)

type RouterConfig struct {
	APIKey   string
	DB       *storage.PostgresStore
	MinIO    *storage.MinIOStore
	Producer *queue.Producer
	Hub      *ws.Hub
	Ledger   *visits.Ledger
	Engine   *analytics.Engine
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Visitors & visits
	visitorH := handlers.NewVisitorHandler(cfg.DB, cfg.MinIO, cfg.Ledger)
	exportH := handlers.NewExportHandler(cfg.DB)
	v1.POST("/visitors/register", visitorH.Register)
	v1.GET("/visitors", visitorH.List)
	v1.GET("/visitors/export", exportH.Visits)
	v1.GET("/visitors/:email", visitorH.Get)
	v1.GET("/visitors/:email/insight", visitorH.Insight)
	v1.GET("/visitors/:email/photo", visitorH.Photo)
	v1.POST("/checkin", visitorH.CheckIn)
	v1.POST("/checkout", visitorH.CheckOut)

	// Dashboard metrics
	dashH := handlers.NewDashboardHandler(cfg.DB, cfg.Engine)
	v1.POST("/metrics/visitors", dashH.Metrics)

	// Employees
	empH := handlers.NewEmployeeHandler(cfg.DB)
	v1.POST("/employees", empH.Create)
	v1.GET("/employees", empH.List)

	return r
}
