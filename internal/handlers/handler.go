package handlers

import (
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	metrics  *metric.Metrics
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, m *metric.Metrics, log *logger.Logger) *Handler {
	return &Handler{services: services, metrics: m, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	h.registerAPIRoutes(router)

	// Live fleet stream on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerFleetRoutes(api)
		h.registerConsoleRoutes(api)
		h.registerCommandRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerLogRoutes(api)
		h.registerBrokerRoutes(api)
	}
}

func (h *Handler) registerFleetRoutes(api *gin.RouterGroup) {
	fleet := api.Group("/fleet")
	{
		fleet.GET("/tree", h.getTree)
		fleet.GET("/pillars", h.listPillars)
		fleet.GET("/pillars/:pid", h.getPillar)
		fleet.GET("/slaves", h.listSlaves)
		fleet.GET("/stats", h.getStats)
		fleet.GET("/heatmap", h.getHeatMap)
	}
}

func (h *Handler) registerConsoleRoutes(api *gin.RouterGroup) {
	api.GET("/filter", h.getFilter)
	api.PUT("/filter", h.putFilter)

	console := api.Group("/console")
	{
		console.GET("", h.getConsole)
		// Body example: {"mode":"Slave"}
		console.POST("/mode", h.setTargetMode)
		// Body example: {"pid":"P7"}
		console.POST("/select", h.selectPillar)
	}
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	// Body example: {"target":"Group","type":"Hex","id":"GA","cmd":"7e01"}
	api.POST("/commands", h.executeCommand)
	api.POST("/pillars/:pid/flash", h.flashPillar)
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	api.GET("/history", h.getHistory)
	api.DELETE("/history", h.clearHistory)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

func (h *Handler) registerBrokerRoutes(api *gin.RouterGroup) {
	api.GET("/broker", h.getBroker)
	api.PUT("/broker", h.putBroker)
}
