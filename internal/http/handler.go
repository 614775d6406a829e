package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/http/middleware"
	"smartcity-service/internal/model"
	"smartcity-service/internal/service"
)

type Handler struct {
	sensors   *service.SensorService
	dispatch  *service.DispatchService
	routes    *service.RouteService
	analytics *service.AnalyticsService
	analysis  *service.AnalysisService
	log       zerolog.Logger
}

func NewHandler(
	sensors *service.SensorService,
	dispatch *service.DispatchService,
	routes *service.RouteService,
	analytics *service.AnalyticsService,
	analysis *service.AnalysisService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		sensors:   sensors,
		dispatch:  dispatch,
		routes:    routes,
		analytics: analytics,
		analysis:  analysis,
		log:       log,
	}
}

// Register mounts the routes. The /iot group is unauthenticated: ESP sensors
// in the field have no token storage and are admitted by device identity.
func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	iot := r.Group("/iot")
	iot.POST("/sensor-data", h.ingestSensorData)
	iot.POST("/link-room", h.linkRoom)
	iot.POST("/link-boiler", h.linkBoiler)

	api := r.Group("/api/v1")
	api.Use(authMiddleware)

	api.POST("/waste/tasks/auto-assign", h.autoAssignTask)
	api.POST("/waste/routes/optimize", h.optimizeRoute)
	api.POST("/waste/predictions", h.predictFill)
	api.GET("/waste/statistics", h.getWasteStatistics)
	api.POST("/waste/bins/:id/analyze", h.analyzeBin)
	api.POST("/waste/bins/analyze-all", h.analyzeAllBins)
	api.GET("/climate/statistics", h.getClimateStatistics)
	api.GET("/dashboard/stats", h.getDashboardStats)
}

func (h *Handler) ingestSensorData(c *gin.Context) {
	var in model.SensorReadingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid sensor payload"))
		return
	}

	result, err := h.sensors.IngestReading(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) linkRoom(c *gin.Context) {
	h.bindDevice(c, model.BindRoom)
}

func (h *Handler) linkBoiler(c *gin.Context) {
	h.bindDevice(c, model.BindBoiler)
}

func (h *Handler) bindDevice(c *gin.Context, kind model.BindTargetKind) {
	var in model.BindDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid bind payload"))
		return
	}
	in.TargetKind = kind

	result, err := h.sensors.BindDevice(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) autoAssignTask(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var in model.AutoAssignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid assignment payload"))
		return
	}

	result, err := h.dispatch.AutoAssign(c.Request.Context(), principal.Scope(), in.BinID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	c.JSON(status, successResponse(result))
}

func (h *Handler) optimizeRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var in model.OptimizeRouteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route payload"))
		return
	}

	route, err := h.routes.Optimize(c.Request.Context(), principal.Scope(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(route))
}

func (h *Handler) predictFill(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var in model.PredictionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid prediction payload"))
		return
	}

	predictions, err := h.analytics.PredictFill(c.Request.Context(), principal.Scope(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(predictions))
}

func (h *Handler) getWasteStatistics(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	stats, err := h.analytics.WasteStatistics(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) getClimateStatistics(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	stats, err := h.analytics.ClimateStatistics(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) getDashboardStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	stats, err := h.analytics.DashboardStats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) analyzeBin(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	idStr := strings.TrimSpace(c.Param("id"))
	binID, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid bin id"))
		return
	}

	bin, err := h.analysis.AnalyzeBin(c.Request.Context(), principal.Scope(), binID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(bin))
}

func (h *Handler) analyzeAllBins(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	analyzed, err := h.analysis.AnalyzeAll(c.Request.Context(), principal.Scope())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"analyzed": analyzed}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoCapacity), errors.Is(err, service.ErrNoBins):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
