package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/findash/backend/internal/application/pipeline"
	"github.com/findash/backend/internal/domain/analytics"
	"github.com/findash/backend/internal/domain/dataset"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/cache"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler serves the computed analytics to the interactive
// surface. Presentation concerns stay on the client; this handler only
// hands out the KPIs and aggregate tables.
type DashboardHandler struct {
	pipeline *pipeline.Service
	cache    *cache.SnapshotCache
	logger   *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler. The cache may be nil,
// in which case every request recomputes the pipeline.
func NewDashboardHandler(p *pipeline.Service, c *cache.SnapshotCache, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{pipeline: p, cache: c, logger: log}
}

// dashboard returns the current document, from cache when the input
// fingerprint still matches.
func (h *DashboardHandler) dashboard(c *gin.Context) (*analytics.Dashboard, error) {
	if h.cache == nil {
		return h.pipeline.Run()
	}

	fingerprint, err := cache.Fingerprint(h.pipeline.InputFiles())
	if err != nil {
		// a vanished input surfaces as a data source problem on recompute
		logger.FromGin(c).Warn("Input fingerprint failed", zap.Error(err))
		return h.pipeline.Run()
	}

	if doc, ok := h.cache.Get(fingerprint); ok {
		return doc, nil
	}

	doc, err := h.pipeline.Run()
	if err != nil {
		return nil, err
	}
	h.cache.Put(fingerprint, doc)
	return doc, nil
}

// GetDashboard returns the full dashboard document
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	doc, err := h.dashboard(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(doc))
}

// GetKPIs returns only the scalar KPIs
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	doc, err := h.dashboard(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(doc.KPIs))
}

// GetAggregate returns a single grouped aggregate by name
func (h *DashboardHandler) GetAggregate(c *gin.Context) {
	doc, err := h.dashboard(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	name := c.Param("name")
	var data interface{}
	switch name {
	case "monthly_revenue":
		data = doc.MonthlyRevenue
	case "top_categories":
		data = doc.TopCategories
	case "payment_types":
		data = doc.PaymentTypes
	case "installments":
		data = doc.Installments
	case "states":
		data = doc.States
	case "quarterly":
		data = doc.Quarterly
	case "review_distribution":
		data = doc.ReviewDistribution
	case "category_monthly":
		data = doc.CategoryMonthly
	case "delivery_monthly":
		data = doc.DeliveryMonthly
	default:
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(shared.ErrNotFound, "unknown aggregate: "+name))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Refresh drops the cached snapshot and recomputes the pipeline
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate()
	}

	doc, err := h.dashboard(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"refreshed_at": doc.Metadata.GeneratedAt,
		"master_rows":  doc.Metadata.TotalRows,
	}))
}

// Health reports service liveness
func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// fail maps pipeline errors onto HTTP responses
func (h *DashboardHandler) fail(c *gin.Context, err error) {
	reqLog := logger.FromGin(c)

	var dsErr *dataset.DataSourceError
	if errors.As(err, &dsErr) {
		reqLog.Error("Data source unavailable", zap.String("path", dsErr.Path), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(shared.ErrDataSource, dsErr.Error()))
		return
	}

	reqLog.Error("Pipeline failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(shared.ErrInternal, "pipeline failed"))
}
