// Package handler handles HTTP requests for the campaign module.
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach_backend/internal/campaign/service"
	"outreach_backend/internal/campaign/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"
)

// Handler handles HTTP requests for campaigns.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingFile      = "missing lead file"
)

// Upload size cap for lead files.
const maxUploadBytes = 5 << 20

// New creates a new campaign handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Start accepts a new campaign run.
// POST /api/v1/campaigns
func (h *Handler) Start(c *gin.Context) {
	var req transport.StartCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	sum, err := h.svc.StartCampaign(c.Request.Context(), req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, sum)
}

// List returns all campaign summaries, newest first.
// GET /api/v1/campaigns
func (h *Handler) List(c *gin.Context) {
	sums, err := h.svc.ListCampaigns(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, sums)
}

// Get returns the detail view of one campaign.
// GET /api/v1/campaigns/:id
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.svc.GetCampaign(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, detail)
}

// Status returns the current status of one campaign.
// GET /api/v1/campaigns/:id/status
func (h *Handler) Status(c *gin.Context) {
	sum, err := h.svc.GetStatus(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, sum)
}

// Dashboard returns cross-campaign aggregates.
// GET /api/v1/dashboard/stats
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// Leads returns the global lead history.
// GET /api/v1/leads
func (h *Handler) Leads(c *gin.Context) {
	leads, err := h.svc.AllLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, leads)
}

// Insights returns the global insight history.
// GET /api/v1/insights
func (h *Handler) Insights(c *gin.Context) {
	records, err := h.svc.AllInsights(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, records)
}

// Engagement returns the engagement event log.
// GET /api/v1/engagement
func (h *Handler) Engagement(c *gin.Context) {
	events, err := h.svc.EngagementHistory(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, events)
}

// Upload stores a lead JSON file for later campaign runs.
// POST /api/v1/leads/upload
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httpkit.Error(c, http.StatusBadRequest, "lead file too large", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	stored, err := h.svc.UploadLeads(c.Request.Context(), fileHeader.Filename, data)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UploadResponse{Filename: stored})
}
