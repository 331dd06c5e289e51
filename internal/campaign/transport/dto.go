// Package transport defines the campaign module's HTTP request shapes.
package transport

import (
	"outreach_backend/internal/campaign/domain"
)

// StartCampaignRequest is the body of POST /api/v1/campaigns.
type StartCampaignRequest struct {
	CampaignID         string `json:"campaign_id" validate:"omitempty,max=128"`
	Product            string `json:"product" binding:"required" validate:"required,min=2,max=256"`
	TargetIndustry     string `json:"target_industry" validate:"omitempty,max=256"`
	LeadCount          int    `json:"lead_count" validate:"omitempty,min=1,max=500"`
	UploadedLeadsFile  string `json:"uploaded_leads_file" validate:"omitempty,max=256"`
	SkipLeadGeneration bool   `json:"skip_lead_generation"`
}

// ToParams maps the request onto campaign parameters.
func (r StartCampaignRequest) ToParams() domain.Params {
	return domain.Params{
		CampaignID:         r.CampaignID,
		Product:            r.Product,
		TargetIndustry:     r.TargetIndustry,
		LeadCount:          r.LeadCount,
		UploadedLeadsFile:  r.UploadedLeadsFile,
		SkipLeadGeneration: r.SkipLeadGeneration,
	}
}

// UploadResponse is the body returned after a lead file upload.
type UploadResponse struct {
	Filename string `json:"filename"`
}
