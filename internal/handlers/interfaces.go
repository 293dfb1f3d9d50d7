package handlers

import (
	"context"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/services"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

// DispatcherInterface defines the contract for webhook message dispatch
// This interface is used for dependency injection and testing
type DispatcherInterface interface {
	Process(ctx context.Context, payload *whatsapp.WebhookPayload) error
}

// CampaignInterface defines the contract for campaign sends
// This interface is used for dependency injection and testing
type CampaignInterface interface {
	SendVacancyCampaign(ctx context.Context, req *services.CampaignRequest) (*services.CampaignResult, error)
}

// ContactListerInterface lists contacts for the operator surface
type ContactListerInterface interface {
	List(limit, offset int) ([]*models.Contact, error)
}

// SurveyListerInterface lists survey responses for the operator surface
type SurveyListerInterface interface {
	List(limit, offset int) ([]*models.SurveyResponse, error)
}

// VacancyListerInterface lists the full vacancy catalog for the operator surface
type VacancyListerInterface interface {
	ListFull() ([]*models.Vacancy, error)
}
