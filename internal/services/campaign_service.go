package services

import (
	"context"
	"fmt"

	"github.com/bazarbekovic131/wahr-chatbot/internal/db"
	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"go.uber.org/zap"
)

// CampaignContact is one recipient in a campaign request
type CampaignContact struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// CampaignRequest is the operator's recipient list
type CampaignRequest struct {
	Contacts []CampaignContact `json:"contacts"`
}

// CampaignResult counts the outcome per recipient
type CampaignResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// CampaignService sends the vacancy template to a selected set of contacts
type CampaignService struct {
	contacts db.ContactRepository
	sender   MessageSender
}

// NewCampaignService creates a new campaign service
func NewCampaignService(contacts db.ContactRepository, sender MessageSender) *CampaignService {
	return &CampaignService{contacts: contacts, sender: sender}
}

// SendVacancyCampaign delivers the campaign template to every listed contact
// that wants notifications, creating contacts for unseen numbers. A failed
// send is logged and counted, not fatal for the batch.
func (s *CampaignService) SendVacancyCampaign(ctx context.Context, req *CampaignRequest) (*CampaignResult, error) {
	if req == nil || len(req.Contacts) == 0 {
		return nil, fmt.Errorf("campaign request has no contacts")
	}

	result := &CampaignResult{}
	for _, recipient := range req.Contacts {
		phone := models.NormalizePhone(recipient.Phone)
		if phone == "" {
			result.Skipped++
			continue
		}

		contact, err := s.contacts.GetByPhone(phone)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			if err := s.contacts.Create(models.NewContact(phone, recipient.Name)); err != nil {
				return nil, err
			}
			logger.Info("Created contact for campaign", zap.String("phone", phone))
		} else if !contact.WantsNotifications {
			result.Skipped++
			continue
		}

		if err := s.sender.SendTemplate(ctx, phone, TemplateVacancyCampaign, templateLanguage); err != nil {
			logger.Error("Campaign send failed",
				zap.String("phone", phone),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.Sent++
	}

	logger.Info("Campaign finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
