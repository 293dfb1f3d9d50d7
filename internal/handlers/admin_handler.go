package handlers

import (
	"net/http"
	"strconv"

	"github.com/bazarbekovic131/wahr-chatbot/internal/services"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the operator endpoints: table dumps and campaign sends
type AdminHandler struct {
	vacancies VacancyListerInterface
	contacts  ContactListerInterface
	surveys   SurveyListerInterface
	campaign  CampaignInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	vacancies VacancyListerInterface,
	contacts ContactListerInterface,
	surveys SurveyListerInterface,
	campaign CampaignInterface,
) *AdminHandler {
	return &AdminHandler{
		vacancies: vacancies,
		contacts:  contacts,
		surveys:   surveys,
		campaign:  campaign,
	}
}

// ListVacancies handles GET /vacancies
func (h *AdminHandler) ListVacancies(c *gin.Context) {
	vacancies, err := h.vacancies.ListFull()
	if err != nil {
		logger.Error("Failed to list vacancies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vacancies"})
		return
	}

	c.JSON(http.StatusOK, vacancies)
}

// ListUsers handles GET /users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	contacts, err := h.contacts.List(limit, offset)
	if err != nil {
		logger.Error("Failed to list contacts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// ListSurveys handles GET /surveys
func (h *AdminHandler) ListSurveys(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	surveys, err := h.surveys.List(limit, offset)
	if err != nil {
		logger.Error("Failed to list surveys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list surveys"})
		return
	}

	c.JSON(http.StatusOK, surveys)
}

// SendCampaign handles POST /send_messages. The route is guarded by the
// shared-token middleware.
func (h *AdminHandler) SendCampaign(c *gin.Context) {
	logger.Info("Campaign endpoint called")

	var req services.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid campaign request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request format"})
		return
	}

	result, err := h.campaign.SendVacancyCampaign(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Campaign failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sent":    result.Sent,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
}

func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = 100
	offset = 0

	if limitParam := c.Query("limit"); limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil || l <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return 0, 0, false
		}
		limit = l
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		o, err := strconv.Atoi(offsetParam)
		if err != nil || o < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
			return 0, 0, false
		}
		offset = o
	}

	return limit, offset, true
}
