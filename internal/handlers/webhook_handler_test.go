package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

// mockDispatcher implements DispatcherInterface for testing
type mockDispatcher struct {
	err      error
	payloads []*whatsapp.WebhookPayload
}

func (m *mockDispatcher) Process(ctx context.Context, payload *whatsapp.WebhookPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

// timeoutError satisfies net.Error so IsTimeout treats it as a timeout
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func setupWebhookRouter(dispatcher DispatcherInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler("test-verify-token", dispatcher)
	router := gin.New()
	router.GET("/webhook", handler.Verify)
	router.POST("/webhook", handler.Receive)
	return router
}

const validMessageJSON = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "1",
		"changes": [{
			"field": "messages",
			"value": {
				"contacts": [{"profile": {"name": "Aidar"}, "wa_id": "77001234567"}],
				"messages": [{"from": "77001234567", "id": "wamid.abc", "type": "text", "text": {"body": "привет"}}]
			}
		}]
	}]
}`

const statusUpdateJSON = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "1",
		"changes": [{
			"field": "messages",
			"value": {
				"statuses": [{"id": "wamid.abc", "status": "delivered", "recipient_id": "77001234567"}]
			}
		}]
	}]
}`

func TestWebhookVerify(t *testing.T) {
	router := setupWebhookRouter(&mockDispatcher{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid verification",
			query:      "hub.mode=subscribe&hub.verify_token=test-verify-token&hub.challenge=challenge-123",
			wantStatus: http.StatusOK,
			wantBody:   "challenge-123",
		},
		{
			name:       "wrong token",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode",
			query:      "hub.mode=unsubscribe&hub.verify_token=test-verify-token&hub.challenge=challenge-123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing mode",
			query:      "hub.verify_token=test-verify-token",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing token",
			query:      "hub.mode=subscribe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestWebhookReceiveValidMessage(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := setupWebhookRouter(dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(validMessageJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, dispatcher.payloads, 1)
	msg, waID, _ := dispatcher.payloads[0].FirstMessage()
	require.NotNil(t, msg)
	assert.Equal(t, "77001234567", waID)
}

func TestWebhookReceiveStatusUpdate(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := setupWebhookRouter(dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(statusUpdateJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Acknowledged without dispatch
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dispatcher.payloads)
}

func TestWebhookReceiveInvalidJSON(t *testing.T) {
	router := setupWebhookRouter(&mockDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid JSON provided")
}

func TestWebhookReceiveNonWhatsAppEvent(t *testing.T) {
	router := setupWebhookRouter(&mockDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object": "other", "entry": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not a WhatsApp API event")
}

func TestWebhookReceiveDispatchError(t *testing.T) {
	router := setupWebhookRouter(&mockDispatcher{err: errors.New("database locked")})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(validMessageJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process message")
}

func TestWebhookReceiveTimeout(t *testing.T) {
	router := setupWebhookRouter(&mockDispatcher{err: timeoutError{}})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(validMessageJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "Request timed out")
}
