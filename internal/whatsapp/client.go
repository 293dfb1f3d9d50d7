package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://graph.facebook.com"

// sendTimeout bounds every call to the Graph API
const sendTimeout = 10 * time.Second

// maxDownloadSize caps résumé downloads at 16 MB, the platform's document limit
const maxDownloadSize = 16 << 20

// Client talks to the WhatsApp Cloud API for one business phone number
type Client struct {
	// BaseURL may be overridden in tests
	BaseURL string

	accessToken   string
	phoneNumberID string
	version       string
	httpClient    *http.Client
}

// NewClient creates a Graph API client
func NewClient(accessToken, phoneNumberID, version string) *Client {
	return &Client{
		BaseURL:       defaultBaseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		version:       version,
		httpClient:    &http.Client{Timeout: sendTimeout},
	}
}

// SendText sends a plain text message
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.send(ctx, NewTextPayload(to, body))
}

// SendTemplate sends a pre-approved template with optional positional body
// parameters
func (c *Client) SendTemplate(ctx context.Context, to, name, langCode string, params ...string) error {
	return c.send(ctx, NewTemplatePayload(to, name, langCode, params...))
}

// SendInteractiveList sends a list message
func (c *Client) SendInteractiveList(ctx context.Context, to, bodyText, buttonText string, sections []Section) error {
	return c.send(ctx, NewListPayload(to, bodyText, buttonText, sections))
}

// SendInteractiveButtons sends a reply-buttons message
func (c *Client) SendInteractiveButtons(ctx context.Context, to, bodyText string, buttons []Button) error {
	return c.send(ctx, NewButtonsPayload(to, bodyText, buttons))
}

// send POSTs one message payload to the messages endpoint
func (c *Client) send(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.BaseURL, c.version, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp API returned status %d: %s", resp.StatusCode, body)
	}

	logger.Debug("Message sent",
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", resp.Header.Get("Content-Type")),
	)
	return nil
}

// GetMediaURL resolves a media id to its short-lived download URL
func (c *Client) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	if mediaID == "" {
		return "", errors.New("media ID is required")
	}

	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, c.version, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch media URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("whatsapp API returned status %d: %s", resp.StatusCode, body)
	}

	var media MediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}
	if media.URL == "" {
		return "", errors.New("media response has no URL")
	}

	return media.URL, nil
}

// DownloadMedia fetches the file bytes behind a media URL. The URL expires
// quickly, so call right after GetMediaURL.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("media URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("media download returned empty body")
	}

	return data, nil
}

// IsTimeout reports whether an error from the client was a transport timeout
func IsTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
