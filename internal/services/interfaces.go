package services

import (
	"context"

	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

// MessageSender defines the outbound message contract
// This interface is used for dependency injection and testing
type MessageSender interface {
	SendText(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, name, langCode string, params ...string) error
	SendInteractiveList(ctx context.Context, to, bodyText, buttonText string, sections []whatsapp.Section) error
	SendInteractiveButtons(ctx context.Context, to, bodyText string, buttons []whatsapp.Button) error
}

// MediaFetcher defines the media retrieval contract for résumé uploads
type MediaFetcher interface {
	GetMediaURL(ctx context.Context, mediaID string) (string, error)
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}
