package whatsapp

// Meta WhatsApp Cloud API webhook and message types.

// Message type discriminators as delivered in the webhook envelope
const (
	TypeText        = "text"
	TypeButton      = "button"
	TypeInteractive = "interactive"
	TypeDocument    = "document"
)

// WebhookPayload is the top-level webhook delivery
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message data
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata about the receiving phone number
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is a WhatsApp contact
type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile has the display name
type ContactProfile struct {
	Name string `json:"name"`
}

// Message represents an incoming WhatsApp message
type Message struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Button      *ButtonContent      `json:"button,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
	Document    *DocumentContent    `json:"document,omitempty"`
}

// TextContent holds a text message body
type TextContent struct {
	Body string `json:"body"`
}

// ButtonContent is a quick-reply button press on a template message
type ButtonContent struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

// InteractiveContent is a reply to an interactive list or button message.
// Exactly one of ListReply/ButtonReply is set, discriminated by Type.
type InteractiveContent struct {
	Type        string       `json:"type"`
	ListReply   *ActionReply `json:"list_reply,omitempty"`
	ButtonReply *ActionReply `json:"button_reply,omitempty"`
}

// ActionReply carries the selected row or button id back to the webhook
type ActionReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReplyID returns the payload id regardless of interactive reply kind
func (i *InteractiveContent) ReplyID() string {
	if i.ListReply != nil {
		return i.ListReply.ID
	}
	if i.ButtonReply != nil {
		return i.ButtonReply.ID
	}
	return ""
}

// DocumentContent describes an uploaded file; Data is fetched separately via
// the media endpoints
type DocumentContent struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256,omitempty"`
}

// Status represents a message delivery status update
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// value returns the webhook's single change value, if present
func (p *WebhookPayload) value() *ChangeValue {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil
	}
	return &p.Entry[0].Changes[0].Value
}

// IsStatusUpdate reports whether the delivery carries only delivery receipts
func (p *WebhookPayload) IsStatusUpdate() bool {
	v := p.value()
	return v != nil && len(v.Statuses) > 0
}

// IsValidMessage reports whether the delivery has the expected envelope shape
// around at least one message
func (p *WebhookPayload) IsValidMessage() bool {
	if p.Object == "" {
		return false
	}
	v := p.value()
	return v != nil && len(v.Messages) > 0 && len(v.Contacts) > 0
}

// FirstMessage returns the delivery's message along with the sender's wa_id
// and profile name. Call only after IsValidMessage.
func (p *WebhookPayload) FirstMessage() (msg *Message, waID, name string) {
	v := p.value()
	if v == nil || len(v.Messages) == 0 {
		return nil, "", ""
	}
	msg = &v.Messages[0]
	if len(v.Contacts) > 0 {
		waID = v.Contacts[0].WaID
		name = v.Contacts[0].Profile.Name
	}
	return msg, waID, name
}

// Outbound payloads, one JSON document per platform message shape.

// TextPayload is a plain text send
type TextPayload struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             TextContent `json:"text"`
}

// NewTextPayload builds a plain text message to a recipient
func NewTextPayload(to, body string) TextPayload {
	return TextPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             TextContent{Body: body},
	}
}

// TemplatePayload sends a pre-approved template by name
type TemplatePayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         Template `json:"template"`
}

// Template identifies the template and its rendered parameters
type Template struct {
	Name       string              `json:"name"`
	Language   TemplateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

// TemplateLanguage selects the approved translation
type TemplateLanguage struct {
	Code string `json:"code"`
}

// TemplateComponent carries positional body parameters
type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters"`
}

// TemplateParameter is one positional text value
type TemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTemplatePayload builds a template message with optional positional body
// text parameters
func NewTemplatePayload(to, name, langCode string, params ...string) TemplatePayload {
	p := TemplatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: Template{
			Name:     name,
			Language: TemplateLanguage{Code: langCode},
		},
	}
	if len(params) > 0 {
		component := TemplateComponent{Type: "body"}
		for _, text := range params {
			component.Parameters = append(component.Parameters, TemplateParameter{Type: "text", Text: text})
		}
		p.Template.Components = []TemplateComponent{component}
	}
	return p
}

// InteractivePayload sends an interactive list or button message
type InteractivePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Interactive      Interactive `json:"interactive"`
}

// Interactive is the platform's interactive message body
type Interactive struct {
	Type   string            `json:"type"`
	Body   InteractiveBody   `json:"body"`
	Action InteractiveAction `json:"action"`
}

// InteractiveBody is the visible message text
type InteractiveBody struct {
	Text string `json:"text"`
}

// InteractiveAction holds either list sections or reply buttons
type InteractiveAction struct {
	Button   string    `json:"button,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Buttons  []Button  `json:"buttons,omitempty"`
}

// Section groups list rows under a title
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Row is one selectable list entry; Title is limited to 24 characters by the
// platform
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Button is one reply button
type Button struct {
	Type  string      `json:"type"`
	Reply ActionReply `json:"reply"`
}

// NewListPayload builds an interactive list message
func NewListPayload(to, bodyText, buttonText string, sections []Section) InteractivePayload {
	return InteractivePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: Interactive{
			Type:   "list",
			Body:   InteractiveBody{Text: bodyText},
			Action: InteractiveAction{Button: buttonText, Sections: sections},
		},
	}
}

// NewButtonsPayload builds an interactive reply-buttons message
func NewButtonsPayload(to, bodyText string, buttons []Button) InteractivePayload {
	return InteractivePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: Interactive{
			Type:   "button",
			Body:   InteractiveBody{Text: bodyText},
			Action: InteractiveAction{Buttons: buttons},
		},
	}
}

// MediaResponse is the media endpoint's answer for a media id
type MediaResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}
