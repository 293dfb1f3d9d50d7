package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

type dispatchFixture struct {
	contacts  *fakeContactRepo
	vacancies *fakeVacancyRepo
	surveys   *fakeSurveyRepo
	resumes   *fakeResumeRepo
	sender    *fakeSender
	media     *fakeMedia
	service   *DispatchService
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()

	f := &dispatchFixture{
		contacts: newFakeContactRepo(),
		vacancies: &fakeVacancyRepo{vacancies: []*models.Vacancy{
			{ID: 1, Title: "Оператор крана", Requirements: "удостоверение", Details: "вахта", Salary: "от 400 000 тг"},
			{ID: 2, Title: "Сварщик", Requirements: "разряд 4", Details: "цех"},
		}},
		surveys: newFakeSurveyRepo(),
		resumes: newFakeResumeRepo(),
		sender:  &fakeSender{},
		media:   &fakeMedia{url: "https://media.example.com/file", data: []byte("pdf bytes")},
	}
	survey := NewSurveyService(f.contacts, f.surveys, f.resumes, f.sender, f.media)
	f.service = NewDispatchService(f.contacts, f.vacancies, survey, f.sender)
	return f
}

func webhookWith(msg whatsapp.Message) *whatsapp.WebhookPayload {
	return &whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []whatsapp.Entry{{
			ID: "entry-1",
			Changes: []whatsapp.Change{{
				Field: "messages",
				Value: whatsapp.ChangeValue{
					Contacts: []whatsapp.Contact{{
						Profile: whatsapp.ContactProfile{Name: "Aidar"},
						WaID:    "+7 700 123 45 67",
					}},
					Messages: []whatsapp.Message{msg},
				},
			}},
		}},
	}
}

func TestDispatchCreatesContactAndNormalizesPhone(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{Type: whatsapp.TypeText, Text: &whatsapp.TextContent{Body: "привет"}})
	require.NoError(t, f.service.Process(context.Background(), payload))

	contact, err := f.contacts.GetByPhone("77001234567")
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Aidar", contact.Name)
	assert.Equal(t, models.Idle(), contact.State)
}

func TestDispatchGreetingTemplate(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{Type: whatsapp.TypeText, Text: &whatsapp.TextContent{Body: "здравствуйте"}})
	require.NoError(t, f.service.Process(context.Background(), payload))

	last := f.sender.last()
	assert.Equal(t, "template", last.kind)
	assert.Equal(t, TemplateGreeting, last.template)
	assert.Equal(t, "77001234567", last.to)
}

func TestDispatchVacancyKeywordSendsNumberedList(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{Type: whatsapp.TypeText, Text: &whatsapp.TextContent{Body: "какие у вас вакансии"}})
	require.NoError(t, f.service.Process(context.Background(), payload))

	last := f.sender.last()
	assert.Equal(t, "text", last.kind)
	assert.True(t, strings.HasPrefix(last.body, vacancyListHeader))
	assert.Contains(t, last.body, "1. Оператор крана")
	assert.Contains(t, last.body, "2. Сварщик")
}

func TestDispatchVacancyMenuPayload(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{
		Type:   whatsapp.TypeButton,
		Button: &whatsapp.ButtonContent{Payload: PayloadVacancyList},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	last := f.sender.last()
	assert.Equal(t, "list", last.kind)
	require.Len(t, last.sections, 1)
	rows := last.sections[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "vacancy_1", rows[0].ID)
	assert.Equal(t, "Оператор крана", rows[0].Title)
	assert.Equal(t, "vacancy_2", rows[1].ID)
}

func TestDispatchVacancyDetail(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{
		Type: whatsapp.TypeInteractive,
		Interactive: &whatsapp.InteractiveContent{
			Type:      "list_reply",
			ListReply: &whatsapp.ActionReply{ID: "vacancy_1", Title: "Оператор крана"},
		},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	last := f.sender.last()
	assert.Equal(t, "text", last.kind)
	assert.Contains(t, last.body, "Вакансия: Оператор крана")
	assert.Contains(t, last.body, "Требования:\nудостоверение")
	assert.Contains(t, last.body, "Условия работы:\nвахта")
	assert.Contains(t, last.body, "Зарплата: от 400 000 тг")
}

func TestDispatchVacancyDetailWithoutSalary(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{
		Type: whatsapp.TypeInteractive,
		Interactive: &whatsapp.InteractiveContent{
			Type:      "list_reply",
			ListReply: &whatsapp.ActionReply{ID: "vacancy_2"},
		},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	assert.NotContains(t, f.sender.last().body, "Зарплата")
}

func TestDispatchUnknownVacancyID(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{
		Type: whatsapp.TypeInteractive,
		Interactive: &whatsapp.InteractiveContent{
			Type:      "list_reply",
			ListReply: &whatsapp.ActionReply{ID: "vacancy_99"},
		},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	assert.Equal(t, vacancyUnknownText, f.sender.last().body)
}

func TestDispatchStartResumeFlow(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{
		Type:   whatsapp.TypeButton,
		Button: &whatsapp.ButtonContent{Payload: PayloadStartResumeFlow},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	contact, err := f.contacts.GetByPhone("77001234567")
	require.NoError(t, err)
	assert.Equal(t, models.Asking(1), contact.State)

	firstQuestion, _ := models.QuestionAt(1)
	assert.Equal(t, firstQuestion.Prompt, f.sender.last().body)
}

func TestDispatchRoutesSurveyText(t *testing.T) {
	f := newDispatchFixture(t)

	// Start the survey, then send a text that would otherwise match a keyword
	start := webhookWith(whatsapp.Message{
		Type:   whatsapp.TypeButton,
		Button: &whatsapp.ButtonContent{Payload: PayloadStartResumeFlow},
	})
	require.NoError(t, f.service.Process(context.Background(), start))

	answer := webhookWith(whatsapp.Message{Type: whatsapp.TypeText, Text: &whatsapp.TextContent{Body: "вакансии меня зовут Иван"}})
	require.NoError(t, f.service.Process(context.Background(), answer))

	// The text became answer 1, not a catalog request
	response, err := f.surveys.GetByPhone("77001234567")
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "вакансии меня зовут Иван", response.FullName)

	contact, _ := f.contacts.GetByPhone("77001234567")
	assert.Equal(t, models.Asking(2), contact.State)
}

func TestDispatchRoutesSurveyDocument(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.contacts.Create(models.NewContact("77001234567", "Aidar")))
	require.NoError(t, f.contacts.UpdateState("77001234567", models.AwaitingDocument()))

	payload := webhookWith(whatsapp.Message{
		Type:     whatsapp.TypeDocument,
		Document: &whatsapp.DocumentContent{ID: "media-1", Filename: "resume.pdf", MimeType: "application/pdf"},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	contact, _ := f.contacts.GetByPhone("77001234567")
	assert.Equal(t, models.Completed(), contact.State)
	assert.Equal(t, surveyConfirmationText, f.sender.last().body)
}

func TestDispatchInteractiveRestartsSurveyMidFlight(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.contacts.Create(models.NewContact("77001234567", "Aidar")))
	require.NoError(t, f.contacts.UpdateState("77001234567", models.Asking(3)))

	// An interactive payload bypasses the survey routing
	payload := webhookWith(whatsapp.Message{
		Type: whatsapp.TypeInteractive,
		Interactive: &whatsapp.InteractiveContent{
			Type:        "button_reply",
			ButtonReply: &whatsapp.ActionReply{ID: PayloadStartResumeFlow},
		},
	})
	require.NoError(t, f.service.Process(context.Background(), payload))

	contact, _ := f.contacts.GetByPhone("77001234567")
	assert.Equal(t, models.Asking(1), contact.State)
}

func TestDispatchInformationalPayloads(t *testing.T) {
	tests := []struct {
		payload string
		want    string
	}{
		{PayloadAboutUs, aboutUsText},
		{PayloadHelp, helpText},
		{PayloadHiringProcess, hiringProcessText},
		{PayloadContactHR, contactHRText},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			f := newDispatchFixture(t)
			payload := webhookWith(whatsapp.Message{
				Type:   whatsapp.TypeButton,
				Button: &whatsapp.ButtonContent{Payload: tt.payload},
			})
			require.NoError(t, f.service.Process(context.Background(), payload))
			assert.Equal(t, tt.want, f.sender.last().body)
		})
	}
}

func TestDispatchResumeKeywordSendsTemplate(t *testing.T) {
	f := newDispatchFixture(t)

	payload := webhookWith(whatsapp.Message{Type: whatsapp.TypeText, Text: &whatsapp.TextContent{Body: "хочу отправить резюме"}})
	require.NoError(t, f.service.Process(context.Background(), payload))

	last := f.sender.last()
	assert.Equal(t, "template", last.kind)
	assert.Equal(t, TemplateResumeSubmission, last.template)
}

func TestDispatchEmptyPayload(t *testing.T) {
	f := newDispatchFixture(t)

	err := f.service.Process(context.Background(), &whatsapp.WebhookPayload{})
	assert.Error(t, err)
}
