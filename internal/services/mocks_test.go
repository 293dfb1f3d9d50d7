package services

import (
	"context"
	"fmt"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

// In-memory fakes for the repository and transport interfaces.

type fakeContactRepo struct {
	contacts map[string]*models.Contact
	err      error
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]*models.Contact)}
}

func (f *fakeContactRepo) Create(contact *models.Contact) error {
	if f.err != nil {
		return f.err
	}
	// Matches INSERT OR IGNORE: an existing row is left untouched
	if _, ok := f.contacts[contact.Phone]; !ok {
		copy := *contact
		f.contacts[contact.Phone] = &copy
	}
	return nil
}

func (f *fakeContactRepo) GetByPhone(phone string) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	contact, ok := f.contacts[phone]
	if !ok {
		return nil, nil
	}
	copy := *contact
	return &copy, nil
}

func (f *fakeContactRepo) UpdateState(phone string, state models.SurveyState) error {
	if f.err != nil {
		return f.err
	}
	if err := state.Validate(); err != nil {
		return err
	}
	contact, ok := f.contacts[phone]
	if !ok {
		return fmt.Errorf("contact not found: %s", phone)
	}
	contact.State = state
	return nil
}

func (f *fakeContactRepo) MarkCompleted(phone string) error {
	if f.err != nil {
		return f.err
	}
	contact, ok := f.contacts[phone]
	if !ok {
		return fmt.Errorf("contact not found: %s", phone)
	}
	contact.State = models.Completed()
	contact.CompletedSurvey = true
	return nil
}

func (f *fakeContactRepo) SetNotifications(phone string, enabled bool) error {
	contact, ok := f.contacts[phone]
	if !ok {
		return fmt.Errorf("contact not found: %s", phone)
	}
	contact.WantsNotifications = enabled
	return nil
}

func (f *fakeContactRepo) List(limit, offset int) ([]*models.Contact, error) {
	var out []*models.Contact
	for _, c := range f.contacts {
		out = append(out, c)
	}
	return out, nil
}

type fakeSurveyRepo struct {
	responses map[string]*models.SurveyResponse
	saveErr   error
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{responses: make(map[string]*models.SurveyResponse)}
}

func (f *fakeSurveyRepo) response(phone string) *models.SurveyResponse {
	r, ok := f.responses[phone]
	if !ok {
		r = &models.SurveyResponse{Phone: phone}
		f.responses[phone] = r
	}
	return r
}

func (f *fakeSurveyRepo) SaveAnswer(phone string, key models.AnswerKey, value string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	r := f.response(phone)
	switch key {
	case models.AnswerFullName:
		r.FullName = value
	case models.AnswerAgeGroup:
		r.AgeGroup = value
	case models.AnswerEmail:
		r.Email = value
	case models.AnswerDesiredVacancy:
		r.DesiredVacancy = value
	default:
		return fmt.Errorf("unknown answer key: %s", key)
	}
	return nil
}

func (f *fakeSurveyRepo) AttachResume(phone, resumeID string) error {
	f.response(phone).ResumeID = resumeID
	return nil
}

func (f *fakeSurveyRepo) GetByPhone(phone string) (*models.SurveyResponse, error) {
	r, ok := f.responses[phone]
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (f *fakeSurveyRepo) List(limit, offset int) ([]*models.SurveyResponse, error) {
	var out []*models.SurveyResponse
	for _, r := range f.responses {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeSurveyRepo) ListUnsent() ([]*models.SurveyResponse, error) {
	var out []*models.SurveyResponse
	for _, r := range f.responses {
		if !r.Sent && r.ResumeID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSurveyRepo) MarkSent(phone string) error {
	r, ok := f.responses[phone]
	if !ok {
		return fmt.Errorf("survey response not found: %s", phone)
	}
	r.Sent = true
	return nil
}

type fakeResumeRepo struct {
	resumes   map[string]*models.Resume
	createErr error
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: make(map[string]*models.Resume)}
}

func (f *fakeResumeRepo) Create(resume *models.Resume) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.resumes[resume.ID] = resume
	return nil
}

func (f *fakeResumeRepo) GetByID(id string) (*models.Resume, error) {
	r, ok := f.resumes[id]
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (f *fakeResumeRepo) GetLatestByPhone(phone string) (*models.Resume, error) {
	var latest *models.Resume
	for _, r := range f.resumes {
		if r.Phone == phone && (latest == nil || r.ReceivedAt > latest.ReceivedAt) {
			latest = r
		}
	}
	return latest, nil
}

type fakeVacancyRepo struct {
	vacancies []*models.Vacancy
}

func (f *fakeVacancyRepo) List() ([]*models.Vacancy, error) {
	return f.vacancies, nil
}

func (f *fakeVacancyRepo) ListPage(page int) ([]*models.Vacancy, error) {
	if page > 0 {
		return nil, nil
	}
	return f.vacancies, nil
}

func (f *fakeVacancyRepo) ListFull() ([]*models.Vacancy, error) {
	return f.vacancies, nil
}

func (f *fakeVacancyRepo) GetByID(id int64) (*models.Vacancy, error) {
	for _, v := range f.vacancies {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

// sentMessage records one outbound call on the fake sender
type sentMessage struct {
	kind     string // "text", "template", "list", "buttons"
	to       string
	body     string
	template string
	sections []whatsapp.Section
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendText(ctx context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{kind: "text", to: to, body: body})
	return nil
}

func (f *fakeSender) SendTemplate(ctx context.Context, to, name, langCode string, params ...string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{kind: "template", to: to, template: name})
	return nil
}

func (f *fakeSender) SendInteractiveList(ctx context.Context, to, bodyText, buttonText string, sections []whatsapp.Section) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{kind: "list", to: to, body: bodyText, sections: sections})
	return nil
}

func (f *fakeSender) SendInteractiveButtons(ctx context.Context, to, bodyText string, buttons []whatsapp.Button) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{kind: "buttons", to: to, body: bodyText})
	return nil
}

// last returns the most recent outbound message
func (f *fakeSender) last() sentMessage {
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

type fakeMedia struct {
	url     string
	data    []byte
	urlErr  error
	dataErr error
}

func (f *fakeMedia) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.url, nil
}

func (f *fakeMedia) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	if f.dataErr != nil {
		return nil, f.dataErr
	}
	return f.data, nil
}
