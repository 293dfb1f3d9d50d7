package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/bazarbekovic131/wahr-chatbot/internal/db"
	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"go.uber.org/zap"
)

// Prompts outside the question list
const (
	documentReminderText     = "Пожалуйста, отправьте резюме файлом (PDF или DOC), а не текстом."
	documentErrorText        = "Не удалось получить файл. Пожалуйста, отправьте резюме ещё раз."
	surveyConfirmationText   = "Спасибо! Ваше резюме получено, мы свяжемся с вами."
	documentTooEarlyReminder = "Сначала ответьте, пожалуйста, на вопрос анкеты."
)

// SurveyService drives the per-contact survey state machine. Transitions for
// one phone number are serialized through a per-contact lock, so two webhook
// deliveries for the same contact cannot interleave a read-modify-write.
type SurveyService struct {
	contacts db.ContactRepository
	surveys  db.SurveyRepository
	resumes  db.ResumeRepository
	sender   MessageSender
	media    MediaFetcher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	contacts db.ContactRepository,
	surveys db.SurveyRepository,
	resumes db.ResumeRepository,
	sender MessageSender,
	media MediaFetcher,
) *SurveyService {
	return &SurveyService{
		contacts: contacts,
		surveys:  surveys,
		resumes:  resumes,
		sender:   sender,
		media:    media,
		locks:    make(map[string]*sync.Mutex),
	}
}

// contactLock returns the mutex serializing transitions for one phone
func (s *SurveyService) contactLock(phone string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[phone]
	if !ok {
		m = &sync.Mutex{}
		s.locks[phone] = m
	}
	return m
}

// Start moves the contact to the first question. Re-issuing the start trigger
// while a survey is in progress restarts at question 1; previously stored
// answers stay and are overwritten field-by-field on re-answer.
func (s *SurveyService) Start(ctx context.Context, phone string) error {
	lock := s.contactLock(phone)
	lock.Lock()
	defer lock.Unlock()

	question, _ := models.QuestionAt(1)

	if err := s.contacts.UpdateState(phone, models.Asking(1)); err != nil {
		return fmt.Errorf("failed to start survey: %w", err)
	}

	logger.Info("Survey started", zap.String("phone", phone))

	// State is already persisted; a failed prompt send is not rolled back
	if err := s.sender.SendText(ctx, phone, question.Prompt); err != nil {
		return fmt.Errorf("failed to send first question: %w", err)
	}

	return nil
}

// HandleText advances the machine on an inbound text reply. Any non-empty
// text is accepted as an answer; there is no content validation.
func (s *SurveyService) HandleText(ctx context.Context, phone, body string) error {
	lock := s.contactLock(phone)
	lock.Lock()
	defer lock.Unlock()

	contact, err := s.contacts.GetByPhone(phone)
	if err != nil {
		return err
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", phone)
	}

	switch contact.State.Phase {
	case models.PhaseAsking:
		return s.recordAnswer(ctx, phone, contact.State.Step, body)
	case models.PhaseAwaitingDocument:
		// Self-loop: text while a file is expected just re-prompts
		return s.sender.SendText(ctx, phone, documentReminderText)
	}

	return fmt.Errorf("contact %s is not in survey (phase %q)", phone, contact.State.Phase)
}

// recordAnswer stores the reply under the current question's key and emits
// the next prompt, or switches to the document step after the last question
func (s *SurveyService) recordAnswer(ctx context.Context, phone string, step int, body string) error {
	question, ok := models.QuestionAt(step)
	if !ok {
		return fmt.Errorf("survey step %d out of range", step)
	}

	if err := s.surveys.SaveAnswer(phone, question.Key, body); err != nil {
		return err
	}

	next := step + 1
	if next <= models.QuestionCount() {
		if err := s.contacts.UpdateState(phone, models.Asking(next)); err != nil {
			return err
		}
		nextQuestion, _ := models.QuestionAt(next)
		return s.sender.SendText(ctx, phone, nextQuestion.Prompt)
	}

	// Question list exhausted; the machine now expects a file
	if err := s.contacts.UpdateState(phone, models.AwaitingDocument()); err != nil {
		return err
	}
	return s.sender.SendText(ctx, phone, models.DocumentPrompt)
}

// HandleDocument completes the survey on a résumé upload. A document during
// any asking step is not a recognized transition and never marks completion.
// A fetch failure keeps the machine in the document step so the user can
// retry by resending; the failure is logged, not returned.
func (s *SurveyService) HandleDocument(ctx context.Context, phone string, doc *whatsapp.DocumentContent) error {
	lock := s.contactLock(phone)
	lock.Lock()
	defer lock.Unlock()

	contact, err := s.contacts.GetByPhone(phone)
	if err != nil {
		return err
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", phone)
	}

	if contact.State.Phase == models.PhaseAsking {
		return s.sender.SendText(ctx, phone, documentTooEarlyReminder)
	}
	if contact.State.Phase != models.PhaseAwaitingDocument {
		return fmt.Errorf("contact %s is not awaiting a document (phase %q)", phone, contact.State.Phase)
	}

	data, err := s.fetchDocument(ctx, doc)
	if err != nil {
		logger.Error("Failed to retrieve resume document",
			zap.String("phone", phone),
			zap.String("media_id", doc.ID),
			zap.Error(err),
		)
		return s.sender.SendText(ctx, phone, documentErrorText)
	}

	resume := models.NewResume(phone, doc.Filename, doc.MimeType, data)
	if err := s.resumes.Create(resume); err != nil {
		return err
	}
	if err := s.surveys.AttachResume(phone, resume.ID); err != nil {
		return err
	}
	if err := s.contacts.MarkCompleted(phone); err != nil {
		return err
	}

	logger.Info("Survey completed",
		zap.String("phone", phone),
		zap.String("resume_id", resume.ID),
		zap.String("filename", resume.Filename),
	)

	return s.sender.SendText(ctx, phone, surveyConfirmationText)
}

func (s *SurveyService) fetchDocument(ctx context.Context, doc *whatsapp.DocumentContent) ([]byte, error) {
	url, err := s.media.GetMediaURL(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return s.media.DownloadMedia(ctx, url)
}
