package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bazarbekovic131/wahr-chatbot/internal/db"
	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"go.uber.org/zap"
)

// Template names registered with the platform
const (
	TemplateGreeting         = "greeting"
	TemplateResumeSubmission = "otpravka_resume"
	TemplateVacancyCampaign  = "rassylka_vacansii"
	templateLanguage         = "ru"
)

// Fixed informational replies for the menu payloads
const (
	aboutUsText = "Мы — производственная компания, и мы всегда ищем людей в команду. " +
		"Напишите «вакансии», чтобы посмотреть открытые позиции."
	helpText = "Напишите «вакансии» — пришлём список открытых позиций.\n" +
		"Напишите «резюме» — расскажем, как откликнуться.\n" +
		"Выберите вакансию из списка, чтобы увидеть подробности."
	hiringProcessText = "Как проходит отбор: короткая анкета в этом чате, резюме файлом, " +
		"затем звонок HR и собеседование на площадке."
	contactHRText       = "Связаться с HR можно по будням с 9:00 до 18:00 по этому номеру."
	vacancyListHeader   = "Отлично! У нас есть несколько открытых позиций:\n"
	vacancyMenuBody     = "Выберите вакансию, чтобы узнать подробности:"
	vacancyMenuButton   = "Вакансии"
	vacancySectionTitle = "Открытые позиции"
	vacancyUnknownText  = "Такой вакансии уже нет, но есть другие. Напишите «вакансии»."
)

// DispatchService routes one inbound webhook delivery: survey messages to the
// state machine, everything else through the classifier
type DispatchService struct {
	contacts  db.ContactRepository
	vacancies db.VacancyRepository
	survey    *SurveyService
	sender    MessageSender
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	contacts db.ContactRepository,
	vacancies db.VacancyRepository,
	survey *SurveyService,
	sender MessageSender,
) *DispatchService {
	return &DispatchService{
		contacts:  contacts,
		vacancies: vacancies,
		survey:    survey,
		sender:    sender,
	}
}

// Process handles one validated webhook delivery to completion
func (s *DispatchService) Process(ctx context.Context, payload *whatsapp.WebhookPayload) error {
	msg, waID, name := payload.FirstMessage()
	if msg == nil || waID == "" {
		return fmt.Errorf("webhook payload has no message")
	}

	phone := models.NormalizePhone(waID)

	// Contacts are created on first inbound message from an unseen number
	if err := s.contacts.Create(models.NewContact(phone, name)); err != nil {
		return err
	}

	contact, err := s.contacts.GetByPhone(phone)
	if err != nil {
		return err
	}
	if contact == nil {
		return fmt.Errorf("contact %s missing after create", phone)
	}

	logger.Info("Processing message",
		zap.String("phone", phone),
		zap.String("type", msg.Type),
		zap.String("phase", string(contact.State.Phase)),
	)

	if contact.State.InSurvey() {
		switch msg.Type {
		case whatsapp.TypeText:
			if msg.Text == nil {
				return fmt.Errorf("text message has no body")
			}
			return s.survey.HandleText(ctx, phone, msg.Text.Body)
		case whatsapp.TypeDocument:
			if msg.Document == nil {
				return fmt.Errorf("document message has no document")
			}
			return s.survey.HandleDocument(ctx, phone, msg.Document)
		}
		// Button and interactive payloads fall through to the classifier so
		// the start trigger can restart the survey mid-flight
	}

	vacancies, err := s.vacancies.List()
	if err != nil {
		return err
	}

	directive := Classify(msg, vacancies)
	return s.execute(ctx, phone, directive, vacancies)
}

// execute renders and sends the reply a directive asks for
func (s *DispatchService) execute(ctx context.Context, phone string, d Directive, vacancies []*models.Vacancy) error {
	switch d.Kind {
	case DirectiveVacancyText:
		return s.sendVacancyText(ctx, phone, vacancies)
	case DirectiveVacancyMenu:
		return s.sendVacancyMenu(ctx, phone)
	case DirectiveVacancyDetail:
		return s.sendVacancyDetail(ctx, phone, d.VacancyID)
	case DirectiveResumeTemplate:
		return s.sender.SendTemplate(ctx, phone, TemplateResumeSubmission, templateLanguage)
	case DirectiveStartResumeFlow:
		return s.survey.Start(ctx, phone)
	case DirectiveAboutUs:
		return s.sender.SendText(ctx, phone, aboutUsText)
	case DirectiveHelp:
		return s.sender.SendText(ctx, phone, helpText)
	case DirectiveHiringProcess:
		return s.sender.SendText(ctx, phone, hiringProcessText)
	case DirectiveContactHR:
		return s.sender.SendText(ctx, phone, contactHRText)
	}
	return s.sender.SendTemplate(ctx, phone, TemplateGreeting, templateLanguage)
}

// sendVacancyText renders the catalog as numbered plain text
func (s *DispatchService) sendVacancyText(ctx context.Context, phone string, vacancies []*models.Vacancy) error {
	var b strings.Builder
	b.WriteString(vacancyListHeader)
	for _, v := range vacancies {
		b.WriteString(fmt.Sprintf("\n%d. %s", v.ID, v.Title))
	}
	return s.sender.SendText(ctx, phone, b.String())
}

// sendVacancyMenu renders the first catalog page as an interactive list;
// row ids carry the vacancy id back through the webhook
func (s *DispatchService) sendVacancyMenu(ctx context.Context, phone string) error {
	page, err := s.vacancies.ListPage(0)
	if err != nil {
		return err
	}

	section := whatsapp.Section{Title: vacancySectionTitle}
	for _, v := range page {
		section.Rows = append(section.Rows, whatsapp.Row{
			ID:    VacancyPayloadID(v.ID),
			Title: v.DisplayTitle(),
		})
	}

	return s.sender.SendInteractiveList(ctx, phone, vacancyMenuBody, vacancyMenuButton, []whatsapp.Section{section})
}

// sendVacancyDetail renders one vacancy's full description
func (s *DispatchService) sendVacancyDetail(ctx context.Context, phone string, id int64) error {
	vacancy, err := s.vacancies.GetByID(id)
	if err != nil {
		return err
	}
	if vacancy == nil {
		return s.sender.SendText(ctx, phone, vacancyUnknownText)
	}

	text := fmt.Sprintf("Вакансия: %s\n\nТребования:\n%s\n\nУсловия работы:\n%s",
		vacancy.Title, vacancy.Requirements, vacancy.Details)
	if vacancy.Salary != "" {
		text += fmt.Sprintf("\n\nЗарплата: %s", vacancy.Salary)
	}
	return s.sender.SendText(ctx, phone, text)
}
