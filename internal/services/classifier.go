package services

import (
	"strconv"
	"strings"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
)

// Menu payload IDs carried by template buttons and interactive replies
const (
	PayloadAboutUs         = "about_us"
	PayloadVacancyList     = "vacancy_list"
	PayloadHelp            = "help"
	PayloadStartResumeFlow = "start_resume_flow"
	PayloadHiringProcess   = "hiring_process"
	PayloadContactHR       = "contact_hr"

	// vacancyPayloadPrefix prefixes a vacancy id in interactive list rows
	vacancyPayloadPrefix = "vacancy_"
)

// DirectiveKind enumerates the replies the dispatcher can be asked to send
type DirectiveKind int

const (
	// DirectiveGreeting sends the generic greeting template
	DirectiveGreeting DirectiveKind = iota
	// DirectiveVacancyText sends the vacancy catalog as plain text
	DirectiveVacancyText
	// DirectiveVacancyMenu sends the vacancy catalog as an interactive list
	DirectiveVacancyMenu
	// DirectiveVacancyDetail sends one vacancy's detail (VacancyID set)
	DirectiveVacancyDetail
	// DirectiveResumeTemplate sends the résumé-submission template
	DirectiveResumeTemplate
	// DirectiveStartResumeFlow starts (or restarts) the survey
	DirectiveStartResumeFlow
	// DirectiveAboutUs, DirectiveHelp, DirectiveHiringProcess and
	// DirectiveContactHR send fixed informational texts
	DirectiveAboutUs
	DirectiveHelp
	DirectiveHiringProcess
	DirectiveContactHR
)

// Directive is a classifier decision; executing it is the dispatcher's job
type Directive struct {
	Kind      DirectiveKind
	VacancyID int64
}

// Keyword rules, matched as case-insensitive substrings. The Russian stems
// cover the inflected forms ("вакансия", "вакансии", "работа", "работу", ...).
var (
	vacancyKeywords = []string{"ваканс", "работ", "vacanc", "job"}
	resumeKeywords  = []string{"резюме", "resume"}
)

// Classify inspects an inbound message and produces a response directive.
// It has no side effects; the vacancy slice is the current catalog listing.
func Classify(msg *whatsapp.Message, vacancies []*models.Vacancy) Directive {
	switch msg.Type {
	case whatsapp.TypeText:
		if msg.Text == nil {
			return Directive{Kind: DirectiveGreeting}
		}
		return classifyText(msg.Text.Body, vacancies)
	case whatsapp.TypeButton:
		if msg.Button == nil {
			return Directive{Kind: DirectiveGreeting}
		}
		return classifyPayload(msg.Button.Payload)
	case whatsapp.TypeInteractive:
		if msg.Interactive == nil {
			return Directive{Kind: DirectiveGreeting}
		}
		return classifyPayload(msg.Interactive.ReplyID())
	}
	return Directive{Kind: DirectiveGreeting}
}

// classifyText applies the keyword rules in fixed order: vacancy intent,
// résumé intent, vacancy title containment, greeting fallback
func classifyText(body string, vacancies []*models.Vacancy) Directive {
	lower := strings.ToLower(body)

	if containsAny(lower, vacancyKeywords) {
		return Directive{Kind: DirectiveVacancyText}
	}

	if containsAny(lower, resumeKeywords) {
		return Directive{Kind: DirectiveResumeTemplate}
	}

	// First catalog entry in listing order wins
	for _, v := range vacancies {
		if v.Title != "" && strings.Contains(lower, strings.ToLower(v.Title)) {
			return Directive{Kind: DirectiveVacancyDetail, VacancyID: v.ID}
		}
	}

	return Directive{Kind: DirectiveGreeting}
}

// classifyPayload dispatches by exact payload id match. A list reply carrying
// a vacancy id bypasses keyword matching entirely.
func classifyPayload(id string) Directive {
	if vacancyID, ok := parseVacancyPayload(id); ok {
		return Directive{Kind: DirectiveVacancyDetail, VacancyID: vacancyID}
	}

	switch id {
	case PayloadAboutUs:
		return Directive{Kind: DirectiveAboutUs}
	case PayloadVacancyList:
		return Directive{Kind: DirectiveVacancyMenu}
	case PayloadHelp:
		return Directive{Kind: DirectiveHelp}
	case PayloadStartResumeFlow:
		return Directive{Kind: DirectiveStartResumeFlow}
	case PayloadHiringProcess:
		return Directive{Kind: DirectiveHiringProcess}
	case PayloadContactHR:
		return Directive{Kind: DirectiveContactHR}
	}

	return Directive{Kind: DirectiveGreeting}
}

// VacancyPayloadID renders the interactive row id for a vacancy
func VacancyPayloadID(id int64) string {
	return vacancyPayloadPrefix + strconv.FormatInt(id, 10)
}

func parseVacancyPayload(id string) (int64, bool) {
	if !strings.HasPrefix(id, vacancyPayloadPrefix) {
		return 0, false
	}
	vacancyID, err := strconv.ParseInt(strings.TrimPrefix(id, vacancyPayloadPrefix), 10, 64)
	if err != nil || vacancyID <= 0 {
		return 0, false
	}
	return vacancyID, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
