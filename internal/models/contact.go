package models

import (
	"fmt"
	"time"
)

// SurveyPhase is the discriminant of a contact's survey state
type SurveyPhase string

const (
	PhaseIdle             SurveyPhase = "idle"
	PhaseAsking           SurveyPhase = "asking"
	PhaseAwaitingDocument SurveyPhase = "awaiting_document"
	PhaseCompleted        SurveyPhase = "completed"
)

// SurveyState is a tagged variant: Step carries meaning only while asking.
// Use the constructors so flag/step mismatches cannot be built.
type SurveyState struct {
	Phase SurveyPhase `json:"phase"`
	Step  int         `json:"step"` // 1-based question index, 0 outside of asking
}

// Idle returns the initial state
func Idle() SurveyState {
	return SurveyState{Phase: PhaseIdle}
}

// Asking returns the state for question number step (1-based)
func Asking(step int) SurveyState {
	return SurveyState{Phase: PhaseAsking, Step: step}
}

// AwaitingDocument returns the state reached after the last question
func AwaitingDocument() SurveyState {
	return SurveyState{Phase: PhaseAwaitingDocument}
}

// Completed returns the terminal state
func Completed() SurveyState {
	return SurveyState{Phase: PhaseCompleted}
}

// InSurvey reports whether the contact currently holds the conversation,
// i.e. inbound messages go to the survey machine instead of the classifier
func (s SurveyState) InSurvey() bool {
	return s.Phase == PhaseAsking || s.Phase == PhaseAwaitingDocument
}

// Validate checks the phase/step consistency invariant
func (s SurveyState) Validate() error {
	switch s.Phase {
	case PhaseAsking:
		if s.Step < 1 || s.Step > QuestionCount() {
			return fmt.Errorf("asking step %d out of range [1, %d]", s.Step, QuestionCount())
		}
	case PhaseIdle, PhaseAwaitingDocument, PhaseCompleted:
		if s.Step != 0 {
			return fmt.Errorf("step must be 0 in phase %q, got %d", s.Phase, s.Step)
		}
	default:
		return fmt.Errorf("unknown survey phase %q", s.Phase)
	}
	return nil
}

// Contact represents a WhatsApp end-user identified by phone number
type Contact struct {
	Phone              string      `json:"phone"`
	Name               string      `json:"name"`
	State              SurveyState `json:"state"`
	CompletedSurvey    bool        `json:"completed_survey"`
	WantsNotifications bool        `json:"wants_notifications"`
	CreatedAt          int64       `json:"created_at"`
	UpdatedAt          int64       `json:"updated_at"`
}

// NewContact creates a contact in the idle state with notifications enabled
func NewContact(phone, name string) *Contact {
	now := time.Now().Unix()
	return &Contact{
		Phone:              phone,
		Name:               name,
		State:              Idle(),
		WantsNotifications: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NormalizePhone strips the leading plus and surrounding whitespace so the
// same number always maps to the same contact row
func NormalizePhone(phone string) string {
	out := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		switch phone[i] {
		case '+', ' ', '\t':
		default:
			out = append(out, phone[i])
		}
	}
	return string(out)
}
