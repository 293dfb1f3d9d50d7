package models

// AnswerKey identifies one survey answer column. Keys are a closed set so
// caller-controlled text never becomes a SQL identifier.
type AnswerKey string

const (
	AnswerFullName       AnswerKey = "full_name"
	AnswerAgeGroup       AnswerKey = "age_group"
	AnswerEmail          AnswerKey = "email"
	AnswerDesiredVacancy AnswerKey = "desired_vacancy"
)

// Question pairs a prompt with the key its answer is stored under
type Question struct {
	Key    AnswerKey
	Prompt string
}

// questions is the fixed, ordered survey. Changing it is a deploy-time
// decision; the terminal step (résumé upload) is not part of this list.
var questions = []Question{
	{Key: AnswerFullName, Prompt: "Как вас зовут? Напишите, пожалуйста, ФИО полностью."},
	{Key: AnswerAgeGroup, Prompt: "Сколько вам лет?"},
	{Key: AnswerEmail, Prompt: "Укажите ваш email для связи."},
	{Key: AnswerDesiredVacancy, Prompt: "Какая вакансия вас интересует?"},
}

// DocumentPrompt is sent once the question list is exhausted
const DocumentPrompt = "Спасибо! Теперь отправьте ваше резюме файлом (PDF или DOC)."

// QuestionCount returns the number of text questions N
func QuestionCount() int {
	return len(questions)
}

// QuestionAt returns the question for a 1-based step
func QuestionAt(step int) (Question, bool) {
	if step < 1 || step > len(questions) {
		return Question{}, false
	}
	return questions[step-1], true
}

// SurveyResponse holds one contact's collected answers. One row per contact;
// fields are overwritten when a question is re-answered.
type SurveyResponse struct {
	Phone          string `json:"phone"`
	FullName       string `json:"full_name"`
	AgeGroup       string `json:"age_group"`
	Email          string `json:"email"`
	DesiredVacancy string `json:"desired_vacancy"`
	ResumeID       string `json:"resume_id,omitempty"`
	Sent           bool   `json:"sent"`
	UpdatedAt      int64  `json:"updated_at"`
}

// Answer returns the stored answer for a key
func (r *SurveyResponse) Answer(key AnswerKey) string {
	switch key {
	case AnswerFullName:
		return r.FullName
	case AnswerAgeGroup:
		return r.AgeGroup
	case AnswerEmail:
		return r.Email
	case AnswerDesiredVacancy:
		return r.DesiredVacancy
	}
	return ""
}
