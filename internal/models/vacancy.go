package models

// Vacancy is a read-only catalog entry
type Vacancy struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Requirements string `json:"requirements"`
	Details      string `json:"details"`
	Tasks        string `json:"tasks"`
	Salary       string `json:"salary,omitempty"`
}

// maxRowTitleLen is the WhatsApp interactive list row title limit
const maxRowTitleLen = 24

// DisplayTitle returns the title truncated to the interactive list limit
func (v *Vacancy) DisplayTitle() string {
	runes := []rune(v.Title)
	if len(runes) <= maxRowTitleLen {
		return v.Title
	}
	return string(runes[:maxRowTitleLen-1]) + "…"
}
