package entity

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type (
	// Session is a sequence of conversational turns belonging to one user
	// of one app.
	Session struct {
		ID        string `gorm:"primaryKey"`
		AppName   string `gorm:"index"`
		UserID    string `gorm:"index"`
		CreatedAt time.Time
		UpdatedAt time.Time

		Events []Event `gorm:"foreignKey:SessionID"`
	}

	// Event is a single turn in a session. Content is a list of parts so
	// that text and function calls can coexist in one turn.
	Event struct {
		ID           string `gorm:"primaryKey"`
		SessionID    string `gorm:"index"`
		InvocationID string
		Author       string
		Parts        datatypes.JSONSlice[Part]
		CreatedAt    time.Time
	}

	Part struct {
		Text         string `json:"text,omitempty"`
		FunctionCall string `json:"functionCall,omitempty"`
	}
)

const (
	EventAuthorUser  = "user"
	EventAuthorModel = "model"
)

// Text joins the text parts of the event. Function-call parts carry no
// text and contribute nothing.
func (e *Event) Text() string {
	texts := make([]string, 0, len(e.Parts))
	for _, p := range e.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}
