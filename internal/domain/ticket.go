package domain

import "time"

// TicketCategory enumerates submitted question categories.
type TicketCategory string

const (
	TicketCategoryFAQ      TicketCategory = "faq"
	TicketCategoryTicket   TicketCategory = "ticket"
	TicketCategoryCar      TicketCategory = "car"
	TicketCategoryIncident TicketCategory = "incident"
)

// TicketCategories lists the creatable categories in display order.
var TicketCategories = []TicketCategory{
	TicketCategoryFAQ,
	TicketCategoryTicket,
	TicketCategoryCar,
	TicketCategoryIncident,
}

// TicketStatusFilter is the server-side status filter vocabulary.
type TicketStatusFilter string

const (
	TicketStatusAll        TicketStatusFilter = "all"
	TicketStatusAnswered   TicketStatusFilter = "answered"
	TicketStatusUnanswered TicketStatusFilter = "unanswered"
)

// SupportTicket is a user-submitted question. Its only lifecycle
// transition is unanswered to answered, performed server-side when a
// staff member supplies answer content.
type SupportTicket struct {
	ID              int64          `json:"id"`
	Author          *User          `json:"author"`
	Category        TicketCategory `json:"category"`
	CategoryDisplay string         `json:"category_display"`
	QuestionText    string         `json:"question_text"`
	CreatedAt       time.Time      `json:"created_at"`
	IsAnswered      bool           `json:"is_answered"`
	AnswerContent   string         `json:"answer_content"`
	AnsweredBy      *User          `json:"answered_by"`
	AnsweredAt      *time.Time     `json:"answered_at"`
	IsPublicFAQ     bool           `json:"is_public_faq"`
}
