package dto

import (
	"net/url"
	"strconv"
	"strings"
)

// TicketQuery captures list filters for the support ticket endpoint.
// Empty or "all" values are omitted from the request rather than sent
// as literal constraints.
type TicketQuery struct {
	Query    string
	Category string
	Status   string
	Page     int
	PageSize int
}

// Values encodes the query, dropping unset filters.
func (q TicketQuery) Values() url.Values {
	values := url.Values{}
	if text := strings.TrimSpace(q.Query); text != "" {
		values.Set("query", text)
	}
	if q.Category != "" && q.Category != "all" {
		values.Set("category", q.Category)
	}
	if q.Status != "" && q.Status != "all" {
		values.Set("status", q.Status)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Category     string `json:"category"`
	QuestionText string `json:"question_text"`
}

// AnswerTicketRequest is the staff-side partial update that moves a
// ticket to answered.
type AnswerTicketRequest struct {
	AnswerContent string `json:"answer_content"`
}
