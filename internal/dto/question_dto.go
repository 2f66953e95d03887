package dto

import "github.com/google/uuid"

// CreateQuestionDTO is the normalized payload handed to the question-bank
// writer when an approved generation item is converted into a permanent
// record.
type CreateQuestionDTO struct {
	YearOfStudy           string
	Type                  string // "qcm" or "qroc"
	Question              string
	Answer                *string
	Options               []ItemOptionDTO
	Explanation           *string
	Difficulty            string
	EstimatedTime         int
	Tag                   string
	QuizType              string
	Baseline              int
	Promo                 int
	University            uuid.UUID
	Faculty               uuid.UUID
	Unit                  uuid.UUID
	Subject               uuid.UUID
	Course                uuid.UUID
	KnowledgeComponentIDs []uuid.UUID
	SourceRequestID       *uuid.UUID
	CreatedBy             uuid.UUID
}
