package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionType mirrors the question-bank taxonomy: "qcm" for multiple
// choice, "qroc" for short answer.
type QuestionType string

const (
	QuestionTypeQCM  QuestionType = "qcm"
	QuestionTypeQROC QuestionType = "qroc"
)

// Question is a permanent question-bank record. The generation pipeline
// only ever creates these, during finalize; it never edits or deletes them.
type Question struct {
	ID uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`

	Type          QuestionType `gorm:"not null;default:'qcm'" json:"type"`
	QuestionText  string       `gorm:"type:text;not null" json:"question"`
	Answer        *string      `gorm:"type:text" json:"answer,omitempty"`
	Options       []ItemOption `gorm:"serializer:json" json:"options,omitempty"`
	Explanation   *string      `gorm:"type:text" json:"explanation,omitempty"`
	Difficulty    string       `gorm:"not null;default:'medium'" json:"difficulty"`
	EstimatedTime int          `gorm:"not null;default:10" json:"estimated_time"`
	Tag           string       `gorm:"not null;default:'exam'" json:"tag"`
	QuizType      string       `gorm:"not null;default:'theorique'" json:"quiz_type"`
	Baseline      int          `gorm:"not null;default:1" json:"baseline"`
	Promo         int          `json:"promo"`
	YearOfStudy   string       `gorm:"not null" json:"year_of_study"`

	UniversityID          uuid.UUID   `gorm:"type:uuid;not null" json:"university_id"`
	FacultyID             uuid.UUID   `gorm:"type:uuid;not null" json:"faculty_id"`
	UnitID                uuid.UUID   `gorm:"type:uuid;not null" json:"unit_id"`
	SubjectID             uuid.UUID   `gorm:"type:uuid;not null" json:"subject_id"`
	CourseID              uuid.UUID   `gorm:"type:uuid;not null" json:"course_id"`
	KnowledgeComponentIDs []uuid.UUID `gorm:"serializer:json" json:"knowledge_component_ids"`

	// SourceRequestID records provenance for questions created by the
	// generation pipeline.
	SourceRequestID *uuid.UUID `gorm:"type:uuid;index" json:"source_request_id,omitempty"`
	CreatedByID     uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
