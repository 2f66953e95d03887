package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the closed set of states a generation request moves
// through. Transitions are validated centrally via CanTransition.
type RequestStatus string

const (
	RequestAwaitingUpload   RequestStatus = "AWAITING_UPLOAD"
	RequestUploadInProgress RequestStatus = "UPLOAD_IN_PROGRESS"
	RequestProcessing       RequestStatus = "PROCESSING"
	RequestReadyForReview   RequestStatus = "READY_FOR_REVIEW"
	RequestCompleted        RequestStatus = "COMPLETED"
	RequestFailed           RequestStatus = "FAILED"
)

// requestTransitions lists the legal next states per current state.
// FAILED is re-enterable into PROCESSING so a user can re-confirm after a
// generation failure.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestAwaitingUpload:   {RequestUploadInProgress},
	RequestUploadInProgress: {RequestUploadInProgress, RequestProcessing},
	RequestProcessing:       {RequestReadyForReview, RequestFailed},
	RequestReadyForReview:   {RequestCompleted},
	RequestCompleted:        {},
	RequestFailed:           {RequestProcessing, RequestUploadInProgress},
}

// CanTransition reports whether a request may move from one status to
// another. Every status write in the pipeline goes through this check.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible. FAILED is
// terminal for the pipeline outcome but still recoverable by retry.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted
}

// GenerationRequest is one user's intent to produce a batch of exam items
// from an uploaded source document. Academic scoping and ownership are set
// at creation and never changed by the pipeline.
type GenerationRequest struct {
	ID      uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	UniversityID uuid.UUID  `gorm:"type:uuid;not null" json:"university_id"`
	FacultyID    uuid.UUID  `gorm:"type:uuid;not null" json:"faculty_id"`
	UnitID       *uuid.UUID `gorm:"type:uuid" json:"unit_id,omitempty"`
	SubjectID    uuid.UUID  `gorm:"type:uuid;not null" json:"subject_id"`
	CourseID     uuid.UUID  `gorm:"type:uuid;not null" json:"course_id"`
	YearOfStudy  string     `gorm:"not null" json:"year_of_study"`

	RequestedMCQCount     int         `gorm:"not null;default:0" json:"requested_mcq_count"`
	RequestedQROCCount    int         `gorm:"not null;default:0" json:"requested_qroc_count"`
	Difficulty            string      `gorm:"not null;default:'medium'" json:"difficulty"`
	ContentTypes          []string    `gorm:"serializer:json" json:"content_types"`
	KnowledgeComponentIDs []uuid.UUID `gorm:"serializer:json" json:"knowledge_component_ids"`

	SourceFileName       *string    `json:"source_file_name,omitempty"`
	SourceFileMime       *string    `json:"source_file_mime,omitempty"`
	SourceFileSize       *int64     `json:"source_file_size,omitempty"`
	SourceFilePath       *string    `json:"source_file_path,omitempty"`
	SourceFileExternalID *string    `json:"source_file_external_id,omitempty"`
	UploadedAt           *time.Time `json:"uploaded_at,omitempty"`

	Status        RequestStatus `gorm:"not null;default:'AWAITING_UPLOAD';index" json:"status"`
	FailureReason *string       `gorm:"type:text" json:"failure_reason,omitempty"`

	Items []GenerationItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *GenerationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasStoredSource reports whether the source document reached local storage.
// A request may not be confirmed for processing without it.
func (r *GenerationRequest) HasStoredSource() bool {
	return r.SourceFilePath != nil && *r.SourceFilePath != ""
}
