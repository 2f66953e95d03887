package dto

import (
	"time"

	"github.com/google/uuid"
)

// RequestedCountsDTO carries how many items of each kind to generate.
type RequestedCountsDTO struct {
	MCQ  int `json:"mcq" binding:"min=0,max=100"`
	QROC int `json:"qroc" binding:"min=0,max=100"`
}

// CreateGenerationRequestDTO is the payload for opening a new generation
// request. Academic scoping ids reference externally managed entities.
type CreateGenerationRequestDTO struct {
	University            uuid.UUID          `json:"university" binding:"required"`
	Faculty               uuid.UUID          `json:"faculty" binding:"required"`
	YearOfStudy           string             `json:"year_of_study" binding:"required"`
	Unit                  *uuid.UUID         `json:"unit"`
	Subject               uuid.UUID          `json:"subject" binding:"required"`
	Course                uuid.UUID          `json:"course" binding:"required"`
	Difficulty            string             `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	RequestedCounts       RequestedCountsDTO `json:"requested_counts"`
	ContentTypes          []string           `json:"content_types"`
	KnowledgeComponentIDs []uuid.UUID        `json:"knowledge_component_ids"`
}

// ItemOptionDTO is one MCQ answer choice in item payloads.
type ItemOptionDTO struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// UpdateGenerationItemDTO is the reviewer's edit payload for a pending item.
type UpdateGenerationItemDTO struct {
	Type           string          `json:"type" binding:"required,oneof=MCQ QROC"`
	Stem           string          `json:"stem"`
	Options        []ItemOptionDTO `json:"options"`
	ExpectedAnswer *string         `json:"expected_answer"`
}

// RejectGenerationItemDTO carries the optional rejection reason.
type RejectGenerationItemDTO struct {
	Reason *string `json:"reason"`
}

// --- Responses ---

// CreateRequestResponseDTO points the client at the upload endpoint for the
// request it just created.
type CreateRequestResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	UploadURL string    `json:"upload_url"`
}

type GenerationItemResponseDTO struct {
	ID              uuid.UUID       `json:"id"`
	RequestID       uuid.UUID       `json:"request_id"`
	Type            string          `json:"type"`
	Stem            string          `json:"stem"`
	Options         []ItemOptionDTO `json:"options"`
	ExpectedAnswer  *string         `json:"expected_answer,omitempty"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type GenerationRequestResponseDTO struct {
	ID                    uuid.UUID                   `json:"id"`
	OwnerID               uuid.UUID                   `json:"owner_id"`
	UniversityID          uuid.UUID                   `json:"university_id"`
	FacultyID             uuid.UUID                   `json:"faculty_id"`
	UnitID                *uuid.UUID                  `json:"unit_id,omitempty"`
	SubjectID             uuid.UUID                   `json:"subject_id"`
	CourseID              uuid.UUID                   `json:"course_id"`
	YearOfStudy           string                      `json:"year_of_study"`
	RequestedMCQCount     int                         `json:"requested_mcq_count"`
	RequestedQROCCount    int                         `json:"requested_qroc_count"`
	Difficulty            string                      `json:"difficulty"`
	ContentTypes          []string                    `json:"content_types"`
	KnowledgeComponentIDs []uuid.UUID                 `json:"knowledge_component_ids"`
	SourceFileName        *string                     `json:"source_file_name,omitempty"`
	SourceFileMime        *string                     `json:"source_file_mime,omitempty"`
	SourceFileSize        *int64                      `json:"source_file_size,omitempty"`
	UploadedAt            *time.Time                  `json:"uploaded_at,omitempty"`
	Status                string                      `json:"status"`
	FailureReason         *string                     `json:"failure_reason,omitempty"`
	Items                 []GenerationItemResponseDTO `json:"items,omitempty"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

// UploadSourceResponseDTO acknowledges a stored source file.
type UploadSourceResponseDTO struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// FinalizeResultDTO reports the outcome of a finalize pass. Failures lists
// per-item conversion errors when the pass was only partially successful.
type FinalizeResultDTO struct {
	Generated int      `json:"generated"`
	Failures  []string `json:"failures,omitempty"`
}

type KnowledgeComponentResponseDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
