package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemType is the kind of exam question an item represents.
type ItemType string

const (
	ItemTypeMCQ  ItemType = "MCQ"
	ItemTypeQROC ItemType = "QROC"
)

// KnownItemType reports whether a declared content type is recognized.
func KnownItemType(t string) bool {
	return ItemType(t) == ItemTypeMCQ || ItemType(t) == ItemTypeQROC
}

// ItemStatus is the review lifecycle of a generated item.
type ItemStatus string

const (
	ItemPendingReview ItemStatus = "PENDING_REVIEW"
	ItemApproved      ItemStatus = "APPROVED"
	ItemRejected      ItemStatus = "REJECTED"
	ItemConverted     ItemStatus = "CONVERTED"
)

// itemTransitions lists the legal next states per current state. An update
// re-enters PENDING_REVIEW, which is why the state maps to itself. CONVERTED
// is one-way: nothing may touch a converted item.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPendingReview: {ItemPendingReview, ItemApproved, ItemRejected},
	ItemApproved:      {ItemConverted, ItemRejected},
	ItemRejected:      {ItemPendingReview, ItemRejected},
	ItemConverted:     {},
}

// CanTransition reports whether an item may move from one status to another.
func (s ItemStatus) CanTransition(to ItemStatus) bool {
	for _, next := range itemTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ItemOption is one answer choice of an MCQ item.
type ItemOption struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// GenerationItem is one candidate exam question produced by the pipeline,
// subject to human review before it becomes a permanent question-bank
// record.
type GenerationItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`

	Type           ItemType     `gorm:"not null" json:"type"`
	Stem           string       `gorm:"type:text;not null" json:"stem"`
	Options        []ItemOption `gorm:"serializer:json" json:"options"`
	ExpectedAnswer *string      `gorm:"type:text" json:"expected_answer,omitempty"`

	Status          ItemStatus `gorm:"not null;default:'PENDING_REVIEW';index" json:"status"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *GenerationItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
