package model

import (
	"time"

	"github.com/google/uuid"
)

// Reference entities are owned by other subsystems; the pipeline reads them
// for scoping, display names and knowledge-component resolution. Display
// naming is inconsistent across them (some carry Name, some Title, some
// Label), hence the fallback chain in DisplayName.

type University struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Faculty struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name         string    `json:"name"`
	UniversityID uuid.UUID `gorm:"type:uuid" json:"university_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID        uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Label     string     `json:"label"`
	UnitID    *uuid.UUID `gorm:"type:uuid" json:"unit_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Label     string    `json:"label"`
	SubjectID uuid.UUID `gorm:"type:uuid" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}

// KnowledgeComponent is a curriculum concept a generated question targets.
type KnowledgeComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName picks the first non-empty of name, title, label, falling back
// to a generic default. Reference entities are defined externally and do not
// agree on which field carries the human-readable name.
func DisplayName(name, title, label, fallback string) string {
	switch {
	case name != "":
		return name
	case title != "":
		return title
	case label != "":
		return label
	default:
		return fallback
	}
}

func (u *Unit) DisplayName() string {
	return DisplayName(u.Name, u.Title, "", "Unit")
}

func (s *Subject) DisplayName() string {
	return DisplayName(s.Name, s.Title, s.Label, "Subject")
}

func (c *Course) DisplayName() string {
	return DisplayName(c.Name, c.Title, c.Label, "Course")
}
