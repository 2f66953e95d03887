package repository

import (
	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/model"
	"gorm.io/gorm"
)

// ReferenceRepository reads the externally managed academic entities the
// pipeline needs for display names and the unit fallback chain.
type ReferenceRepository interface {
	FindUnit(id uuid.UUID) (*model.Unit, error)
	FindSubject(id uuid.UUID) (*model.Subject, error)
	FindCourse(id uuid.UUID) (*model.Course, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindUnit(id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *referenceRepository) FindSubject(id uuid.UUID) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *referenceRepository) FindCourse(id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}
