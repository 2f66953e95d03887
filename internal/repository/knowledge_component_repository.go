package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/model"
	"gorm.io/gorm"
)

// ErrComponentsMissing reports how many of the requested knowledge
// components could not be resolved.
type ErrComponentsMissing struct {
	Requested int
	Found     int
}

func (e *ErrComponentsMissing) Error() string {
	return fmt.Sprintf("knowledge components not found: requested %d, found %d", e.Requested, e.Found)
}

type KnowledgeComponentRepository interface {
	// FindByIDs resolves active components by id. With ensureAll set, any
	// missing or inactive id fails the whole lookup.
	FindByIDs(ids []uuid.UUID, ensureAll bool) ([]model.KnowledgeComponent, error)
	FindAllActive() ([]model.KnowledgeComponent, error)
}

type knowledgeComponentRepository struct {
	db *gorm.DB
}

func NewKnowledgeComponentRepository(db *gorm.DB) KnowledgeComponentRepository {
	return &knowledgeComponentRepository{db: db}
}

func (r *knowledgeComponentRepository) FindByIDs(ids []uuid.UUID, ensureAll bool) ([]model.KnowledgeComponent, error) {
	var components []model.KnowledgeComponent
	if err := r.db.Where("id IN ? AND active = ?", ids, true).Find(&components).Error; err != nil {
		return nil, err
	}
	if ensureAll && len(components) != len(ids) {
		return nil, &ErrComponentsMissing{Requested: len(ids), Found: len(components)}
	}
	return components, nil
}

func (r *knowledgeComponentRepository) FindAllActive() ([]model.KnowledgeComponent, error) {
	var components []model.KnowledgeComponent
	if err := r.db.Where("active = ?", true).Order("name ASC").Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}
