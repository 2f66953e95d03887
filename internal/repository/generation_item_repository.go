package repository

import (
	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/model"
	"gorm.io/gorm"
)

type GenerationItemRepository interface {
	// CreateBatch inserts all items of a generation attempt in one statement
	// so the batch lands atomically or not at all.
	CreateBatch(items []*model.GenerationItem) error
	FindByIDAndRequest(itemID, requestID uuid.UUID) (*model.GenerationItem, error)
	FindAllByRequest(requestID uuid.UUID) ([]model.GenerationItem, error)
	Update(item *model.GenerationItem) error
}

type generationItemRepository struct {
	db *gorm.DB
}

func NewGenerationItemRepository(db *gorm.DB) GenerationItemRepository {
	return &generationItemRepository{db: db}
}

func (r *generationItemRepository) CreateBatch(items []*model.GenerationItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(items).Error
}

func (r *generationItemRepository) FindByIDAndRequest(itemID, requestID uuid.UUID) (*model.GenerationItem, error) {
	var item model.GenerationItem
	if err := r.db.Where("id = ? AND request_id = ?", itemID, requestID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *generationItemRepository) FindAllByRequest(requestID uuid.UUID) ([]model.GenerationItem, error) {
	var items []model.GenerationItem
	if err := r.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *generationItemRepository) Update(item *model.GenerationItem) error {
	return r.db.Save(item).Error
}
