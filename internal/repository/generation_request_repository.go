package repository

import (
	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/model"
	"gorm.io/gorm"
)

type GenerationRequestRepository interface {
	Create(request *model.GenerationRequest) error
	// FindByIDAndOwner scopes every lookup by owner so that a foreign
	// request is indistinguishable from a missing one.
	FindByIDAndOwner(id, ownerID uuid.UUID, withItems bool) (*model.GenerationRequest, error)
	FindAllByOwner(ownerID uuid.UUID) ([]model.GenerationRequest, error)
	Update(request *model.GenerationRequest) error
	// ClaimProcessing conditionally moves a request into PROCESSING with a
	// single UPDATE ... WHERE status IN (...). Returns false when another
	// caller already claimed the transition.
	ClaimProcessing(id uuid.UUID, from []model.RequestStatus) (bool, error)
}

type generationRequestRepository struct {
	db *gorm.DB
}

func NewGenerationRequestRepository(db *gorm.DB) GenerationRequestRepository {
	return &generationRequestRepository{db: db}
}

func (r *generationRequestRepository) Create(request *model.GenerationRequest) error {
	return r.db.Create(request).Error
}

func (r *generationRequestRepository) FindByIDAndOwner(id, ownerID uuid.UUID, withItems bool) (*model.GenerationRequest, error) {
	query := r.db.Where("id = ? AND owner_id = ?", id, ownerID)
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("generation_items.created_at ASC")
		})
	}
	var request model.GenerationRequest
	if err := query.First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *generationRequestRepository) FindAllByOwner(ownerID uuid.UUID) ([]model.GenerationRequest, error) {
	var requests []model.GenerationRequest
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *generationRequestRepository) Update(request *model.GenerationRequest) error {
	return r.db.Save(request).Error
}

func (r *generationRequestRepository) ClaimProcessing(id uuid.UUID, from []model.RequestStatus) (bool, error) {
	result := r.db.Model(&model.GenerationRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":         model.RequestProcessing,
			"failure_reason": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
