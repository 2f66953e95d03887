package service

import (
	"fmt"

	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/repository"
)

// ReferenceService exposes the read-only curriculum data clients need when
// building a generation request.
type ReferenceService interface {
	ListKnowledgeComponents() ([]dto.KnowledgeComponentResponseDTO, error)
}

type referenceService struct {
	kcRepo repository.KnowledgeComponentRepository
}

func NewReferenceService(kcRepo repository.KnowledgeComponentRepository) ReferenceService {
	return &referenceService{kcRepo: kcRepo}
}

func (s *referenceService) ListKnowledgeComponents() ([]dto.KnowledgeComponentResponseDTO, error) {
	components, err := s.kcRepo.FindAllActive()
	if err != nil {
		return nil, fmt.Errorf("error fetching knowledge components: %w", err)
	}
	dtos := make([]dto.KnowledgeComponentResponseDTO, 0, len(components))
	for _, component := range components {
		dtos = append(dtos, dto.KnowledgeComponentResponseDTO{ID: component.ID, Name: component.Name})
	}
	return dtos, nil
}
