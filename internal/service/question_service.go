package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/model"
	"github.com/mcherifi/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionWriter persists permanent question-bank records. The generation
// pipeline is one of its callers; finalize funnels every approved item
// through CreateQuestion.
type QuestionWriter interface {
	CreateQuestion(req dto.CreateQuestionDTO) (*model.Question, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) QuestionWriter {
	return &questionService{questionRepo: questionRepo}
}

func (s *questionService) CreateQuestion(req dto.CreateQuestionDTO) (*model.Question, error) {
	if req.Question == "" {
		return nil, apperror.BadRequest("question text is required")
	}

	switch model.QuestionType(req.Type) {
	case model.QuestionTypeQCM:
		if len(req.Options) < 2 {
			return nil, apperror.BadRequest("a qcm question requires at least two options")
		}
	case model.QuestionTypeQROC:
		if req.Answer == nil || *req.Answer == "" {
			return nil, apperror.BadRequest("a qroc question requires an answer")
		}
	default:
		return nil, apperror.BadRequest(fmt.Sprintf("unsupported question type: %s", req.Type))
	}

	question := model.Question{
		Type:                  model.QuestionType(req.Type),
		QuestionText:          req.Question,
		Answer:                req.Answer,
		Explanation:           req.Explanation,
		Difficulty:            req.Difficulty,
		EstimatedTime:         req.EstimatedTime,
		Tag:                   req.Tag,
		QuizType:              req.QuizType,
		Baseline:              req.Baseline,
		Promo:                 req.Promo,
		YearOfStudy:           req.YearOfStudy,
		UniversityID:          req.University,
		FacultyID:             req.Faculty,
		UnitID:                req.Unit,
		SubjectID:             req.Subject,
		CourseID:              req.Course,
		KnowledgeComponentIDs: req.KnowledgeComponentIDs,
		SourceRequestID:       req.SourceRequestID,
		CreatedByID:           req.CreatedBy,
	}
	if err := copier.Copy(&question.Options, &req.Options); err != nil {
		return nil, fmt.Errorf("error preparing question options: %w", err)
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Str("type", req.Type).Msg("Failed to create question in database")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	log.Info().Str("question_id", question.ID.String()).Str("type", req.Type).Msg("Question created")
	return &question, nil
}
