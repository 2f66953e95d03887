package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/model"
	"github.com/mcherifi/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GenerationService owns the GenerationRequest/GenerationItem state
// machines and orchestrates the model gateway, the item validator and the
// question-bank writer. Every operation is scoped to the owning user.
type GenerationService interface {
	CreateRequest(ownerID uuid.UUID, req dto.CreateGenerationRequestDTO) (*dto.GenerationRequestResponseDTO, error)
	UploadSource(requestID, ownerID uuid.UUID, file *multipart.FileHeader) (*dto.UploadSourceResponseDTO, error)
	ConfirmUpload(ctx context.Context, requestID, ownerID uuid.UUID) (*dto.GenerationRequestResponseDTO, error)
	ListRequests(ownerID uuid.UUID) ([]dto.GenerationRequestResponseDTO, error)
	GetRequest(requestID, ownerID uuid.UUID) (*dto.GenerationRequestResponseDTO, error)
	GetItems(requestID, ownerID uuid.UUID) ([]dto.GenerationItemResponseDTO, error)
	UpdateItem(requestID, itemID, ownerID uuid.UUID, payload dto.UpdateGenerationItemDTO) (*dto.GenerationItemResponseDTO, error)
	ApproveItem(requestID, itemID, ownerID uuid.UUID) (*dto.GenerationItemResponseDTO, error)
	RejectItem(requestID, itemID, ownerID uuid.UUID, payload dto.RejectGenerationItemDTO) (*dto.GenerationItemResponseDTO, error)
	Finalize(requestID, ownerID uuid.UUID) (*dto.FinalizeResultDTO, error)
}

type generationService struct {
	requestRepo repository.GenerationRequestRepository
	itemRepo    repository.GenerationItemRepository
	kcRepo      repository.KnowledgeComponentRepository
	refRepo     repository.ReferenceRepository
	gateway     GenerationGateway
	writer      QuestionWriter
	storage     StorageService
	locker      *RequestLocker
}

func NewGenerationService(
	requestRepo repository.GenerationRequestRepository,
	itemRepo repository.GenerationItemRepository,
	kcRepo repository.KnowledgeComponentRepository,
	refRepo repository.ReferenceRepository,
	gateway GenerationGateway,
	writer QuestionWriter,
	storage StorageService,
	locker *RequestLocker,
) GenerationService {
	return &generationService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		kcRepo:      kcRepo,
		refRepo:     refRepo,
		gateway:     gateway,
		writer:      writer,
		storage:     storage,
		locker:      locker,
	}
}

func (s *generationService) CreateRequest(ownerID uuid.UUID, req dto.CreateGenerationRequestDTO) (*dto.GenerationRequestResponseDTO, error) {
	mcqCount := req.RequestedCounts.MCQ
	qrocCount := req.RequestedCounts.QROC

	if mcqCount == 0 && qrocCount == 0 {
		return nil, apperror.BadRequest("at least one item must be requested")
	}

	if len(req.ContentTypes) == 0 {
		return nil, apperror.BadRequest("select at least one content type")
	}
	var invalidTypes []string
	for _, contentType := range req.ContentTypes {
		if !model.KnownItemType(contentType) {
			invalidTypes = append(invalidTypes, contentType)
		}
	}
	if len(invalidTypes) > 0 {
		return nil, apperror.BadRequest(fmt.Sprintf("unsupported content types: %s", strings.Join(invalidTypes, ", ")))
	}

	if req.Unit == nil {
		return nil, apperror.BadRequest("unit is required")
	}

	if len(req.KnowledgeComponentIDs) == 0 {
		return nil, apperror.BadRequest("select at least one knowledge component for this generation request")
	}
	if _, err := s.kcRepo.FindByIDs(req.KnowledgeComponentIDs, true); err != nil {
		// A resolution failure is a user input problem, not an internal
		// not-found.
		var missing *repository.ErrComponentsMissing
		if errors.As(err, &missing) {
			return nil, apperror.BadRequest(missing.Error())
		}
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	request := model.GenerationRequest{
		OwnerID:               ownerID,
		UniversityID:          req.University,
		FacultyID:             req.Faculty,
		UnitID:                req.Unit,
		SubjectID:             req.Subject,
		CourseID:              req.Course,
		YearOfStudy:           req.YearOfStudy,
		RequestedMCQCount:     mcqCount,
		RequestedQROCCount:    qrocCount,
		Difficulty:            difficulty,
		ContentTypes:          req.ContentTypes,
		KnowledgeComponentIDs: req.KnowledgeComponentIDs,
		Status:                model.RequestAwaitingUpload,
	}

	if err := s.requestRepo.Create(&request); err != nil {
		log.Error().Err(err).Msg("Failed to create generation request in database")
		return nil, fmt.Errorf("database error creating generation request: %w", err)
	}

	log.Info().Str("request_id", request.ID.String()).Str("owner_id", ownerID.String()).Msg("Generation request created")
	return s.toRequestDTO(&request), nil
}

// ensureOwnership loads a request scoped by owner. A mismatch reports the
// same not-found as a request that does not exist, so callers cannot probe
// other users' requests.
func (s *generationService) ensureOwnership(requestID, ownerID uuid.UUID, withItems bool) (*model.GenerationRequest, error) {
	request, err := s.requestRepo.FindByIDAndOwner(requestID, ownerID, withItems)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("generation request not found")
		}
		return nil, err
	}
	return request, nil
}

func (s *generationService) UploadSource(requestID, ownerID uuid.UUID, file *multipart.FileHeader) (*dto.UploadSourceResponseDTO, error) {
	request, err := s.ensureOwnership(requestID, ownerID, false)
	if err != nil {
		return nil, err
	}

	if file == nil {
		return nil, apperror.BadRequest("no file received")
	}

	if !request.Status.CanTransition(model.RequestUploadInProgress) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot upload a source file while the request is %s", request.Status))
	}

	path, err := s.storage.Save(file)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID.String()).Msg("Failed to store uploaded source file")
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	now := time.Now()
	mimeType := file.Header.Get("Content-Type")
	request.SourceFileName = &file.Filename
	request.SourceFileMime = &mimeType
	request.SourceFileSize = &file.Size
	request.SourceFilePath = &path
	// A fresh document invalidates any cached external handle.
	request.SourceFileExternalID = nil
	request.UploadedAt = &now
	request.Status = model.RequestUploadInProgress

	if err := s.requestRepo.Update(request); err != nil {
		return nil, fmt.Errorf("database error recording source upload: %w", err)
	}

	log.Info().Str("request_id", requestID.String()).Str("file", file.Filename).Msg("Source file recorded")
	return &dto.UploadSourceResponseDTO{ID: request.ID, Status: string(request.Status)}, nil
}

// claimableStatuses are the states from which a confirm call may take the
// PROCESSING transition.
var claimableStatuses = []model.RequestStatus{model.RequestUploadInProgress, model.RequestFailed}

func (s *generationService) ConfirmUpload(ctx context.Context, requestID, ownerID uuid.UUID) (*dto.GenerationRequestResponseDTO, error) {
	// The idempotency check and the claim below are two reads apart;
	// the per-request lock closes that window for callers in this process
	// while the conditional claim guards cross-process races.
	unlock := s.locker.Lock(requestID)
	defer unlock()

	request, err := s.ensureOwnership(requestID, ownerID, true)
	if err != nil {
		return nil, err
	}

	// A repeated confirm after a successful generation returns the existing
	// result instead of generating again.
	if request.Status == model.RequestReadyForReview && len(request.Items) > 0 {
		log.Info().Str("request_id", requestID.String()).Msg("Confirm repeated on a generated request, returning existing items")
		return s.toRequestDTO(request), nil
	}

	if !request.HasStoredSource() {
		return nil, apperror.BadRequest("file upload not completed")
	}

	claimed, err := s.requestRepo.ClaimProcessing(requestID, claimableStatuses)
	if err != nil {
		return nil, fmt.Errorf("database error claiming generation: %w", err)
	}
	if !claimed {
		return nil, apperror.Conflict("generation is already in progress for this request")
	}
	request.Status = model.RequestProcessing
	request.FailureReason = nil

	if genErr := s.runGeneration(ctx, request); genErr != nil {
		s.failRequest(request, genErr)
		return nil, genErr
	}

	reloaded, err := s.ensureOwnership(requestID, ownerID, true)
	if err != nil {
		return nil, err
	}
	return s.toRequestDTO(reloaded), nil
}

// runGeneration executes steps upload-if-needed through item persistence.
// Any error moves the request to FAILED in the caller.
func (s *generationService) runGeneration(ctx context.Context, request *model.GenerationRequest) error {
	if request.SourceFileExternalID == nil || *request.SourceFileExternalID == "" {
		originalName := fmt.Sprintf("generation-request-%s", request.ID)
		if request.SourceFileName != nil && *request.SourceFileName != "" {
			originalName = *request.SourceFileName
		}

		externalID, err := s.gateway.UploadSourceFile(ctx, *request.SourceFilePath, originalName)
		if err != nil {
			return err
		}

		// Cache the handle before generation so a later failure still
		// leaves the upload reusable on retry.
		request.SourceFileExternalID = &externalID
		if err := s.requestRepo.Update(request); err != nil {
			return fmt.Errorf("database error caching external file handle: %w", err)
		}
	}

	params := dto.GenerateItemsParams{
		MCQCount:       request.RequestedMCQCount,
		QROCCount:      request.RequestedQROCCount,
		Difficulty:     request.Difficulty,
		CourseName:     s.resolveCourseName(request.CourseID),
		YearOfStudy:    request.YearOfStudy,
		UnitName:       s.resolveUnitName(request.UnitID),
		SubjectName:    s.resolveSubjectName(request.SubjectID),
		ExternalFileID: *request.SourceFileExternalID,
	}

	raw, err := s.gateway.GenerateItems(ctx, params)
	if err != nil {
		return err
	}

	survivors, report := ValidateGeneratedBatch(raw, request.RequestedMCQCount, request.RequestedQROCCount)
	log.Info().
		Str("request_id", request.ID.String()).
		Int("raw", report.RawCount).
		Int("accepted_mcq", report.AcceptedMCQ).
		Int("accepted_qroc", report.AcceptedQROC).
		Int("rejected", report.RejectedCount).
		Strs("rejections", report.Rejections).
		Msg("Generated batch validated")

	if len(survivors) == 0 {
		return apperror.Upstream("AI responded without valid generated items after validation", nil)
	}

	items := make([]*model.GenerationItem, 0, len(survivors))
	for _, raw := range survivors {
		items = append(items, rawToItem(request.ID, raw))
	}
	if err := s.itemRepo.CreateBatch(items); err != nil {
		return fmt.Errorf("database error persisting generated items: %w", err)
	}

	request.Status = model.RequestReadyForReview
	if err := s.requestRepo.Update(request); err != nil {
		return fmt.Errorf("database error completing generation: %w", err)
	}

	log.Info().Str("request_id", request.ID.String()).Int("items", len(items)).Msg("Generation request ready for review")
	return nil
}

func (s *generationService) failRequest(request *model.GenerationRequest, cause error) {
	reason := apperror.MessageOf(cause)
	request.Status = model.RequestFailed
	request.FailureReason = &reason
	if err := s.requestRepo.Update(request); err != nil {
		log.Error().Err(err).Str("request_id", request.ID.String()).Msg("Failed to record FAILED status")
	}
	log.Warn().Str("request_id", request.ID.String()).Str("reason", reason).Msg("Generation request failed")
}

func rawToItem(requestID uuid.UUID, raw dto.RawGeneratedItem) *model.GenerationItem {
	item := &model.GenerationItem{
		RequestID: requestID,
		Type:      model.ItemType(raw.Type),
		Stem:      raw.Stem,
		Options:   []model.ItemOption{},
		Status:    model.ItemPendingReview,
	}
	if item.Type == model.ItemTypeMCQ {
		for _, option := range raw.Options {
			item.Options = append(item.Options, model.ItemOption{Content: option.Content, IsCorrect: option.IsCorrect})
		}
	}
	if item.Type == model.ItemTypeQROC {
		answer := raw.ExpectedAnswer
		item.ExpectedAnswer = &answer
	}
	return item
}

func (s *generationService) resolveCourseName(id uuid.UUID) string {
	course, err := s.refRepo.FindCourse(id)
	if err != nil {
		return "Course"
	}
	return course.DisplayName()
}

func (s *generationService) resolveUnitName(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	unit, err := s.refRepo.FindUnit(*id)
	if err != nil {
		return ""
	}
	return unit.DisplayName()
}

func (s *generationService) resolveSubjectName(id uuid.UUID) string {
	subject, err := s.refRepo.FindSubject(id)
	if err != nil {
		return ""
	}
	return subject.DisplayName()
}

func (s *generationService) ListRequests(ownerID uuid.UUID) ([]dto.GenerationRequestResponseDTO, error) {
	requests, err := s.requestRepo.FindAllByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching generation requests: %w", err)
	}
	dtos := make([]dto.GenerationRequestResponseDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, *s.toRequestDTO(&requests[i]))
	}
	return dtos, nil
}

func (s *generationService) GetRequest(requestID, ownerID uuid.UUID) (*dto.GenerationRequestResponseDTO, error) {
	request, err := s.ensureOwnership(requestID, ownerID, true)
	if err != nil {
		return nil, err
	}
	return s.toRequestDTO(request), nil
}

func (s *generationService) GetItems(requestID, ownerID uuid.UUID) ([]dto.GenerationItemResponseDTO, error) {
	if _, err := s.ensureOwnership(requestID, ownerID, false); err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAllByRequest(requestID)
	if err != nil {
		return nil, fmt.Errorf("error fetching generation items: %w", err)
	}
	dtos := make([]dto.GenerationItemResponseDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *toItemDTO(&items[i]))
	}
	return dtos, nil
}

// validateItemPayload is the review-time predicate. It is deliberately
// looser than generation-time validation: a reviewer may keep an MCQ with
// any number of options >= 2 as long as at least one is correct.
func validateItemPayload(payload dto.UpdateGenerationItemDTO) error {
	if strings.TrimSpace(payload.Stem) == "" {
		return apperror.BadRequest("stem is required")
	}

	if payload.Type == string(model.ItemTypeMCQ) {
		if len(payload.Options) < 2 {
			return apperror.BadRequest("MCQ requires at least two options")
		}
		hasCorrect := false
		for _, option := range payload.Options {
			if option.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return apperror.BadRequest("mark at least one option as correct")
		}
	}

	if payload.Type == string(model.ItemTypeQROC) {
		if payload.ExpectedAnswer == nil || strings.TrimSpace(*payload.ExpectedAnswer) == "" {
			return apperror.BadRequest("QROC requires an expected answer")
		}
	}

	return nil
}

func itemAsPayload(item *model.GenerationItem) dto.UpdateGenerationItemDTO {
	payload := dto.UpdateGenerationItemDTO{
		Type:           string(item.Type),
		Stem:           item.Stem,
		ExpectedAnswer: item.ExpectedAnswer,
	}
	for _, option := range item.Options {
		payload.Options = append(payload.Options, dto.ItemOptionDTO{Content: option.Content, IsCorrect: option.IsCorrect})
	}
	return payload
}

func (s *generationService) findItem(requestID, itemID uuid.UUID) (*model.GenerationItem, error) {
	item, err := s.itemRepo.FindByIDAndRequest(itemID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("generation item not found")
		}
		return nil, err
	}
	return item, nil
}

func (s *generationService) UpdateItem(requestID, itemID, ownerID uuid.UUID, payload dto.UpdateGenerationItemDTO) (*dto.GenerationItemResponseDTO, error) {
	if _, err := s.ensureOwnership(requestID, ownerID, false); err != nil {
		return nil, err
	}
	if err := validateItemPayload(payload); err != nil {
		return nil, err
	}

	item, err := s.findItem(requestID, itemID)
	if err != nil {
		return nil, err
	}

	if item.Status == model.ItemApproved {
		return nil, apperror.Conflict("cannot edit an approved item")
	}
	if !item.Status.CanTransition(model.ItemPendingReview) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot edit an item in status %s", item.Status))
	}

	item.Type = model.ItemType(payload.Type)
	item.Stem = payload.Stem
	item.Options = []model.ItemOption{}
	for _, option := range payload.Options {
		item.Options = append(item.Options, model.ItemOption{Content: option.Content, IsCorrect: option.IsCorrect})
	}
	item.ExpectedAnswer = payload.ExpectedAnswer
	item.Status = model.ItemPendingReview
	item.RejectionReason = nil

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("database error updating generation item: %w", err)
	}
	return toItemDTO(item), nil
}

func (s *generationService) ApproveItem(requestID, itemID, ownerID uuid.UUID) (*dto.GenerationItemResponseDTO, error) {
	if _, err := s.ensureOwnership(requestID, ownerID, false); err != nil {
		return nil, err
	}

	item, err := s.findItem(requestID, itemID)
	if err != nil {
		return nil, err
	}

	if !item.Status.CanTransition(model.ItemApproved) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot approve an item in status %s", item.Status))
	}

	// The stored content may have been left invalid by a prior partial
	// edit; approving re-checks it against the review predicate.
	if err := validateItemPayload(itemAsPayload(item)); err != nil {
		return nil, err
	}

	item.Status = model.ItemApproved
	item.RejectionReason = nil
	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("database error approving generation item: %w", err)
	}

	log.Info().Str("item_id", itemID.String()).Msg("Generation item approved")
	return toItemDTO(item), nil
}

func (s *generationService) RejectItem(requestID, itemID, ownerID uuid.UUID, payload dto.RejectGenerationItemDTO) (*dto.GenerationItemResponseDTO, error) {
	if _, err := s.ensureOwnership(requestID, ownerID, false); err != nil {
		return nil, err
	}

	item, err := s.findItem(requestID, itemID)
	if err != nil {
		return nil, err
	}

	if !item.Status.CanTransition(model.ItemRejected) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot reject an item in status %s", item.Status))
	}

	item.Status = model.ItemRejected
	item.RejectionReason = payload.Reason
	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("database error rejecting generation item: %w", err)
	}

	log.Info().Str("item_id", itemID.String()).Msg("Generation item rejected")
	return toItemDTO(item), nil
}

func (s *generationService) Finalize(requestID, ownerID uuid.UUID) (*dto.FinalizeResultDTO, error) {
	request, err := s.ensureOwnership(requestID, ownerID, true)
	if err != nil {
		return nil, err
	}

	if len(request.Items) == 0 {
		return nil, apperror.BadRequest("no generated items to finalize")
	}

	var approved []model.GenerationItem
	for _, item := range request.Items {
		if item.Status == model.ItemApproved {
			approved = append(approved, item)
		}
	}
	if len(approved) == 0 {
		return nil, apperror.BadRequest("approve at least one item before finalizing")
	}

	result := dto.FinalizeResultDTO{}
	for i := range approved {
		// Conversion is not transactional across items; re-read so a
		// retried finalize skips anything already converted.
		item, err := s.findItem(requestID, approved[i].ID)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("item %s: %s", approved[i].ID, apperror.MessageOf(err)))
			continue
		}
		if item.Status != model.ItemApproved {
			continue
		}

		unitID, err := s.resolveEffectiveUnit(request)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("item %s: %s", item.ID, apperror.MessageOf(err)))
			continue
		}

		if _, err := s.writer.CreateQuestion(s.itemToQuestionDTO(request, item, unitID, ownerID)); err != nil {
			log.Error().Err(err).Str("item_id", item.ID.String()).Msg("Failed to convert approved item")
			result.Failures = append(result.Failures, fmt.Sprintf("item %s: %s", item.ID, apperror.MessageOf(err)))
			continue
		}

		item.Status = model.ItemConverted
		if err := s.itemRepo.Update(item); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("item %s: %s", item.ID, err.Error()))
			continue
		}
		result.Generated++
	}

	if len(result.Failures) == 0 && request.Status.CanTransition(model.RequestCompleted) {
		request.Status = model.RequestCompleted
		if err := s.requestRepo.Update(request); err != nil {
			return nil, fmt.Errorf("database error completing generation request: %w", err)
		}
		log.Info().Str("request_id", requestID.String()).Int("generated", result.Generated).Msg("Generation request completed")
	} else if len(result.Failures) > 0 {
		log.Warn().
			Str("request_id", requestID.String()).
			Int("generated", result.Generated).
			Strs("failures", result.Failures).
			Msg("Finalize completed partially; request left open for retry")
	}

	return &result, nil
}

// resolveEffectiveUnit falls back from the request's unit to the unit
// implied by its subject. Questions cannot be created without one.
func (s *generationService) resolveEffectiveUnit(request *model.GenerationRequest) (uuid.UUID, error) {
	if request.UnitID != nil {
		return *request.UnitID, nil
	}
	subject, err := s.refRepo.FindSubject(request.SubjectID)
	if err == nil && subject.UnitID != nil {
		return *subject.UnitID, nil
	}
	return uuid.Nil, apperror.BadRequest("unit information is required for question creation")
}

func (s *generationService) itemToQuestionDTO(request *model.GenerationRequest, item *model.GenerationItem, unitID, ownerID uuid.UUID) dto.CreateQuestionDTO {
	questionType := model.QuestionTypeQCM
	var answer *string
	var options []dto.ItemOptionDTO

	if item.Type == model.ItemTypeQROC {
		questionType = model.QuestionTypeQROC
		answer = item.ExpectedAnswer
	} else {
		for _, option := range item.Options {
			options = append(options, dto.ItemOptionDTO{Content: option.Content, IsCorrect: option.IsCorrect})
		}
	}

	return dto.CreateQuestionDTO{
		YearOfStudy:           request.YearOfStudy,
		Type:                  string(questionType),
		Question:              item.Stem,
		Answer:                answer,
		Options:               options,
		Difficulty:            request.Difficulty,
		EstimatedTime:         10,
		Tag:                   "exam",
		QuizType:              "theorique",
		Baseline:              1,
		Promo:                 time.Now().Year(),
		University:            request.UniversityID,
		Faculty:               request.FacultyID,
		Unit:                  unitID,
		Subject:               request.SubjectID,
		Course:                request.CourseID,
		KnowledgeComponentIDs: request.KnowledgeComponentIDs,
		SourceRequestID:       &request.ID,
		CreatedBy:             ownerID,
	}
}

func (s *generationService) toRequestDTO(request *model.GenerationRequest) *dto.GenerationRequestResponseDTO {
	var resp dto.GenerationRequestResponseDTO
	if err := copier.Copy(&resp, request); err != nil {
		log.Error().Err(err).Msg("Error copying generation request to DTO")
	}
	resp.Status = string(request.Status)
	resp.Items = make([]dto.GenerationItemResponseDTO, 0, len(request.Items))
	for i := range request.Items {
		resp.Items = append(resp.Items, *toItemDTO(&request.Items[i]))
	}
	return &resp
}

func toItemDTO(item *model.GenerationItem) *dto.GenerationItemResponseDTO {
	var resp dto.GenerationItemResponseDTO
	if err := copier.Copy(&resp, item); err != nil {
		log.Error().Err(err).Msg("Error copying generation item to DTO")
	}
	resp.Type = string(item.Type)
	resp.Status = string(item.Status)
	resp.Options = make([]dto.ItemOptionDTO, 0, len(item.Options))
	for _, option := range item.Options {
		resp.Options = append(resp.Options, dto.ItemOptionDTO{Content: option.Content, IsCorrect: option.IsCorrect})
	}
	return &resp
}
