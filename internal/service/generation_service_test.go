package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/model"
	"github.com/mcherifi/quizforge/internal/repository"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeItemRepo struct {
	items map[uuid.UUID]model.GenerationItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uuid.UUID]model.GenerationItem{}}
}

func (r *fakeItemRepo) CreateBatch(items []*model.GenerationItem) error {
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = *item
	}
	return nil
}

func (r *fakeItemRepo) FindByIDAndRequest(itemID, requestID uuid.UUID) (*model.GenerationItem, error) {
	item, ok := r.items[itemID]
	if !ok || item.RequestID != requestID {
		return nil, gorm.ErrRecordNotFound
	}
	found := item
	return &found, nil
}

func (r *fakeItemRepo) FindAllByRequest(requestID uuid.UUID) ([]model.GenerationItem, error) {
	var out []model.GenerationItem
	for _, item := range r.items {
		if item.RequestID == requestID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(item *model.GenerationItem) error {
	r.items[item.ID] = *item
	return nil
}

type fakeRequestRepo struct {
	requests map[uuid.UUID]model.GenerationRequest
	itemRepo *fakeItemRepo
}

func newFakeRequestRepo(itemRepo *fakeItemRepo) *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uuid.UUID]model.GenerationRequest{}, itemRepo: itemRepo}
}

func (r *fakeRequestRepo) Create(request *model.GenerationRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeRequestRepo) FindByIDAndOwner(id, ownerID uuid.UUID, withItems bool) (*model.GenerationRequest, error) {
	request, ok := r.requests[id]
	if !ok || request.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	found := request
	if withItems {
		items, _ := r.itemRepo.FindAllByRequest(id)
		found.Items = items
	}
	return &found, nil
}

func (r *fakeRequestRepo) FindAllByOwner(ownerID uuid.UUID) ([]model.GenerationRequest, error) {
	var out []model.GenerationRequest
	for _, request := range r.requests {
		if request.OwnerID == ownerID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) Update(request *model.GenerationRequest) error {
	stored := *request
	stored.Items = nil
	r.requests[request.ID] = stored
	return nil
}

func (r *fakeRequestRepo) ClaimProcessing(id uuid.UUID, from []model.RequestStatus) (bool, error) {
	request, ok := r.requests[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if request.Status == status {
			request.Status = model.RequestProcessing
			request.FailureReason = nil
			r.requests[id] = request
			return true, nil
		}
	}
	return false, nil
}

type fakeKCRepo struct {
	known map[uuid.UUID]model.KnowledgeComponent
}

func (r *fakeKCRepo) FindByIDs(ids []uuid.UUID, ensureAll bool) ([]model.KnowledgeComponent, error) {
	var out []model.KnowledgeComponent
	for _, id := range ids {
		if kc, ok := r.known[id]; ok {
			out = append(out, kc)
		}
	}
	if ensureAll && len(out) != len(ids) {
		return nil, &repository.ErrComponentsMissing{Requested: len(ids), Found: len(out)}
	}
	return out, nil
}

func (r *fakeKCRepo) FindAllActive() ([]model.KnowledgeComponent, error) {
	var out []model.KnowledgeComponent
	for _, kc := range r.known {
		out = append(out, kc)
	}
	return out, nil
}

type fakeRefRepo struct {
	units    map[uuid.UUID]model.Unit
	subjects map[uuid.UUID]model.Subject
	courses  map[uuid.UUID]model.Course
}

func (r *fakeRefRepo) FindUnit(id uuid.UUID) (*model.Unit, error) {
	unit, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &unit, nil
}

func (r *fakeRefRepo) FindSubject(id uuid.UUID) (*model.Subject, error) {
	subject, ok := r.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &subject, nil
}

func (r *fakeRefRepo) FindCourse(id uuid.UUID) (*model.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &course, nil
}

type fakeGateway struct {
	uploadCalls   int
	generateCalls int
	uploadErr     error
	generateErr   error
	handle        string
	items         []dto.RawGeneratedItem
	lastParams    dto.GenerateItemsParams
}

func (g *fakeGateway) UploadSourceFile(ctx context.Context, path, originalName string) (string, error) {
	g.uploadCalls++
	if g.uploadErr != nil {
		return "", g.uploadErr
	}
	return g.handle, nil
}

func (g *fakeGateway) GenerateItems(ctx context.Context, params dto.GenerateItemsParams) ([]dto.RawGeneratedItem, error) {
	g.generateCalls++
	g.lastParams = params
	if g.generateErr != nil {
		return nil, g.generateErr
	}
	return g.items, nil
}

type fakeWriter struct {
	created  []dto.CreateQuestionDTO
	failStem string
}

func (w *fakeWriter) CreateQuestion(req dto.CreateQuestionDTO) (*model.Question, error) {
	if w.failStem != "" && req.Question == w.failStem {
		return nil, fmt.Errorf("simulated write failure")
	}
	w.created = append(w.created, req)
	return &model.Question{ID: uuid.New()}, nil
}

type nullStorage struct{}

func (s *nullStorage) Save(file *multipart.FileHeader) (string, error) {
	return "/tmp/uploads/" + file.Filename, nil
}

func (s *nullStorage) Exists(path string) bool { return true }

func (s *nullStorage) Open(path string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

// --- Harness ---

type lifecycleHarness struct {
	svc       GenerationService
	requests  *fakeRequestRepo
	items     *fakeItemRepo
	gateway   *fakeGateway
	writer    *fakeWriter
	refs      *fakeRefRepo
	ownerID   uuid.UUID
	unitID    uuid.UUID
	subjectID uuid.UUID
	courseID  uuid.UUID
	kcID      uuid.UUID
}

func newLifecycleHarness(t *testing.T) *lifecycleHarness {
	t.Helper()

	h := &lifecycleHarness{
		ownerID:   uuid.New(),
		unitID:    uuid.New(),
		subjectID: uuid.New(),
		courseID:  uuid.New(),
		kcID:      uuid.New(),
	}
	h.items = newFakeItemRepo()
	h.requests = newFakeRequestRepo(h.items)
	h.gateway = &fakeGateway{handle: "files/abc123", items: []dto.RawGeneratedItem{
		validMCQ("Quel est le traitement de première intention ?"),
		validQROC("Nommez l'enzyme clé.", "ATP synthase"),
	}}
	h.writer = &fakeWriter{}
	h.refs = &fakeRefRepo{
		units:    map[uuid.UUID]model.Unit{h.unitID: {ID: h.unitID, Name: "UE Cardio"}},
		subjects: map[uuid.UUID]model.Subject{h.subjectID: {ID: h.subjectID, Name: "Physiologie", UnitID: &h.unitID}},
		courses:  map[uuid.UUID]model.Course{h.courseID: {ID: h.courseID, Name: "Cardiologie"}},
	}
	kcRepo := &fakeKCRepo{known: map[uuid.UUID]model.KnowledgeComponent{
		h.kcID: {ID: h.kcID, Name: "Cycle de Krebs", Active: true},
	}}

	h.svc = NewGenerationService(h.requests, h.items, kcRepo, h.refs, h.gateway, h.writer, &nullStorage{}, NewRequestLocker())
	return h
}

func (h *lifecycleHarness) createDTO() dto.CreateGenerationRequestDTO {
	return dto.CreateGenerationRequestDTO{
		University:            uuid.New(),
		Faculty:               uuid.New(),
		YearOfStudy:           "4",
		Unit:                  &h.unitID,
		Subject:               h.subjectID,
		Course:                h.courseID,
		Difficulty:            "medium",
		RequestedCounts:       dto.RequestedCountsDTO{MCQ: 1, QROC: 1},
		ContentTypes:          []string{"MCQ", "QROC"},
		KnowledgeComponentIDs: []uuid.UUID{h.kcID},
	}
}

// seedUploaded creates a request already carrying a stored source file.
func (h *lifecycleHarness) seedUploaded(t *testing.T) uuid.UUID {
	t.Helper()
	created, err := h.svc.CreateRequest(h.ownerID, h.createDTO())
	if err != nil {
		t.Fatal(err)
	}

	request := h.requests.requests[created.ID]
	path := "/tmp/uploads/doc.pdf"
	name := "doc.pdf"
	now := time.Now()
	request.SourceFilePath = &path
	request.SourceFileName = &name
	request.UploadedAt = &now
	request.Status = model.RequestUploadInProgress
	h.requests.requests[created.ID] = request
	return created.ID
}

func (h *lifecycleHarness) requestStatus(id uuid.UUID) model.RequestStatus {
	return h.requests.requests[id].Status
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if apperror.KindOf(err) != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", apperror.KindOf(err), kind, err)
	}
}

// --- CreateRequest ---

func TestCreateRequest(t *testing.T) {
	t.Run("creates an awaiting-upload request", func(t *testing.T) {
		h := newLifecycleHarness(t)
		created, err := h.svc.CreateRequest(h.ownerID, h.createDTO())
		if err != nil {
			t.Fatal(err)
		}
		if created.Status != string(model.RequestAwaitingUpload) {
			t.Errorf("status = %s, want AWAITING_UPLOAD", created.Status)
		}
		if created.OwnerID != h.ownerID {
			t.Errorf("owner = %s, want %s", created.OwnerID, h.ownerID)
		}
	})

	t.Run("defaults difficulty to medium", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.Difficulty = ""
		created, err := h.svc.CreateRequest(h.ownerID, req)
		if err != nil {
			t.Fatal(err)
		}
		if created.Difficulty != "medium" {
			t.Errorf("difficulty = %q, want medium", created.Difficulty)
		}
	})

	t.Run("rejects zero requested items", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.RequestedCounts = dto.RequestedCountsDTO{}
		_, err := h.svc.CreateRequest(h.ownerID, req)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("rejects unknown content types", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.ContentTypes = []string{"MCQ", "ESSAY"}
		_, err := h.svc.CreateRequest(h.ownerID, req)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("rejects a missing unit", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.Unit = nil
		_, err := h.svc.CreateRequest(h.ownerID, req)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("rejects empty knowledge components", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.KnowledgeComponentIDs = nil
		_, err := h.svc.CreateRequest(h.ownerID, req)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("rejects unresolvable knowledge components", func(t *testing.T) {
		h := newLifecycleHarness(t)
		req := h.createDTO()
		req.KnowledgeComponentIDs = []uuid.UUID{uuid.New()}
		_, err := h.svc.CreateRequest(h.ownerID, req)
		wantKind(t, err, apperror.KindBadRequest)
	})
}

// --- UploadSource ---

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 1024}
}

func TestUploadSource(t *testing.T) {
	t.Run("stores the file and advances the request", func(t *testing.T) {
		h := newLifecycleHarness(t)
		created, _ := h.svc.CreateRequest(h.ownerID, h.createDTO())

		resp, err := h.svc.UploadSource(created.ID, h.ownerID, fileHeader("cours.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if resp.Status != string(model.RequestUploadInProgress) {
			t.Errorf("status = %s, want UPLOAD_IN_PROGRESS", resp.Status)
		}
		stored := h.requests.requests[created.ID]
		if stored.SourceFilePath == nil || *stored.SourceFilePath == "" {
			t.Error("source file path was not recorded")
		}
		if stored.SourceFileName == nil || *stored.SourceFileName != "cours.pdf" {
			t.Error("source file name was not recorded")
		}
	})

	t.Run("re-upload clears the cached external handle", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		request := h.requests.requests[id]
		handle := "files/stale"
		request.SourceFileExternalID = &handle
		h.requests.requests[id] = request

		if _, err := h.svc.UploadSource(id, h.ownerID, fileHeader("v2.pdf")); err != nil {
			t.Fatal(err)
		}
		if h.requests.requests[id].SourceFileExternalID != nil {
			t.Error("stale external handle survived a re-upload")
		}
	})

	t.Run("other owners cannot see the request", func(t *testing.T) {
		h := newLifecycleHarness(t)
		created, _ := h.svc.CreateRequest(h.ownerID, h.createDTO())
		_, err := h.svc.UploadSource(created.ID, uuid.New(), fileHeader("x.pdf"))
		wantKind(t, err, apperror.KindNotFound)
	})

	t.Run("conflict once generation has started", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		request := h.requests.requests[id]
		request.Status = model.RequestProcessing
		h.requests.requests[id] = request

		_, err := h.svc.UploadSource(id, h.ownerID, fileHeader("x.pdf"))
		wantKind(t, err, apperror.KindConflict)
	})
}

// --- ConfirmUpload ---

func TestConfirmUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the pipeline end to end", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)

		resp, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Status != string(model.RequestReadyForReview) {
			t.Errorf("status = %s, want READY_FOR_REVIEW", resp.Status)
		}
		if len(resp.Items) != 2 {
			t.Fatalf("items = %d, want 2", len(resp.Items))
		}
		for _, item := range resp.Items {
			if item.Status != string(model.ItemPendingReview) {
				t.Errorf("item status = %s, want PENDING_REVIEW", item.Status)
			}
		}
		if h.gateway.uploadCalls != 1 {
			t.Errorf("uploadCalls = %d, want 1", h.gateway.uploadCalls)
		}
		stored := h.requests.requests[id]
		if stored.SourceFileExternalID == nil || *stored.SourceFileExternalID != "files/abc123" {
			t.Error("external handle was not cached")
		}
		if h.gateway.lastParams.CourseName != "Cardiologie" {
			t.Errorf("course name = %q", h.gateway.lastParams.CourseName)
		}
	})

	t.Run("repeat confirm returns existing items without regenerating", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		if _, err := h.svc.ConfirmUpload(ctx, id, h.ownerID); err != nil {
			t.Fatal(err)
		}

		resp, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Items) != 2 {
			t.Errorf("items = %d, want 2", len(resp.Items))
		}
		if h.gateway.generateCalls != 1 {
			t.Errorf("generateCalls = %d, want 1 (no regeneration)", h.gateway.generateCalls)
		}
	})

	t.Run("rejects a request without a stored source", func(t *testing.T) {
		h := newLifecycleHarness(t)
		created, _ := h.svc.CreateRequest(h.ownerID, h.createDTO())
		_, err := h.svc.ConfirmUpload(ctx, created.ID, h.ownerID)
		wantKind(t, err, apperror.KindBadRequest)
		if h.requestStatus(created.ID) != model.RequestAwaitingUpload {
			t.Error("status changed despite the rejected confirm")
		}
	})

	t.Run("conflict when another confirm holds the claim", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		request := h.requests.requests[id]
		request.Status = model.RequestProcessing
		h.requests.requests[id] = request

		_, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		wantKind(t, err, apperror.KindConflict)
	})

	t.Run("generation failure marks the request failed and keeps the handle", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		h.gateway.generateErr = apperror.Upstream("AI failed to generate items", fmt.Errorf("boom"))

		_, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		wantKind(t, err, apperror.KindUpstream)

		stored := h.requests.requests[id]
		if stored.Status != model.RequestFailed {
			t.Errorf("status = %s, want FAILED", stored.Status)
		}
		if stored.FailureReason == nil || *stored.FailureReason != "AI failed to generate items" {
			t.Errorf("failure reason = %v", stored.FailureReason)
		}
		if stored.SourceFileExternalID == nil {
			t.Error("external handle should survive a generation failure")
		}

		// Retry reuses the cached handle instead of re-uploading.
		h.gateway.generateErr = nil
		if _, err := h.svc.ConfirmUpload(ctx, id, h.ownerID); err != nil {
			t.Fatal(err)
		}
		if h.gateway.uploadCalls != 1 {
			t.Errorf("uploadCalls = %d, want 1 (cached handle reused)", h.gateway.uploadCalls)
		}
		if h.requestStatus(id) != model.RequestReadyForReview {
			t.Errorf("status after retry = %s", h.requestStatus(id))
		}
	})

	t.Run("upload failure marks the request failed", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		h.gateway.uploadErr = apperror.Upstream("failed to upload source document to the generation service", fmt.Errorf("quota"))

		_, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		wantKind(t, err, apperror.KindUpstream)
		if h.requestStatus(id) != model.RequestFailed {
			t.Errorf("status = %s, want FAILED", h.requestStatus(id))
		}
	})

	t.Run("zero valid survivors is a failure, not an empty batch", func(t *testing.T) {
		h := newLifecycleHarness(t)
		id := h.seedUploaded(t)
		h.gateway.items = []dto.RawGeneratedItem{{Type: "MCQ", Stem: "no options at all"}}

		_, err := h.svc.ConfirmUpload(ctx, id, h.ownerID)
		wantKind(t, err, apperror.KindUpstream)
		if h.requestStatus(id) != model.RequestFailed {
			t.Errorf("status = %s, want FAILED", h.requestStatus(id))
		}
		items, _ := h.items.FindAllByRequest(id)
		if len(items) != 0 {
			t.Errorf("no items should be persisted, got %d", len(items))
		}
	})
}

// --- Item review ---

func reviewHarness(t *testing.T) (*lifecycleHarness, uuid.UUID, []model.GenerationItem) {
	t.Helper()
	h := newLifecycleHarness(t)
	id := h.seedUploaded(t)
	if _, err := h.svc.ConfirmUpload(context.Background(), id, h.ownerID); err != nil {
		t.Fatal(err)
	}
	items, _ := h.items.FindAllByRequest(id)
	if len(items) != 2 {
		t.Fatalf("expected 2 generated items, got %d", len(items))
	}
	return h, id, items
}

func editPayload(item model.GenerationItem) dto.UpdateGenerationItemDTO {
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

func TestUpdateItem(t *testing.T) {
	t.Run("edit resets to pending review and clears the rejection reason", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		target := items[0]
		if _, err := h.svc.RejectItem(id, target.ID, h.ownerID, dto.RejectGenerationItemDTO{}); err != nil {
			t.Fatal(err)
		}

		payload := editPayload(target)
		payload.Stem = "Stem révisé"
		updated, err := h.svc.UpdateItem(id, target.ID, h.ownerID, payload)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Status != string(model.ItemPendingReview) {
			t.Errorf("status = %s, want PENDING_REVIEW", updated.Status)
		}
		if updated.Stem != "Stem révisé" {
			t.Errorf("stem = %q", updated.Stem)
		}
		if updated.RejectionReason != nil {
			t.Error("rejection reason should be cleared by an edit")
		}
	})

	t.Run("approved items cannot be edited", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		target := items[0]
		if _, err := h.svc.ApproveItem(id, target.ID, h.ownerID); err != nil {
			t.Fatal(err)
		}
		_, err := h.svc.UpdateItem(id, target.ID, h.ownerID, editPayload(target))
		wantKind(t, err, apperror.KindConflict)
	})

	t.Run("rejects an MCQ edit with no correct option", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		var mcq model.GenerationItem
		for _, item := range items {
			if item.Type == model.ItemTypeMCQ {
				mcq = item
			}
		}
		payload := editPayload(mcq)
		for i := range payload.Options {
			payload.Options[i].IsCorrect = false
		}
		_, err := h.svc.UpdateItem(id, mcq.ID, h.ownerID, payload)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("rejects a QROC edit without an answer", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		var qroc model.GenerationItem
		for _, item := range items {
			if item.Type == model.ItemTypeQROC {
				qroc = item
			}
		}
		payload := editPayload(qroc)
		payload.ExpectedAnswer = nil
		_, err := h.svc.UpdateItem(id, qroc.ID, h.ownerID, payload)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		_, err := h.svc.UpdateItem(id, uuid.New(), h.ownerID, editPayload(items[0]))
		wantKind(t, err, apperror.KindNotFound)
	})
}

func TestApproveAndReject(t *testing.T) {
	t.Run("approve then reject is allowed", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		target := items[0]
		approved, err := h.svc.ApproveItem(id, target.ID, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if approved.Status != string(model.ItemApproved) {
			t.Errorf("status = %s, want APPROVED", approved.Status)
		}

		reason := "hors programme"
		rejected, err := h.svc.RejectItem(id, target.ID, h.ownerID, dto.RejectGenerationItemDTO{Reason: &reason})
		if err != nil {
			t.Fatal(err)
		}
		if rejected.Status != string(model.ItemRejected) {
			t.Errorf("status = %s, want REJECTED", rejected.Status)
		}
		if rejected.RejectionReason == nil || *rejected.RejectionReason != reason {
			t.Errorf("rejection reason = %v", rejected.RejectionReason)
		}
	})

	t.Run("approving twice is a conflict", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		if _, err := h.svc.ApproveItem(id, items[0].ID, h.ownerID); err != nil {
			t.Fatal(err)
		}
		_, err := h.svc.ApproveItem(id, items[0].ID, h.ownerID)
		wantKind(t, err, apperror.KindConflict)
	})

	t.Run("converted items are immutable", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		target := items[0]
		stored := h.items.items[target.ID]
		stored.Status = model.ItemConverted
		h.items.items[target.ID] = stored

		if _, err := h.svc.ApproveItem(id, target.ID, h.ownerID); apperror.KindOf(err) != apperror.KindConflict {
			t.Errorf("approve on converted: %v", err)
		}
		if _, err := h.svc.RejectItem(id, target.ID, h.ownerID, dto.RejectGenerationItemDTO{}); apperror.KindOf(err) != apperror.KindConflict {
			t.Errorf("reject on converted: %v", err)
		}
		if _, err := h.svc.UpdateItem(id, target.ID, h.ownerID, editPayload(target)); apperror.KindOf(err) != apperror.KindConflict {
			t.Errorf("update on converted: %v", err)
		}
	})
}

// --- Finalize ---

func TestFinalize(t *testing.T) {
	approveAll := func(t *testing.T, h *lifecycleHarness, id uuid.UUID, items []model.GenerationItem) {
		t.Helper()
		for _, item := range items {
			if _, err := h.svc.ApproveItem(id, item.ID, h.ownerID); err != nil {
				t.Fatal(err)
			}
		}
	}

	t.Run("converts approved items and completes the request", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		approveAll(t, h, id, items)

		result, err := h.svc.Finalize(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if result.Generated != 2 || len(result.Failures) != 0 {
			t.Fatalf("result = %+v", result)
		}
		if h.requestStatus(id) != model.RequestCompleted {
			t.Errorf("status = %s, want COMPLETED", h.requestStatus(id))
		}
		for _, item := range h.items.items {
			if item.Status != model.ItemConverted {
				t.Errorf("item %s status = %s, want CONVERTED", item.ID, item.Status)
			}
		}
		if len(h.writer.created) != 2 {
			t.Fatalf("questions created = %d, want 2", len(h.writer.created))
		}
		for _, question := range h.writer.created {
			if question.EstimatedTime != 10 || question.Tag != "exam" || question.QuizType != "theorique" || question.Baseline != 1 {
				t.Errorf("question defaults = %+v", question)
			}
			if question.Promo != time.Now().Year() {
				t.Errorf("promo = %d", question.Promo)
			}
			if question.SourceRequestID == nil || *question.SourceRequestID != id {
				t.Error("question missing provenance")
			}
		}
	})

	t.Run("maps item types to question types", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		approveAll(t, h, id, items)
		if _, err := h.svc.Finalize(id, h.ownerID); err != nil {
			t.Fatal(err)
		}
		types := map[string]int{}
		for _, question := range h.writer.created {
			types[question.Type]++
		}
		if types["qcm"] != 1 || types["qroc"] != 1 {
			t.Errorf("question types = %v", types)
		}
	})

	t.Run("falls back to the subject's unit", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		request := h.requests.requests[id]
		request.UnitID = nil
		h.requests.requests[id] = request
		approveAll(t, h, id, items)

		if _, err := h.svc.Finalize(id, h.ownerID); err != nil {
			t.Fatal(err)
		}
		for _, question := range h.writer.created {
			if question.Unit != h.unitID {
				t.Errorf("unit = %s, want subject fallback %s", question.Unit, h.unitID)
			}
		}
	})

	t.Run("no unit anywhere fails per item without completing", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		request := h.requests.requests[id]
		request.UnitID = nil
		h.requests.requests[id] = request
		subject := h.refs.subjects[h.subjectID]
		subject.UnitID = nil
		h.refs.subjects[h.subjectID] = subject
		approveAll(t, h, id, items)

		result, err := h.svc.Finalize(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if result.Generated != 0 || len(result.Failures) != 2 {
			t.Fatalf("result = %+v", result)
		}
		if h.requestStatus(id) == model.RequestCompleted {
			t.Error("request must not complete with failures")
		}
	})

	t.Run("requires at least one approved item", func(t *testing.T) {
		h, id, _ := reviewHarness(t)
		_, err := h.svc.Finalize(id, h.ownerID)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("requires generated items", func(t *testing.T) {
		h := newLifecycleHarness(t)
		created, _ := h.svc.CreateRequest(h.ownerID, h.createDTO())
		_, err := h.svc.Finalize(created.ID, h.ownerID)
		wantKind(t, err, apperror.KindBadRequest)
	})

	t.Run("partial failure leaves the request open and a retry completes it", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		approveAll(t, h, id, items)
		h.writer.failStem = "Nommez l'enzyme clé."

		result, err := h.svc.Finalize(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if result.Generated != 1 || len(result.Failures) != 1 {
			t.Fatalf("result = %+v", result)
		}
		if h.requestStatus(id) != model.RequestReadyForReview {
			t.Errorf("status = %s, want READY_FOR_REVIEW", h.requestStatus(id))
		}

		// Retry converts only the remaining approved item.
		h.writer.failStem = ""
		retry, err := h.svc.Finalize(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if retry.Generated != 1 || len(retry.Failures) != 0 {
			t.Fatalf("retry result = %+v", retry)
		}
		if h.requestStatus(id) != model.RequestCompleted {
			t.Errorf("status after retry = %s, want COMPLETED", h.requestStatus(id))
		}
		if len(h.writer.created) != 2 {
			t.Errorf("questions created = %d, want 2 (no duplicates)", len(h.writer.created))
		}
	})

	t.Run("rejected items are never converted", func(t *testing.T) {
		h, id, items := reviewHarness(t)
		if _, err := h.svc.ApproveItem(id, items[0].ID, h.ownerID); err != nil {
			t.Fatal(err)
		}
		if _, err := h.svc.RejectItem(id, items[1].ID, h.ownerID, dto.RejectGenerationItemDTO{}); err != nil {
			t.Fatal(err)
		}

		result, err := h.svc.Finalize(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if result.Generated != 1 {
			t.Fatalf("result = %+v", result)
		}
		rejected := h.items.items[items[1].ID]
		if rejected.Status != model.ItemRejected {
			t.Errorf("rejected item status = %s", rejected.Status)
		}
	})
}

// --- Listing ---

func TestListAndGet(t *testing.T) {
	t.Run("listing is scoped to the owner", func(t *testing.T) {
		h := newLifecycleHarness(t)
		if _, err := h.svc.CreateRequest(h.ownerID, h.createDTO()); err != nil {
			t.Fatal(err)
		}
		if _, err := h.svc.CreateRequest(uuid.New(), h.createDTO()); err != nil {
			t.Fatal(err)
		}

		mine, err := h.svc.ListRequests(h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if len(mine) != 1 {
			t.Errorf("requests = %d, want 1", len(mine))
		}
	})

	t.Run("get returns items for review", func(t *testing.T) {
		h, id, _ := reviewHarness(t)
		request, err := h.svc.GetRequest(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if len(request.Items) != 2 {
			t.Errorf("items = %d, want 2", len(request.Items))
		}

		items, err := h.svc.GetItems(id, h.ownerID)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Errorf("GetItems = %d, want 2", len(items))
		}
	})

	t.Run("foreign owner gets not found", func(t *testing.T) {
		h, id, _ := reviewHarness(t)
		_, err := h.svc.GetRequest(id, uuid.New())
		wantKind(t, err, apperror.KindNotFound)
	})
}
