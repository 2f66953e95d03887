package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/service"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	generationSvc service.GenerationService
	referenceSvc  service.ReferenceService
}

func NewController(generationSvc service.GenerationService, referenceSvc service.ReferenceService) *Controller {
	return &Controller{generationSvc: generationSvc, referenceSvc: referenceSvc}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	apiV1.Use(UserScoped())
	{
		requests := apiV1.Group("/generation/requests")
		requests.POST("", ctrl.CreateRequestHandler)
		requests.GET("", ctrl.ListRequestsHandler)
		requests.GET("/:id", ctrl.GetRequestHandler)
		requests.POST("/:id/source", ctrl.UploadSourceHandler)
		requests.POST("/:id/confirm", ctrl.ConfirmUploadHandler)
		requests.GET("/:id/items", ctrl.GetItemsHandler)
		requests.PUT("/:id/items/:itemId", ctrl.UpdateItemHandler)
		requests.POST("/:id/items/:itemId/approve", ctrl.ApproveItemHandler)
		requests.POST("/:id/items/:itemId/reject", ctrl.RejectItemHandler)
		requests.POST("/:id/finalize", ctrl.FinalizeHandler)

		components := apiV1.Group("/knowledge-components")
		components.GET("", ctrl.ListKnowledgeComponentsHandler)
	}
}

// respondError translates service errors to HTTP. Anything without an
// explicit kind is reported as a generic 500 so internal details never
// reach the client.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		c.JSON(status, dto.ErrorResponse{Message: "internal server error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Message: apperror.MessageOf(err)})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: fmt.Sprintf("invalid %s format", name)})
		return uuid.Nil, false
	}
	return id, true
}

// CreateRequestHandler godoc
// @Summary Create a generation request
// @Description Open a new AI generation request scoped to a course. The response carries the URL to upload the source document to.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.CreateGenerationRequestDTO true "Generation request parameters"
// @Success 201 {object} dto.CreateRequestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or parameters"
// @Router /generation/requests [post]
func (ctrl *Controller) CreateRequestHandler(c *gin.Context) {
	var req dto.CreateGenerationRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateGenerationRequestDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	created, err := ctrl.generationSvc.CreateRequest(currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateRequestResponseDTO{
		ID:        created.ID,
		UploadURL: fmt.Sprintf("/api/v1/generation/requests/%s/source", created.ID),
	})
}

// ListRequestsHandler godoc
// @Summary List generation requests
// @Description Retrieve all generation requests owned by the caller, most recent first
// @Tags generation
// @Produce json
// @Success 200 {array} dto.GenerationRequestResponseDTO
// @Router /generation/requests [get]
func (ctrl *Controller) ListRequestsHandler(c *gin.Context) {
	requests, err := ctrl.generationSvc.ListRequests(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestHandler godoc
// @Summary Get a generation request
// @Description Retrieve one generation request with its generated items
// @Tags generation
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.GenerationRequestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /generation/requests/{id} [get]
func (ctrl *Controller) GetRequestHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	request, err := ctrl.generationSvc.GetRequest(id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// UploadSourceHandler godoc
// @Summary Upload the source document
// @Description Attach the source document (multipart field "file") to a generation request. Re-uploading replaces the previous file.
// @Tags generation
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Request ID"
// @Param file formData file true "Source document"
// @Success 200 {object} dto.UploadSourceResponseDTO
// @Failure 400 {object} dto.ErrorResponse "No file received"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is past the upload stage"
// @Router /generation/requests/{id}/source [post]
func (ctrl *Controller) UploadSourceHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "no file received"})
		return
	}
	resp, err := ctrl.generationSvc.UploadSource(id, currentUserID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUploadHandler godoc
// @Summary Confirm upload and run generation
// @Description Trigger the AI generation pipeline for an uploaded source. Blocks until generation finishes. Repeating the call on a generated request returns the existing items.
// @Tags generation
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.GenerationRequestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Upload not completed or generation failed"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Generation already in progress"
// @Router /generation/requests/{id}/confirm [post]
func (ctrl *Controller) ConfirmUploadHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	request, err := ctrl.generationSvc.ConfirmUpload(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// GetItemsHandler godoc
// @Summary List generated items
// @Description Retrieve the generated items of a request for review
// @Tags generation
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {array} dto.GenerationItemResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /generation/requests/{id}/items [get]
func (ctrl *Controller) GetItemsHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	items, err := ctrl.generationSvc.GetItems(id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateItemHandler godoc
// @Summary Edit a generated item
// @Description Overwrite a generated item's content during review. The item returns to PENDING_REVIEW.
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param itemId path string true "Item ID"
// @Param item body dto.UpdateGenerationItemDTO true "Edited item content"
// @Success 200 {object} dto.GenerationItemResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid item content"
// @Failure 404 {object} dto.ErrorResponse "Request or item not found"
// @Failure 409 {object} dto.ErrorResponse "Item cannot be edited in its current status"
// @Router /generation/requests/{id}/items/{itemId} [put]
func (ctrl *Controller) UpdateItemHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload dto.UpdateGenerationItemDTO
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn().Err(err).Msg("Failed to bind UpdateGenerationItemDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	item, err := ctrl.generationSvc.UpdateItem(id, itemID, currentUserID(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ApproveItemHandler godoc
// @Summary Approve a generated item
// @Description Mark a reviewed item as approved, making it eligible for finalization
// @Tags generation
// @Produce json
// @Param id path string true "Request ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} dto.GenerationItemResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Item content is invalid"
// @Failure 404 {object} dto.ErrorResponse "Request or item not found"
// @Failure 409 {object} dto.ErrorResponse "Item cannot be approved in its current status"
// @Router /generation/requests/{id}/items/{itemId}/approve [post]
func (ctrl *Controller) ApproveItemHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := ctrl.generationSvc.ApproveItem(id, itemID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RejectItemHandler godoc
// @Summary Reject a generated item
// @Description Mark a generated item as rejected, optionally with a reason
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param itemId path string true "Item ID"
// @Param rejection body dto.RejectGenerationItemDTO false "Rejection reason"
// @Success 200 {object} dto.GenerationItemResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Request or item not found"
// @Failure 409 {object} dto.ErrorResponse "Item cannot be rejected in its current status"
// @Router /generation/requests/{id}/items/{itemId}/reject [post]
func (ctrl *Controller) RejectItemHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload dto.RejectGenerationItemDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
			return
		}
	}
	item, err := ctrl.generationSvc.RejectItem(id, itemID, currentUserID(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// FinalizeHandler godoc
// @Summary Finalize a generation request
// @Description Convert every approved item into a permanent question. Partial failures are reported per item and the request stays open for retry.
// @Tags generation
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.FinalizeResultDTO
// @Failure 400 {object} dto.ErrorResponse "Nothing to finalize"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /generation/requests/{id}/finalize [post]
func (ctrl *Controller) FinalizeHandler(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctrl.generationSvc.Finalize(id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListKnowledgeComponentsHandler godoc
// @Summary List knowledge components
// @Description Retrieve every active knowledge component available for generation requests
// @Tags knowledge-components
// @Produce json
// @Success 200 {array} dto.KnowledgeComponentResponseDTO
// @Router /knowledge-components [get]
func (ctrl *Controller) ListKnowledgeComponentsHandler(c *gin.Context) {
	components, err := ctrl.referenceSvc.ListKnowledgeComponents()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, components)
}
