package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/logistics"
	domain "github.com/logistics/backend/internal/domain/logistics"
)

// RequestHandler serves client requests and their files
type RequestHandler struct {
	BaseHandler
	requests *logistics.RequestService
	files    *logistics.AttachmentService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *logistics.RequestService, files *logistics.AttachmentService) *RequestHandler {
	return &RequestHandler{requests: requests, files: files}
}

func optionalID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id := uuid.MustParse(raw)
	return &id
}

// List handles GET /requests with optional shipment_id, status_id and
// client_id filters
func (h *RequestHandler) List(c *gin.Context) {
	base, ok := h.listFilter(c)
	if !ok {
		return
	}
	filter := domain.RequestFilter{Filter: base}
	if filter.ShipmentID, ok = h.queryID(c, "shipment_id"); !ok {
		return
	}
	for _, key := range []string{"status_id", "client_id"} {
		id, ok := h.queryID(c, key)
		if !ok {
			return
		}
		if id != nil {
			filter.Filter = filter.Where(key, *id)
		}
	}

	items, err := h.requests.List(c.Request.Context(), h.principal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toRequestResponses(items), len(items))
}

// Get handles GET /requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	request, err := h.requests.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRequestResponse(request))
}

// Create handles POST /requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.requests.Create(c.Request.Context(), h.principal(c), logistics.CreateRequestInput{
		ClientID:   optionalID(req.ClientID),
		ShipmentID: optionalID(req.ShipmentID),
		Details:    req.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toRequestResponse(request))
}

// Update handles PUT /requests/:id
func (h *RequestHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RequestDetailsBody
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.requests.Update(c.Request.Context(), h.principal(c), id, req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRequestResponse(request))
}

// Transition handles POST /requests/:id/transition
func (h *RequestHandler) Transition(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.requests.Transition(c.Request.Context(), h.principal(c), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRequestResponse(request))
}

// AssignShipment handles PUT /requests/:id/shipment
func (h *RequestHandler) AssignShipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignShipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.requests.AssignShipment(c.Request.Context(), h.principal(c), id, optionalID(req.ShipmentID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRequestResponse(request))
}

// Delete handles DELETE /requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.requests.Delete(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Files handles GET /requests/:id/files
func (h *RequestHandler) Files(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	files, err := h.files.RequestFiles(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toRequestFileResponses(files), len(files))
}

// UploadFile handles multipart POST /requests/:id/files
func (h *RequestHandler) UploadFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	in, closeFile, ok := h.uploadInput(c)
	if !ok {
		return
	}
	defer closeFile()

	file, err := h.files.UploadRequestFile(c.Request.Context(), h.principal(c), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toRequestFileResponse(file))
}

// DownloadFile handles GET /request-files/:id/download
func (h *RequestHandler) DownloadFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	link, err := h.files.RequestFileDownload(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDownloadResponse(link))
}

// DeleteFile handles DELETE /request-files/:id
func (h *RequestHandler) DeleteFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.files.DeleteRequestFile(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
