package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/logistics"
)

// ShipmentHandler serves shipments together with their folders and files
type ShipmentHandler struct {
	BaseHandler
	shipments *logistics.ShipmentService
	files     *logistics.AttachmentService
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(shipments *logistics.ShipmentService, files *logistics.AttachmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, files: files}
}

// List handles GET /shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	statusID, ok := h.queryID(c, "status_id")
	if !ok {
		return
	}
	if statusID != nil {
		filter = filter.Where("status_id", *statusID)
	}

	items, err := h.shipments.List(c.Request.Context(), h.principal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toShipmentResponses(items), len(items))
}

// Get handles GET /shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	shipment, err := h.shipments.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentResponse(shipment))
}

// Create handles POST /shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req CreateShipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shipment, err := h.shipments.Create(c.Request.Context(), h.principal(c), logistics.CreateShipmentInput{
		Number:  req.Number,
		Comment: req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toShipmentResponse(shipment))
}

// Update handles PUT /shipments/:id
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateShipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shipment, err := h.shipments.Update(c.Request.Context(), h.principal(c), id, logistics.UpdateShipmentInput{
		Number:  req.Number,
		Comment: req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentResponse(shipment))
}

// Transition handles POST /shipments/:id/transition
func (h *ShipmentHandler) Transition(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shipment, err := h.shipments.Transition(c.Request.Context(), h.principal(c), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentResponse(shipment))
}

// Delete handles DELETE /shipments/:id
func (h *ShipmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shipments.Delete(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Folders handles GET /shipments/:id/folders
func (h *ShipmentHandler) Folders(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	folders, err := h.files.ShipmentFolders(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]FolderResponse, len(folders))
	for i := range folders {
		out[i] = toFolderResponse(&folders[i])
	}
	h.SuccessList(c, out, len(out))
}

// CreateFolder handles POST /shipments/:id/folders
func (h *ShipmentHandler) CreateFolder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CreateFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	folder, err := h.files.CreateShipmentFolder(c.Request.Context(), h.principal(c), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toFolderResponse(folder))
}

// DeleteFolder handles DELETE /shipment-folders/:id
func (h *ShipmentHandler) DeleteFolder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.files.DeleteShipmentFolder(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Files handles GET /shipments/:id/files?folder_id=
func (h *ShipmentHandler) Files(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	folderID, ok := h.queryID(c, "folder_id")
	if !ok {
		return
	}
	files, err := h.files.ShipmentFiles(c.Request.Context(), h.principal(c), id, folderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toShipmentFileResponses(files), len(files))
}

// UploadFile handles multipart POST /shipments/:id/files with an optional
// folder_id form field
func (h *ShipmentHandler) UploadFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var folderID *uuid.UUID
	if raw := c.PostForm("folder_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid folder_id")
			return
		}
		folderID = &parsed
	}

	in, closeFile, ok := h.uploadInput(c)
	if !ok {
		return
	}
	defer closeFile()

	file, err := h.files.UploadShipmentFile(c.Request.Context(), h.principal(c), id, folderID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toShipmentFileResponse(file))
}

// DownloadFile handles GET /shipment-files/:id/download
func (h *ShipmentHandler) DownloadFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	link, err := h.files.ShipmentFileDownload(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDownloadResponse(link))
}

// DeleteFile handles DELETE /shipment-files/:id
func (h *ShipmentHandler) DeleteFile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.files.DeleteShipmentFile(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
