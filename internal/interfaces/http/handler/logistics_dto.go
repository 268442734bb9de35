package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/shopspring/decimal"
)

// ShipmentResponse is the API view of a shipment
type ShipmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	StatusID  uuid.UUID `json:"status_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toShipmentResponse(s *logistics.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:        s.ID,
		Number:    s.Number,
		StatusID:  s.StatusID,
		Comment:   s.Comment,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toShipmentResponses(items []logistics.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, len(items))
	for i := range items {
		out[i] = toShipmentResponse(&items[i])
	}
	return out
}

// CreateShipmentRequest is the body of POST /shipments
type CreateShipmentRequest struct {
	Number  string `json:"number" binding:"required,max=100"`
	Comment string `json:"comment"`
}

// UpdateShipmentRequest is the body of PUT /shipments/:id
type UpdateShipmentRequest struct {
	Number  *string `json:"number" binding:"omitempty,max=100"`
	Comment *string `json:"comment"`
}

// TransitionRequest moves a shipment or request to another status
type TransitionRequest struct {
	StatusID     string           `json:"status_id" binding:"required,uuid"`
	Comment      *string          `json:"comment"`
	ActualWeight *decimal.Decimal `json:"actual_weight"`
	ActualVolume *decimal.Decimal `json:"actual_volume"`
}

// RequestResponse is the API view of a client request
type RequestResponse struct {
	ID              uuid.UUID        `json:"id"`
	Number          int              `json:"number"`
	Description     string           `json:"description"`
	WarehouseNumber string           `json:"warehouse_number"`
	Places          int              `json:"places"`
	DeclaredWeight  *decimal.Decimal `json:"declared_weight"`
	DeclaredVolume  *decimal.Decimal `json:"declared_volume"`
	ActualWeight    *decimal.Decimal `json:"actual_weight"`
	ActualVolume    *decimal.Decimal `json:"actual_volume"`
	Rate            string           `json:"rate"`
	Comment         string           `json:"comment"`
	StatusID        uuid.UUID        `json:"status_id"`
	ClientID        uuid.UUID        `json:"client_id"`
	ManagerID       *uuid.UUID       `json:"manager_id"`
	ShipmentID      *uuid.UUID       `json:"shipment_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func nullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toRequestResponse(r *logistics.Request) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		Number:          r.Number,
		Description:     r.Description,
		WarehouseNumber: r.WarehouseNumber,
		Places:          r.Places,
		DeclaredWeight:  nullDecimal(r.DeclaredWeight),
		DeclaredVolume:  nullDecimal(r.DeclaredVolume),
		ActualWeight:    nullDecimal(r.ActualWeight),
		ActualVolume:    nullDecimal(r.ActualVolume),
		Rate:            r.Rate,
		Comment:         r.Comment,
		StatusID:        r.StatusID,
		ClientID:        r.ClientID,
		ManagerID:       r.ManagerID,
		ShipmentID:      r.ShipmentID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toRequestResponses(items []logistics.Request) []RequestResponse {
	out := make([]RequestResponse, len(items))
	for i := range items {
		out[i] = toRequestResponse(&items[i])
	}
	return out
}

// RequestDetailsBody carries the editable fields of a request
type RequestDetailsBody struct {
	Description     string           `json:"description" binding:"max=2000"`
	WarehouseNumber string           `json:"warehouse_number" binding:"max=100"`
	Places          int              `json:"places" binding:"gte=0"`
	DeclaredWeight  *decimal.Decimal `json:"declared_weight"`
	DeclaredVolume  *decimal.Decimal `json:"declared_volume"`
	ActualWeight    *decimal.Decimal `json:"actual_weight"`
	ActualVolume    *decimal.Decimal `json:"actual_volume"`
	Rate            string           `json:"rate"`
	Comment         string           `json:"comment"`
}

func (b RequestDetailsBody) toDomain() logistics.RequestDetails {
	return logistics.RequestDetails{
		Description:     b.Description,
		WarehouseNumber: b.WarehouseNumber,
		Places:          b.Places,
		DeclaredWeight:  b.DeclaredWeight,
		DeclaredVolume:  b.DeclaredVolume,
		ActualWeight:    b.ActualWeight,
		ActualVolume:    b.ActualVolume,
		Rate:            b.Rate,
		Comment:         b.Comment,
	}
}

// CreateRequestRequest is the body of POST /requests
type CreateRequestRequest struct {
	RequestDetailsBody
	ClientID   string `json:"client_id" binding:"omitempty,uuid"`
	ShipmentID string `json:"shipment_id" binding:"omitempty,uuid"`
}

// AssignShipmentRequest attaches a request to a shipment, or detaches it
// when shipment_id is empty
type AssignShipmentRequest struct {
	ShipmentID string `json:"shipment_id" binding:"omitempty,uuid"`
}

// FileResponse is the API view of an uploaded file
type FileResponse struct {
	ID         uuid.UUID  `json:"id"`
	FileName   string     `json:"file_name"`
	FolderID   *uuid.UUID `json:"folder_id,omitempty"`
	UploadedBy uuid.UUID  `json:"uploaded_by"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

func toRequestFileResponses(items []logistics.RequestFile) []FileResponse {
	out := make([]FileResponse, len(items))
	for i := range items {
		out[i] = toRequestFileResponse(&items[i])
	}
	return out
}

func toRequestFileResponse(f *logistics.RequestFile) FileResponse {
	return FileResponse{
		ID:         f.ID,
		FileName:   f.FileName,
		UploadedBy: f.UploadedBy,
		UploadedAt: f.UploadedAt(),
	}
}

func toShipmentFileResponses(items []logistics.ShipmentFile) []FileResponse {
	out := make([]FileResponse, len(items))
	for i := range items {
		out[i] = toShipmentFileResponse(&items[i])
	}
	return out
}

func toShipmentFileResponse(f *logistics.ShipmentFile) FileResponse {
	return FileResponse{
		ID:         f.ID,
		FileName:   f.FileName,
		FolderID:   f.FolderID,
		UploadedBy: f.UploadedBy,
		UploadedAt: f.UploadedAt(),
	}
}

// FolderResponse is the API view of a shipment folder
type FolderResponse struct {
	ID         uuid.UUID `json:"id"`
	ShipmentID uuid.UUID `json:"shipment_id"`
	Name       string    `json:"name"`
	CreatedBy  uuid.UUID `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFolderResponse(f *logistics.ShipmentFolder) FolderResponse {
	return FolderResponse{
		ID:         f.ID,
		ShipmentID: f.ShipmentID,
		Name:       f.Name,
		CreatedBy:  f.CreatedBy,
		CreatedAt:  f.CreatedAt,
	}
}

// CreateFolderRequest is the body of POST /shipments/:id/folders
type CreateFolderRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// DownloadResponse is a short-lived link to a stored file
type DownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}
