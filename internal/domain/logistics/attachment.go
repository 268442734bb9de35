package logistics

import (
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
)

// SanitizeFileName strips directories and control characters from an uploaded name
func SanitizeFileName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "File name is empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "File name cannot exceed 255 characters")
	}
	return name, nil
}

// RequestFile is a document attached to a request. It has no tenant of its
// own and resolves ownership through the request.
type RequestFile struct {
	shared.BaseEntity
	RequestID  uuid.UUID
	FileName   string
	ObjectKey  string
	UploadedBy uuid.UUID
	request    *Request
}

// NewRequestFile creates a file record under request
func NewRequestFile(request *Request, fileName, objectKey string, uploadedBy uuid.UUID) *RequestFile {
	return &RequestFile{
		BaseEntity: shared.NewBaseEntity(),
		RequestID:  request.ID,
		FileName:   fileName,
		ObjectKey:  objectKey,
		UploadedBy: uploadedBy,
		request:    request,
	}
}

// AttachRequest sets the parent used for tenant resolution
func (f *RequestFile) AttachRequest(r *Request) {
	f.request = r
}

// Request returns the loaded parent, or nil
func (f *RequestFile) Request() *Request {
	return f.request
}

// UploadedAt is the creation time of the record
func (f *RequestFile) UploadedAt() time.Time {
	return f.CreatedAt
}

// GetTenantID resolves the tenant through the parent request. Without a
// loaded parent it returns uuid.Nil, which no tenant member matches.
func (f *RequestFile) GetTenantID() uuid.UUID {
	if f.request == nil || f.request.ID != f.RequestID {
		return uuid.Nil
	}
	return f.request.GetTenantID()
}

// ShipmentFolder groups shipment files
type ShipmentFolder struct {
	shared.BaseEntity
	ShipmentID uuid.UUID
	Name       string
	CreatedBy  uuid.UUID
	shipment   *Shipment
}

// NewShipmentFolder creates a folder under shipment
func NewShipmentFolder(shipment *Shipment, name string, createdBy uuid.UUID) (*ShipmentFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Folder name must be non-empty and contain no slashes")
	}
	if utf8.RuneCountInString(name) > 255 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Folder name cannot exceed 255 characters")
	}
	return &ShipmentFolder{
		BaseEntity: shared.NewBaseEntity(),
		ShipmentID: shipment.ID,
		Name:       name,
		CreatedBy:  createdBy,
		shipment:   shipment,
	}, nil
}

// AttachShipment sets the parent used for tenant resolution
func (f *ShipmentFolder) AttachShipment(s *Shipment) {
	f.shipment = s
}

// Shipment returns the loaded parent, or nil
func (f *ShipmentFolder) Shipment() *Shipment {
	return f.shipment
}

// GetTenantID resolves the tenant through the parent shipment
func (f *ShipmentFolder) GetTenantID() uuid.UUID {
	if f.shipment == nil || f.shipment.ID != f.ShipmentID {
		return uuid.Nil
	}
	return f.shipment.GetTenantID()
}

// ShipmentFile is a document attached to a shipment, optionally inside a folder
type ShipmentFile struct {
	shared.BaseEntity
	ShipmentID uuid.UUID
	FolderID   *uuid.UUID
	FileName   string
	ObjectKey  string
	UploadedBy uuid.UUID
	shipment   *Shipment
}

// NewShipmentFile creates a file record under shipment. folder must belong to the same shipment.
func NewShipmentFile(shipment *Shipment, folder *ShipmentFolder, fileName, objectKey string, uploadedBy uuid.UUID) (*ShipmentFile, error) {
	f := &ShipmentFile{
		BaseEntity: shared.NewBaseEntity(),
		ShipmentID: shipment.ID,
		FileName:   fileName,
		ObjectKey:  objectKey,
		UploadedBy: uploadedBy,
		shipment:   shipment,
	}
	if folder != nil {
		if folder.ShipmentID != shipment.ID {
			return nil, shared.NewDomainError(shared.CodeValidationConflict, "Folder belongs to another shipment")
		}
		id := folder.ID
		f.FolderID = &id
	}
	return f, nil
}

// AttachShipment sets the parent used for tenant resolution
func (f *ShipmentFile) AttachShipment(s *Shipment) {
	f.shipment = s
}

// Shipment returns the loaded parent, or nil
func (f *ShipmentFile) Shipment() *Shipment {
	return f.shipment
}

// UploadedAt is the creation time of the record
func (f *ShipmentFile) UploadedAt() time.Time {
	return f.CreatedAt
}

// GetTenantID resolves the tenant through the parent shipment
func (f *ShipmentFile) GetTenantID() uuid.UUID {
	if f.shipment == nil || f.shipment.ID != f.ShipmentID {
		return uuid.Nil
	}
	return f.shipment.GetTenantID()
}
