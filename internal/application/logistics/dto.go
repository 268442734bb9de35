package logistics

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/shopspring/decimal"
)

// CreateShipmentInput creates a shipment in the tenant's default status
type CreateShipmentInput struct {
	Number  string
	Comment string
}

// UpdateShipmentInput changes a shipment. Nil fields keep their value.
type UpdateShipmentInput struct {
	Number  *string
	Comment *string
}

// CreateRequestInput creates a request. ClientID is ignored for client
// principals, who always create requests for themselves.
type CreateRequestInput struct {
	ClientID   *uuid.UUID
	ShipmentID *uuid.UUID
	Details    logistics.RequestDetails
}

// TransitionInput moves a shipment or request to another status
type TransitionInput struct {
	StatusID     uuid.UUID
	Comment      *string
	ActualWeight *decimal.Decimal
	ActualVolume *decimal.Decimal
}

// UploadInput is one uploaded file
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Download is a presigned link to a stored file
type Download struct {
	URL       string
	FileName  string
	ExpiresAt time.Time
}
