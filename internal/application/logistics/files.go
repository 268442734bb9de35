package logistics

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Metrics receives file events
type Metrics interface {
	FileUploaded(ctx context.Context, entity string, size int64)
}

type noopMetrics struct{}

func (noopMetrics) FileUploaded(context.Context, string, int64) {}

var errFolderExists = shared.NewDomainError(shared.CodeValidationConflict, "Folder with this name already exists")

// AttachmentService manages request files, shipment folders and shipment
// files. Parent visibility comes from the shipment and request services.
type AttachmentService struct {
	repo      logistics.AttachmentRepository
	storage   ObjectStorage
	shipments *ShipmentService
	requests  *RequestService
	guard     *access.Guard
	metrics   Metrics
	logger    *zap.Logger
}

// NewAttachmentService creates the attachment service. metrics may be nil.
func NewAttachmentService(
	repo logistics.AttachmentRepository,
	storage ObjectStorage,
	shipments *ShipmentService,
	requests *RequestService,
	guard *access.Guard,
	metrics Metrics,
	logger *zap.Logger,
) *AttachmentService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AttachmentService{
		repo:      repo,
		storage:   storage,
		shipments: shipments,
		requests:  requests,
		guard:     guard,
		metrics:   metrics,
		logger:    logger,
	}
}

// RequestFiles lists the files of a visible request
func (s *AttachmentService) RequestFiles(ctx context.Context, p *identity.Principal, requestID uuid.UUID) ([]logistics.RequestFile, error) {
	request, err := s.requests.load(ctx, p, identity.RoleClient, requestID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindRequestFiles(ctx, request)
}

// UploadRequestFile stores the body, then the record. Clients may upload
// to their own requests.
func (s *AttachmentService) UploadRequestFile(ctx context.Context, p *identity.Principal, requestID uuid.UUID, in UploadInput) (file *logistics.RequestFile, err error) {
	ctx, span := telemetry.StartSpan(ctx, "files.UploadRequestFile", attribute.String("request_id", requestID.String()))
	defer func() { telemetry.End(span, err) }()

	request, err := s.requests.load(ctx, p, identity.RoleClient, requestID)
	if err != nil {
		return nil, err
	}
	name, err := logistics.SanitizeFileName(in.FileName)
	if err != nil {
		return nil, err
	}

	token := uuid.New()
	key := ObjectKey(PrefixRequests, request.TenantID, request.ID, nil, token.String()+"_"+name)
	file = logistics.NewRequestFile(request, name, key, p.ID)
	if err := s.store(ctx, key, in, func() error { return s.repo.SaveRequestFile(ctx, file) }); err != nil {
		return nil, err
	}

	s.metrics.FileUploaded(ctx, PrefixRequests, in.Size)
	s.logger.Info("Request file uploaded",
		zap.String("request_id", request.ID.String()),
		zap.String("file_id", file.ID.String()),
		zap.Int64("size", in.Size),
	)
	return file, nil
}

// RequestFileDownload presigns a download of a request file
func (s *AttachmentService) RequestFileDownload(ctx context.Context, p *identity.Principal, fileID uuid.UUID) (*Download, error) {
	file, err := s.requestFile(ctx, p, identity.RoleClient, fileID)
	if err != nil {
		return nil, err
	}
	return s.download(ctx, file.ObjectKey, file.FileName)
}

// DeleteRequestFile removes a request file. Needs manager or higher.
func (s *AttachmentService) DeleteRequestFile(ctx context.Context, p *identity.Principal, fileID uuid.UUID) error {
	file, err := s.requestFile(ctx, p, identity.RoleManager, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRequestFile(ctx, file.ID); err != nil {
		return err
	}
	removeObject(ctx, s.storage, s.logger, file.ObjectKey)
	return nil
}

func (s *AttachmentService) requestFile(ctx context.Context, p *identity.Principal, required identity.Role, fileID uuid.UUID) (*logistics.RequestFile, error) {
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, err
	}
	file, err := s.repo.FindRequestFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, required, file); err != nil {
		return nil, err
	}
	// the parent's visibility rules apply to its files
	if _, err := s.requests.load(ctx, p, required, file.RequestID); err != nil {
		return nil, err
	}
	return file, nil
}

// ShipmentFolders lists the folders of a visible shipment
func (s *AttachmentService) ShipmentFolders(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID) ([]logistics.ShipmentFolder, error) {
	shipment, err := s.shipments.load(ctx, p, identity.RoleClient, shipmentID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindShipmentFolders(ctx, shipment)
}

// CreateShipmentFolder adds a folder. Needs manager or higher.
func (s *AttachmentService) CreateShipmentFolder(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID, name string) (*logistics.ShipmentFolder, error) {
	shipment, err := s.shipments.load(ctx, p, identity.RoleManager, shipmentID)
	if err != nil {
		return nil, err
	}
	folder, err := logistics.NewShipmentFolder(shipment, name, p.ID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindShipmentFolders(ctx, shipment)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == folder.Name {
			return nil, errFolderExists
		}
	}
	if err := s.repo.SaveShipmentFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteShipmentFolder removes a folder with its files. Needs manager or higher.
func (s *AttachmentService) DeleteShipmentFolder(ctx context.Context, p *identity.Principal, folderID uuid.UUID) error {
	folder, shipment, err := s.shipmentFolder(ctx, p, identity.RoleManager, folderID)
	if err != nil {
		return err
	}
	files, err := s.repo.FindShipmentFiles(ctx, shipment, &folder.ID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteShipmentFolder(ctx, folder.ID); err != nil {
		return err
	}
	for i := range files {
		removeObject(ctx, s.storage, s.logger, files[i].ObjectKey)
	}
	s.logger.Info("Shipment folder deleted",
		zap.String("folder_id", folder.ID.String()),
		zap.Int("files", len(files)),
	)
	return nil
}

func (s *AttachmentService) shipmentFolder(ctx context.Context, p *identity.Principal, required identity.Role, folderID uuid.UUID) (*logistics.ShipmentFolder, *logistics.Shipment, error) {
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, nil, err
	}
	folder, err := s.repo.FindShipmentFolder(ctx, folderID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.guard.RequireObject(p, required, folder); err != nil {
		return nil, nil, err
	}
	shipment, err := s.shipments.load(ctx, p, required, folder.ShipmentID)
	if err != nil {
		return nil, nil, err
	}
	return folder, shipment, nil
}

// ShipmentFiles lists files of a visible shipment, at the root when folderID is nil
func (s *AttachmentService) ShipmentFiles(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID, folderID *uuid.UUID) ([]logistics.ShipmentFile, error) {
	shipment, err := s.shipments.load(ctx, p, identity.RoleClient, shipmentID)
	if err != nil {
		return nil, err
	}
	if folderID != nil {
		folder, err := s.repo.FindShipmentFolder(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		if folder.ShipmentID != shipment.ID {
			return nil, shared.ErrNotFound
		}
	}
	return s.repo.FindShipmentFiles(ctx, shipment, folderID)
}

// UploadShipmentFile stores a file at the root or inside a folder of the
// shipment. Needs warehouse or higher.
func (s *AttachmentService) UploadShipmentFile(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID, folderID *uuid.UUID, in UploadInput) (file *logistics.ShipmentFile, err error) {
	ctx, span := telemetry.StartSpan(ctx, "files.UploadShipmentFile", attribute.String("shipment_id", shipmentID.String()))
	defer func() { telemetry.End(span, err) }()

	shipment, err := s.shipments.load(ctx, p, identity.RoleWarehouse, shipmentID)
	if err != nil {
		return nil, err
	}
	var folder *logistics.ShipmentFolder
	if folderID != nil {
		if folder, err = s.repo.FindShipmentFolder(ctx, *folderID); err != nil {
			return nil, err
		}
	}
	name, err := logistics.SanitizeFileName(in.FileName)
	if err != nil {
		return nil, err
	}

	var keyFolder *uuid.UUID
	if folder != nil {
		keyFolder = &folder.ID
	}
	key := ObjectKey(PrefixShipments, shipment.TenantID, shipment.ID, keyFolder, uuid.NewString()+"_"+name)
	file, err = logistics.NewShipmentFile(shipment, folder, name, key, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, key, in, func() error { return s.repo.SaveShipmentFile(ctx, file) }); err != nil {
		return nil, err
	}

	s.metrics.FileUploaded(ctx, PrefixShipments, in.Size)
	s.logger.Info("Shipment file uploaded",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("file_id", file.ID.String()),
		zap.Int64("size", in.Size),
	)
	return file, nil
}

// ShipmentFileDownload presigns a download of a shipment file
func (s *AttachmentService) ShipmentFileDownload(ctx context.Context, p *identity.Principal, fileID uuid.UUID) (*Download, error) {
	file, err := s.shipmentFile(ctx, p, identity.RoleClient, fileID)
	if err != nil {
		return nil, err
	}
	return s.download(ctx, file.ObjectKey, file.FileName)
}

// DeleteShipmentFile removes a shipment file. Needs manager or higher.
func (s *AttachmentService) DeleteShipmentFile(ctx context.Context, p *identity.Principal, fileID uuid.UUID) error {
	file, err := s.shipmentFile(ctx, p, identity.RoleManager, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteShipmentFile(ctx, file.ID); err != nil {
		return err
	}
	removeObject(ctx, s.storage, s.logger, file.ObjectKey)
	return nil
}

func (s *AttachmentService) shipmentFile(ctx context.Context, p *identity.Principal, required identity.Role, fileID uuid.UUID) (*logistics.ShipmentFile, error) {
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, err
	}
	file, err := s.repo.FindShipmentFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, required, file); err != nil {
		return nil, err
	}
	if _, err := s.shipments.load(ctx, p, required, file.ShipmentID); err != nil {
		return nil, err
	}
	return file, nil
}

// store puts the body, then runs save. When save fails the body is removed again.
func (s *AttachmentService) store(ctx context.Context, key string, in UploadInput, save func() error) error {
	if in.Body == nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "File body is empty")
	}
	if err := s.storage.Put(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		s.logger.Error("Failed to store file", zap.String("key", key), zap.Error(err))
		return shared.NewDomainError(shared.CodeExternalDependency, "file storage is unavailable")
	}
	if err := save(); err != nil {
		removeObject(ctx, s.storage, s.logger, key)
		return err
	}
	return nil
}

func (s *AttachmentService) download(ctx context.Context, key, fileName string) (*Download, error) {
	url, expires, err := s.storage.DownloadURL(ctx, key, fileName)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeExternalDependency, "file storage is unavailable")
	}
	return &Download{URL: url, FileName: fileName, ExpiresAt: expires}, nil
}
