package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements logistics.AttachmentRepository using GORM.
// Single record finders load the parent so the record resolves its tenant.
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindRequestFiles lists the files of a request, newest first
func (r *GormAttachmentRepository) FindRequestFiles(ctx context.Context, request *logistics.Request) ([]logistics.RequestFile, error) {
	var fileModels []models.RequestFileModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", request.ID).
		Order("created_at DESC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}
	files := make([]logistics.RequestFile, len(fileModels))
	for i := range fileModels {
		f := fileModels[i].ToDomain()
		f.AttachRequest(request)
		files[i] = *f
	}
	return files, nil
}

// FindRequestFile finds a request file with its parent request loaded
func (r *GormAttachmentRepository) FindRequestFile(ctx context.Context, id uuid.UUID) (*logistics.RequestFile, error) {
	db := r.db.WithContext(ctx)
	var model models.RequestFileModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	var parent models.RequestModel
	if err := db.First(&parent, "id = ?", model.RequestID).Error; err != nil {
		return nil, translateError(err, "")
	}
	f := model.ToDomain()
	f.AttachRequest(parent.ToDomain())
	return f, nil
}

// SaveRequestFile records a request file
func (r *GormAttachmentRepository) SaveRequestFile(ctx context.Context, file *logistics.RequestFile) error {
	model := &models.RequestFileModel{}
	model.FromDomain(file)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "File already exists")
}

// DeleteRequestFile removes a request file record
func (r *GormAttachmentRepository) DeleteRequestFile(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.RequestFileModel{}, id)
}

// FindShipmentFolders lists the folders of a shipment by name
func (r *GormAttachmentRepository) FindShipmentFolders(ctx context.Context, shipment *logistics.Shipment) ([]logistics.ShipmentFolder, error) {
	var folderModels []models.ShipmentFolderModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipment.ID).
		Order("name ASC").
		Find(&folderModels).Error; err != nil {
		return nil, err
	}
	folders := make([]logistics.ShipmentFolder, len(folderModels))
	for i := range folderModels {
		f := folderModels[i].ToDomain()
		f.AttachShipment(shipment)
		folders[i] = *f
	}
	return folders, nil
}

// FindShipmentFolder finds a folder with its parent shipment loaded
func (r *GormAttachmentRepository) FindShipmentFolder(ctx context.Context, id uuid.UUID) (*logistics.ShipmentFolder, error) {
	db := r.db.WithContext(ctx)
	var model models.ShipmentFolderModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	parent, err := loadShipment(db, model.ShipmentID)
	if err != nil {
		return nil, err
	}
	f := model.ToDomain()
	f.AttachShipment(parent)
	return f, nil
}

// SaveShipmentFolder records a folder
func (r *GormAttachmentRepository) SaveShipmentFolder(ctx context.Context, folder *logistics.ShipmentFolder) error {
	model := &models.ShipmentFolderModel{}
	model.FromDomain(folder)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Folder with this name already exists")
}

// DeleteShipmentFolder removes the folder and the file records inside it
func (r *GormAttachmentRepository) DeleteShipmentFolder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ShipmentFileModel{}, "folder_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.ShipmentFolderModel{}, id)
	})
}

// FindShipmentFiles lists shipment files. A nil folderID lists files outside any folder.
func (r *GormAttachmentRepository) FindShipmentFiles(ctx context.Context, shipment *logistics.Shipment, folderID *uuid.UUID) ([]logistics.ShipmentFile, error) {
	query := r.db.WithContext(ctx).Where("shipment_id = ?", shipment.ID)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	} else {
		query = query.Where("folder_id IS NULL")
	}

	var fileModels []models.ShipmentFileModel
	if err := query.Order("created_at DESC").Find(&fileModels).Error; err != nil {
		return nil, err
	}
	files := make([]logistics.ShipmentFile, len(fileModels))
	for i := range fileModels {
		f := fileModels[i].ToDomain()
		f.AttachShipment(shipment)
		files[i] = *f
	}
	return files, nil
}

// FindShipmentFile finds a shipment file with its parent shipment loaded
func (r *GormAttachmentRepository) FindShipmentFile(ctx context.Context, id uuid.UUID) (*logistics.ShipmentFile, error) {
	db := r.db.WithContext(ctx)
	var model models.ShipmentFileModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	parent, err := loadShipment(db, model.ShipmentID)
	if err != nil {
		return nil, err
	}
	f := model.ToDomain()
	f.AttachShipment(parent)
	return f, nil
}

// SaveShipmentFile records a shipment file
func (r *GormAttachmentRepository) SaveShipmentFile(ctx context.Context, file *logistics.ShipmentFile) error {
	model := &models.ShipmentFileModel{}
	model.FromDomain(file)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "File already exists")
}

// DeleteShipmentFile removes a shipment file record
func (r *GormAttachmentRepository) DeleteShipmentFile(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.ShipmentFileModel{}, id)
}

func loadShipment(db *gorm.DB, id uuid.UUID) (*logistics.Shipment, error) {
	var parent models.ShipmentModel
	if err := db.First(&parent, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return parent.ToDomain(), nil
}

func deleteByID(db *gorm.DB, model any, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAttachmentRepository implements logistics.AttachmentRepository
var _ logistics.AttachmentRepository = (*GormAttachmentRepository)(nil)
