package persistence

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/logistics/backend/internal/infrastructure/config"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := Open(sqlite.Open(dsn),
		config.DatabaseConfig{MaxOpenConns: 1},
		config.LogConfig{DBLevel: "silent"},
		zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	return database.DB
}

// seedStatuses inserts the baseline statuses of tenantID and returns the default of each kind
func seedStatuses(t *testing.T, db *gorm.DB, tenantID uuid.UUID) (shipmentDefault, requestDefault *workflow.Status) {
	t.Helper()

	repo := NewGormStatusRepository(db)
	_, err := repo.InsertMissing(t.Context(), tenantID, workflow.BaselineStatuses(tenantID))
	require.NoError(t, err)

	shipmentDefault, err = repo.FindDefault(t.Context(), tenantID, workflow.KindShipment)
	require.NoError(t, err)
	requestDefault, err = repo.FindDefault(t.Context(), tenantID, workflow.KindRequest)
	require.NoError(t, err)
	return shipmentDefault, requestDefault
}

func seedShipment(t *testing.T, db *gorm.DB, tenantID, statusID uuid.UUID, number string) *logistics.Shipment {
	t.Helper()

	s, err := logistics.NewShipment(tenantID, uuid.New(), number, statusID, "")
	require.NoError(t, err)
	require.NoError(t, NewGormShipmentRepository(db).Save(t.Context(), s))
	return s
}

func seedRequest(t *testing.T, db *gorm.DB, tenantID, statusID, clientID uuid.UUID, number int) *logistics.Request {
	t.Helper()

	r, err := logistics.NewRequest(tenantID, clientID, number, clientID, statusID, logistics.RequestDetails{})
	require.NoError(t, err)
	require.NoError(t, NewGormRequestRepository(db).Save(t.Context(), r))
	return r
}
