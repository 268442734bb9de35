package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/application/logistics"
	"github.com/logistics/backend/internal/application/workflow"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/infrastructure/config"
	"github.com/logistics/backend/internal/infrastructure/persistence"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/storage"
	"github.com/logistics/backend/internal/interfaces/http/dto"
	"github.com/logistics/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// principalFor builds an active principal of role inside tenantID
func principalFor(tenantID uuid.UUID, role identity.Role) *identity.Principal {
	tid := tenantID
	return &identity.Principal{
		ID:       uuid.New(),
		TenantID: &tid,
		Username: string(role),
		Role:     role,
		Active:   true,
	}
}

// newEngine returns a router that authenticates every request as p
func newEngine(p *identity.Principal) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		if p != nil {
			middleware.SetPrincipal(c, p)
		}
		c.Next()
	})
	return r
}

// doJSON performs a request with an optional JSON body
func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and re-decodes its data into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()

	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

// testStack wires the logistics services over an in-memory SQLite database
type testStack struct {
	db        *gorm.DB
	guard     *access.Guard
	registry  *workflow.Service
	storage   *storage.MemoryObjectStorage
	shipments *logistics.ShipmentService
	requests  *logistics.RequestService
	files     *logistics.AttachmentService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := persistence.Open(sqlite.Open(dsn),
		config.DatabaseConfig{MaxOpenConns: 1},
		config.LogConfig{DBLevel: "silent"},
		zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	db := database.DB

	log := zap.NewNop()
	guard := access.NewGuard(nil)
	registry := workflow.NewService(
		persistence.NewGormStatusRepository(db),
		persistence.NewGormTransitionStore(db),
		nil, log)
	objects := storage.NewMemoryObjectStorage()
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	attachmentRepo := persistence.NewGormAttachmentRepository(db)

	shipments := logistics.NewShipmentService(shipmentRepo, attachmentRepo, objects, registry, guard, log)
	requests := logistics.NewRequestService(logistics.RequestDeps{
		Requests:    persistence.NewGormRequestRepository(db),
		Shipments:   shipmentRepo,
		Attachments: attachmentRepo,
		Users:       persistence.NewGormUserRepository(db),
		Storage:     objects,
		Registry:    registry,
		Guard:       guard,
	}, log)
	files := logistics.NewAttachmentService(attachmentRepo, objects, shipments, requests, guard, nil, log)

	return &testStack{
		db:        db,
		guard:     guard,
		registry:  registry,
		storage:   objects,
		shipments: shipments,
		requests:  requests,
		files:     files,
	}
}
