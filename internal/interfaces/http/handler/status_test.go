package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusRouter(s *testStack, p *identity.Principal) *gin.Engine {
	h := NewStatusHandler(s.registry, s.guard)
	r := newEngine(p)
	r.GET("/statuses", h.List)
	r.POST("/statuses", h.Create)
	r.PUT("/statuses/default", h.SetDefault)
	r.GET("/statuses/:id", h.Get)
	r.DELETE("/statuses/:id", h.Delete)
	return r
}

func TestStatusHandler(t *testing.T) {
	s := newTestStack(t)
	tenantID := uuid.New()
	require.NoError(t, s.registry.EnsureBaseline(t.Context(), tenantID))
	admin := statusRouter(s, principalFor(tenantID, identity.RoleAdmin))

	w := doJSON(t, admin, http.MethodPost, "/statuses", CreateStatusRequest{
		Kind: "shipment", Code: "customs", Name: "At customs", Order: 50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created StatusResponse
	decode(t, w, &created)
	assert.Equal(t, "customs", created.Code)
	assert.False(t, created.IsDefault)

	t.Run("client reads the registry", func(t *testing.T) {
		client := statusRouter(s, principalFor(tenantID, identity.RoleClient))
		w := doJSON(t, client, http.MethodGet, "/statuses?kind=shipment", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []StatusResponse
		decode(t, w, &items)
		var codes []string
		for _, st := range items {
			codes = append(codes, st.Code)
		}
		assert.Contains(t, codes, "customs")
	})

	t.Run("unknown kind", func(t *testing.T) {
		w := doJSON(t, admin, http.MethodGet, "/statuses?kind=parcel", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		w := doJSON(t, admin, http.MethodPost, "/statuses", CreateStatusRequest{
			Kind: "shipment", Code: "customs", Name: "Customs again",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("set default moves the flag", func(t *testing.T) {
		w := doJSON(t, admin, http.MethodPut, "/statuses/default", SetDefaultStatusRequest{
			Kind: "shipment", StatusID: created.ID.String(),
		})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		def, err := s.registry.GetDefault(t.Context(), tenantID, "shipment")
		require.NoError(t, err)
		assert.Equal(t, created.ID, def.ID)
	})

	t.Run("manager cannot write", func(t *testing.T) {
		manager := statusRouter(s, principalFor(tenantID, identity.RoleManager))
		w := doJSON(t, manager, http.MethodPost, "/statuses", CreateStatusRequest{
			Kind: "request", Code: "held", Name: "Held",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("other tenant cannot read a status", func(t *testing.T) {
		other := statusRouter(s, principalFor(uuid.New(), identity.RoleAdmin))
		w := doJSON(t, other, http.MethodGet, "/statuses/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
