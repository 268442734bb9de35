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

func requestRouter(s *testStack, p *identity.Principal) *gin.Engine {
	h := NewRequestHandler(s.requests, s.files)
	r := newEngine(p)
	r.GET("/requests", h.List)
	r.POST("/requests", h.Create)
	r.GET("/requests/:id", h.Get)
	r.PUT("/requests/:id", h.Update)
	r.PUT("/requests/:id/shipment", h.AssignShipment)
	r.DELETE("/requests/:id", h.Delete)
	return r
}

func TestRequestHandler_ClientFlow(t *testing.T) {
	s := newTestStack(t)
	tenantID := uuid.New()
	client := principalFor(tenantID, identity.RoleClient)
	clientRouter := requestRouter(s, client)

	w := doJSON(t, clientRouter, http.MethodPost, "/requests", CreateRequestRequest{
		RequestDetailsBody: RequestDetailsBody{Description: "Two pallets", Places: 2},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created RequestResponse
	decode(t, w, &created)
	assert.Equal(t, 1, created.Number)
	assert.Equal(t, client.ID, created.ClientID)
	assert.Nil(t, created.ManagerID)

	t.Run("owner reads own request", func(t *testing.T) {
		w := doJSON(t, clientRouter, http.MethodGet, "/requests/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other client of same company sees not found", func(t *testing.T) {
		other := requestRouter(s, principalFor(tenantID, identity.RoleClient))
		w := doJSON(t, other, http.MethodGet, "/requests/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, other, http.MethodGet, "/requests", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []RequestResponse
		decode(t, w, &items)
		assert.Empty(t, items)
	})

	t.Run("client cannot attach a shipment", func(t *testing.T) {
		w := doJSON(t, clientRouter, http.MethodPut, "/requests/"+created.ID.String()+"/shipment",
			AssignShipmentRequest{ShipmentID: uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("manager attaches a shipment and filters by it", func(t *testing.T) {
		shipment := createShipment(t, shipmentRouter(s, principalFor(tenantID, identity.RoleBoss)), "SH-1")
		manager := requestRouter(s, principalFor(tenantID, identity.RoleManager))

		w := doJSON(t, manager, http.MethodPut, "/requests/"+created.ID.String()+"/shipment",
			AssignShipmentRequest{ShipmentID: shipment.ID.String()})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got RequestResponse
		decode(t, w, &got)
		require.NotNil(t, got.ShipmentID)
		assert.Equal(t, shipment.ID, *got.ShipmentID)

		w = doJSON(t, manager, http.MethodGet, "/requests?shipment_id="+shipment.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []RequestResponse
		decode(t, w, &items)
		require.Len(t, items, 1)
		assert.Equal(t, created.ID, items[0].ID)
	})

	t.Run("manager must name a client", func(t *testing.T) {
		manager := requestRouter(s, principalFor(tenantID, identity.RoleManager))
		w := doJSON(t, manager, http.MethodPost, "/requests", CreateRequestRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad filter id", func(t *testing.T) {
		w := doJSON(t, clientRouter, http.MethodGet, "/requests?shipment_id=nope", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
