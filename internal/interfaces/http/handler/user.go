package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/logistics/backend/internal/application/identity"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
)

// UserHandler manages users inside the caller's company
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		h.BadRequest(c, "Unknown role: "+req.Role)
		return
	}
	info, err := h.userService.CreateUser(c.Request.Context(), h.principal(c), appidentity.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUserResponse(*info))
}

// Clients handles GET /clients
func (h *UserHandler) Clients(c *gin.Context) {
	clients, err := h.userService.ListClients(c.Request.Context(), h.principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]UserResponse, len(clients))
	for i, u := range clients {
		out[i] = toUserResponse(u)
	}
	h.SuccessList(c, out, len(out))
}

// AssignableRoles handles GET /users/roles
func (h *UserHandler) AssignableRoles(c *gin.Context) {
	p := h.principal(c)
	if p == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	h.Success(c, h.userService.AssignableRoles(p))
}
