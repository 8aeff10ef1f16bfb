package handlers

import (
	"context"
	"errors"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nemanja/arhiva-api/internal/middleware"
	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/nemanja/arhiva-api/pkg/dto"
)

type AuthHandler struct {
	userService UserServiceInterface
	jwtService  *services.JWTService
}

func NewAuthHandler(userService UserServiceInterface, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// Login records a login event from the identity provider, reconciles
// the storage permission claim and hands back an access token. Role
// and admin status in the response are derived from the persisted
// record, never from the request.
func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.IdentityKey == "" {
		c.BadRequest("identity_key is required")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	user, err := h.userService.Login(context.Background(), services.LoginInput{
		IdentityKey:          req.IdentityKey,
		Email:                req.Email,
		Name:                 req.Name,
		PhotoURL:             req.Photo,
		HasStoragePermission: req.HasStoragePermission,
	})
	if err != nil {
		c.InternalServerError("failed to process login")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateAccessToken(user.ID, user.IdentityKey, user.Email)
	if err != nil {
		c.InternalServerError("failed to generate token")
		return
	}

	_ = c.JSON(200, dto.LoginResponse{
		IsAdmin:              user.IsAdmin(),
		Role:                 string(user.Role),
		HasStoragePermission: user.HasStoragePermission,
		AccessToken:          token,
		ExpiresIn:            expiresIn,
	})
}

// GrantPermission is the explicit grant action. A caller may grant for
// themselves; only admins may grant for someone else.
func (h *AuthHandler) GrantPermission(c *drift.Context) {
	callerKey := middleware.GetIdentityKey(c)
	if callerKey == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.GrantPermissionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.IdentityKey == "" {
		c.BadRequest("identity_key is required")
		return
	}

	ctx := context.Background()

	if req.IdentityKey != callerKey {
		caller, err := h.userService.GetByIdentityKey(ctx, callerKey)
		if err != nil || caller.Role != models.RoleAdmin {
			c.Forbidden("cannot grant permission for another user")
			return
		}
	}

	user, err := h.userService.GrantStoragePermission(ctx, req.IdentityKey)
	if errors.Is(err, services.ErrUserNotFound) {
		c.NotFound("user not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to grant permission")
		return
	}

	_ = c.JSON(200, dto.GrantPermissionResponse{
		Success:              true,
		Role:                 string(user.Role),
		HasStoragePermission: user.HasStoragePermission,
	})
}
