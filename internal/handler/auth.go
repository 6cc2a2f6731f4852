package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/PlxloYzb/kbk-attendance-server/internal/middleware"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/response"
)

// authenticateDevice checks that the passkey belongs to the claimed user.
// Field devices have no session, every request carries the pair.
func authenticateDevice(ctx context.Context, userID, passkey string) error {
	u, err := service.Auth().VerifyPasskey(ctx, passkey)
	if err != nil {
		return err
	}
	if u.UserID != userID {
		return errors.InvalidPasskey
	}
	return nil
}

// VerifyPasskey resolves a passkey to its user profile.
// POST /api/auth/verify
func VerifyPasskey(ctx context.Context, c *app.RequestContext) {
	var req dto.AuthRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	user, err := service.Auth().VerifyPasskey(ctx, req.Passkey)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, user)
}

// AdminLogin exchanges credentials for a bearer token.
// POST /admin/login
func AdminLogin(ctx context.Context, c *app.RequestContext) {
	var req dto.AdminLoginRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// AdminLogout revokes the current token.
// POST /admin/logout
func AdminLogout(ctx context.Context, c *app.RequestContext) {
	tok, ok := middleware.GetAdminToken(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	if err := service.Auth().AdminLogout(ctx, tok); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
