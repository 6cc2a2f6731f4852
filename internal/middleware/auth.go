package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/response"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/token"
)

const (
	// AdminSessionKey is where the validated session lands in the request
	// context.
	AdminSessionKey = "admin_session"
	// AdminTokenKey keeps the raw token around for logout.
	AdminTokenKey = "admin_token"
)

func extractBearer(c *app.RequestContext) string {
	auth := string(c.GetHeader("Authorization"))
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(auth)
}

// AdminAuthMiddleware validates the bearer token against the token store.
func AdminAuthMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		tok := extractBearer(c)
		if tok == "" {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		session, err := service.Auth().ValidateAdminToken(ctx, tok)
		if err != nil {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		c.Set(AdminSessionKey, session)
		c.Set(AdminTokenKey, tok)
		c.Next(ctx)
	}
}

// RequireAdminRole rejects department-scoped accounts on full-admin routes.
func RequireAdminRole() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		session, ok := GetAdminSession(c)
		if !ok || session.Role != string(model.AdminRoleAdmin) {
			c.Abort()
			response.Error(ctx, c, errors.AdminAccessDenied)
			return
		}
		c.Next(ctx)
	}
}

func GetAdminSession(c *app.RequestContext) (*token.Session, bool) {
	v, exists := c.Get(AdminSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*token.Session)
	return session, ok
}

func GetAdminToken(c *app.RequestContext) (string, bool) {
	v, exists := c.Get(AdminTokenKey)
	if !exists {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok
}
