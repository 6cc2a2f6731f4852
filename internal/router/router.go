package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/PlxloYzb/kbk-attendance-server/internal/handler"
	"github.com/PlxloYzb/kbk-attendance-server/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())

	// Device-facing API, authenticated per request by user_id + passkey.
	api := h.Group("/api")
	api.Use(middleware.GeneralRateLimitMiddleware())
	{
		api.POST("/auth/verify", handler.VerifyPasskey)

		checkin := api.Group("/checkin")
		{
			checkin.POST("/sync", handler.SyncCheckins)
			checkin.POST("/count", handler.CheckCount)
			checkin.POST("/full-sync", handler.FullSync)
		}

		api.POST("/sessions/daily", handler.GetDailySessions)
		api.POST("/stats/monthly", handler.GetMonthlyStats)
	}

	admin := h.Group("/admin")
	{
		admin.POST("/login", middleware.AdminLoginRateLimitMiddleware(), handler.AdminLogin)

		authed := admin.Group("", middleware.AdminAuthMiddleware())
		{
			authed.POST("/logout", handler.AdminLogout)
			authed.GET("/reconcile/status", handler.ReconcileStatus)
			authed.POST("/reconcile/run", handler.TriggerReconcile)

			// Destructive overrides need the full admin role.
			full := authed.Group("", middleware.RequireAdminRole())
			{
				full.POST("/checkins", handler.AdminCreateCheckin)
				full.DELETE("/checkins/:id", handler.AdminDeleteEvent)
				full.DELETE("/sessions/:id", handler.AdminDeleteSession)
			}
		}
	}
}
