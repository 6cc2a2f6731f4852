package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/response"
)

// GetDailySessions returns one day's sessions plus its summary.
// POST /api/sessions/daily
func GetDailySessions(ctx context.Context, c *app.RequestContext) {
	var req dto.DailySessionsRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := authenticateDevice(ctx, req.UserID, req.Passkey); err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Stats().DailySessions(ctx, req.UserID, req.Date)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetMonthlyStats returns per-day attendance flags for a month.
// POST /api/stats/monthly
func GetMonthlyStats(ctx context.Context, c *app.RequestContext) {
	var req dto.MonthlyStatsRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := authenticateDevice(ctx, req.UserID, req.Passkey); err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Stats().MonthlyStats(ctx, req.UserID, req.Year, req.Month)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
