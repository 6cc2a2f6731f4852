package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/response"
)

// SyncCheckins accepts one incremental batch of events.
// POST /api/checkin/sync
func SyncCheckins(ctx context.Context, c *app.RequestContext) {
	var req dto.SyncRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := authenticateDevice(ctx, req.UserID, req.Passkey); err != nil {
		response.Error(ctx, c, err)
		return
	}

	synced, err := service.Sync().Sync(ctx, req.UserID, req.Checkins)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.SyncResponse{SyncedCount: synced})
}

// CheckCount compares the device's local event count with the server's.
// POST /api/checkin/count
func CheckCount(ctx context.Context, c *app.RequestContext) {
	var req dto.CountRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := authenticateDevice(ctx, req.UserID, req.Passkey); err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Sync().CheckCount(ctx, req.UserID, req.LocalCount)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// FullSync returns the complete event history for a device rebuild.
// POST /api/checkin/full-sync
func FullSync(ctx context.Context, c *app.RequestContext) {
	var req dto.FullSyncRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := authenticateDevice(ctx, req.UserID, req.Passkey); err != nil {
		response.Error(ctx, c, err)
		return
	}

	events, err := service.Sync().FullHistory(ctx, req.UserID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, events, map[string]interface{}{
		"count": len(events),
	})
}
