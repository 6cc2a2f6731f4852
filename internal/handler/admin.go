package handler

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/schedule"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/response"
)

func pathID(c *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// AdminCreateCheckin submits an event on a user's behalf.
// POST /admin/checkins
func AdminCreateCheckin(ctx context.Context, c *app.RequestContext) {
	var req dto.AdminCheckinRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	synced, err := service.Admin().CreateCheckin(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.SyncResponse{SyncedCount: synced})
}

// AdminDeleteEvent removes a raw event and recomputes the day's summary.
// DELETE /admin/checkins/:id
func AdminDeleteEvent(ctx context.Context, c *app.RequestContext) {
	id, ok := pathID(c)
	if !ok {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	if err := service.Admin().DeleteEvent(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// AdminDeleteSession removes a session and recomputes the day's summary.
// DELETE /admin/sessions/:id
func AdminDeleteSession(ctx context.Context, c *app.RequestContext) {
	id, ok := pathID(c)
	if !ok {
		response.Error(ctx, c, errors.SessionNotFound)
		return
	}

	if err := service.Admin().DeleteSession(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// TriggerReconcile runs one time-settings reconcile pass on demand.
// POST /admin/reconcile/run
func TriggerReconcile(ctx context.Context, c *app.RequestContext) {
	inserted, err := schedule.GetReconciler().Run(ctx)
	if err != nil {
		if stderrors.Is(err, errors.ErrReconcilerAlreadyBusy) {
			response.Success(ctx, c, dto.ReconcileResponse{
				Message: "reconcile already in progress",
			})
			return
		}
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.ReconcileResponse{
		SyncedCount: int(inserted),
		Message:     "reconcile completed",
	})
}

// ReconcileStatus reports time-settings coverage.
// GET /admin/reconcile/status
func ReconcileStatus(ctx context.Context, c *app.RequestContext) {
	status, err := service.Reconcile().Status(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}
