package handler

import (
	"context"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	appsync "github.com/orderbridge/backend/internal/application/sync"
	"github.com/orderbridge/backend/internal/interfaces/http/dto"
)

// CycleTrigger runs one on-demand sync pass. Implemented by scheduler.SyncLoop.
type CycleTrigger interface {
	RunOnce(ctx context.Context) (*appsync.CycleReport, error)
}

// ReportSource exposes the most recent cycle report. Implemented by
// sync.SyncService.
type ReportSource interface {
	LastReport() *appsync.CycleReport
}

// SyncHandler exposes the on-demand sync trigger and cycle reporting
type SyncHandler struct {
	BaseHandler
	trigger CycleTrigger
	reports ReportSource

	// running guards against overlapping manual triggers
	running atomic.Bool
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(trigger CycleTrigger, reports ReportSource) *SyncHandler {
	return &SyncHandler{
		trigger: trigger,
		reports: reports,
	}
}

// TriggerSync runs a single sync pass and returns its report.
// Only one manual pass runs at a time; a concurrent request gets a 409.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		h.Error(c, 409, dto.ErrCodeBusy, "a manual sync pass is already running")
		return
	}
	defer h.running.Store(false)

	report, err := h.trigger.RunOnce(c.Request.Context())
	if err != nil {
		h.InternalError(c, "sync pass failed: "+err.Error())
		return
	}

	h.Success(c, report)
}

// GetLastReport returns the most recent cycle report
func (h *SyncHandler) GetLastReport(c *gin.Context) {
	report := h.reports.LastReport()
	if report == nil {
		h.NotFound(c, "no sync cycle has completed yet")
		return
	}
	h.Success(c, report)
}
