package handler

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/users/api/transport"
	"github.com/fastygo/users/internal/infrastructure/monitor"
	"github.com/fastygo/users/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if h.monitor.IsOnline() {
		h.respondSuccess(ctx, http.StatusOK, "service healthy", h.monitor.GetStatus())
		return
	}
	status := h.monitor.GetStatus()
	h.respondJSON(ctx, transport.NewError(transport.ResultUnavailable,
		"dependencies unhealthy: "+strings.Join(status.Failing(), ","), http.StatusServiceUnavailable))
}
