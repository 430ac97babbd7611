package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/users/api/transport"
)

// FallbackHandler answers requests the route table cannot serve, so even those
// leave the service as envelopes.
type FallbackHandler struct {
	baseHandler
}

func NewFallbackHandler(logger *zap.Logger) *FallbackHandler {
	return &FallbackHandler{baseHandler: newBaseHandler(nil, logger)}
}

func (h *FallbackHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, transport.NewError(transport.ResultNotFound,
		fmt.Sprintf("route %s %s not found", ctx.Method(), ctx.Path()), http.StatusNotFound))
}

func (h *FallbackHandler) MethodNotAllowed(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, transport.NewError(transport.ResultMethodNotAllowed,
		fmt.Sprintf("method %s not allowed on %s", ctx.Method(), ctx.Path()), http.StatusMethodNotAllowed))
}

// Preflight answers OPTIONS requests; CORS headers are already set by the middleware chain.
func (h *FallbackHandler) Preflight(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// Panic converts a recovered handler panic into the internal error envelope.
func (h *FallbackHandler) Panic(ctx *fasthttp.RequestCtx, recovered interface{}) {
	h.requestLogger(ctx).Error("handler panic",
		zap.Any("panic", recovered),
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("path", ctx.Path()),
		zap.Stack("stack"))
	ctx.Response.ResetBody()
	h.respondJSON(ctx, transport.Internal())
}
