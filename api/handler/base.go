package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/users/api/transport"
	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/httpcontext"
	appLogger "github.com/fastygo/users/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, payload transport.Envelope) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		payload = transport.Internal()
		body, _ = json.Marshal(payload)
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(payload.Status)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, message string, data interface{}) {
	code := transport.ResultSuccess
	if status == http.StatusCreated {
		code = transport.ResultCreated
	}
	h.respondJSON(ctx, transport.NewSuccess(code, message, data, status))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	envelope := classify(err)
	if envelope.Status >= http.StatusInternalServerError {
		h.requestLogger(ctx).Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, envelope)
}

func (h baseHandler) requestLogger(ctx *fasthttp.RequestCtx) *zap.Logger {
	if rc := httpcontext.FromRequest(ctx); rc != nil {
		return appLogger.WithRequestID(appLogger.ContextWithRequestID(context.Background(), rc.RequestID), h.logger)
	}
	return h.logger
}

// classify maps a failure into an envelope. Client errors keep their message and declared
// status; anything else becomes a generic 500 so internals never reach the caller.
func classify(err error) transport.Envelope {
	dErr, ok := domain.AsError(err)
	if !ok || dErr.Status < http.StatusBadRequest || dErr.Status >= http.StatusInternalServerError {
		return transport.Internal()
	}
	return transport.NewError(resultCode(dErr.Status), dErr.Message, dErr.Status)
}

func resultCode(status int) transport.ResultCode {
	switch status {
	case http.StatusUnauthorized:
		return transport.ResultUnauthorized
	case http.StatusNotFound:
		return transport.ResultNotFound
	case http.StatusMethodNotAllowed:
		return transport.ResultMethodNotAllowed
	case http.StatusConflict:
		return transport.ResultConflict
	default:
		return transport.ResultBadRequest
	}
}
