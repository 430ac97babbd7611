package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/users/pkg/httpcontext"
)

// Logging writes one entry line and one exit line per request. The exit line is deferred,
// so it is written for panicking handlers as well.
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			reqID := FallbackRequestID
			started := time.Now().UTC()
			if rc := httpcontext.FromRequest(ctx); rc != nil {
				reqID = rc.RequestID
				started = rc.ArrivedAt
			}

			log := logger.With(
				zap.String("method", string(ctx.Method())),
				zap.String("path", string(ctx.Path())),
				zap.String("request_id", reqID),
			)
			log.Info("request started", zap.Time("timestamp", started))

			defer func() {
				if rec := recover(); rec != nil {
					log.Error("request finished",
						zap.Int("status", fasthttp.StatusInternalServerError),
						zap.Duration("duration", time.Since(started)),
						zap.Any("panic", rec))
					panic(rec)
				}
				log.Info("request finished",
					zap.Int("status", ctx.Response.StatusCode()),
					zap.Duration("duration", time.Since(started)))
			}()

			next(ctx)
		}
	}
}
