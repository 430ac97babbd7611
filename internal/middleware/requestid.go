package middleware

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/users/pkg/httpcontext"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderProxyTime = "X-Proxy-Time"

	// FallbackRequestID is used when no identifier can be generated; tagging never blocks a request.
	FallbackRequestID = "no-id"

	// MaxRequestIDLength bounds inbound identifiers; longer ones are replaced.
	MaxRequestIDLength = 128
)

// newUUID is swapped in tests to simulate generator failures.
var newUUID = uuid.NewRandom

// RequestID tags every request with a correlation identifier and an arrival timestamp and
// creates its RequestContext. An inbound X-Request-ID of at most MaxRequestIDLength bytes is
// reused so traces survive hops.
func RequestID() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			arrived := time.Now().UTC()

			reqID := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
			if reqID == "" || len(reqID) > MaxRequestIDLength {
				reqID = shortRequestID()
			}

			ctx.Request.Header.Set(HeaderRequestID, reqID)
			ctx.Request.Header.Set(HeaderProxyTime, arrived.Format(time.RFC3339Nano))
			ctx.Response.Header.Set(HeaderRequestID, reqID)

			httpcontext.Store(ctx, &httpcontext.RequestContext{
				RequestID: reqID,
				ArrivedAt: arrived,
				Origin:    string(ctx.Request.Header.Peek(fasthttp.HeaderOrigin)),
			})

			next(ctx)
		}
	}
}

// shortRequestID keeps the first three dash-separated groups of a random UUID.
func shortRequestID() string {
	id, err := newUUID()
	if err != nil {
		return FallbackRequestID
	}
	parts := strings.SplitN(id.String(), "-", 4)
	if len(parts) < 3 {
		return FallbackRequestID
	}
	return strings.Join(parts[:3], "-")
}
