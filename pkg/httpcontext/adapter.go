package httpcontext

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/users/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyOrigin     Key = "origin"
	KeyArrivedAt  Key = "arrived_at"
)

const userValueKey = "httpcontext.request"

// RequestContext is the per-request metadata stamped by the middleware chain.
// It lives on a single fasthttp.RequestCtx and is never shared across requests.
type RequestContext struct {
	RequestID string
	ArrivedAt time.Time
	Origin    string
}

// Elapsed returns the time since the request arrived.
func (rc *RequestContext) Elapsed() time.Duration {
	if rc == nil || rc.ArrivedAt.IsZero() {
		return 0
	}
	return time.Since(rc.ArrivedAt)
}

// Store attaches rc to the fasthttp request.
func Store(ctx *fasthttp.RequestCtx, rc *RequestContext) {
	ctx.SetUserValue(userValueKey, rc)
}

// FromRequest returns the RequestContext stamped on ctx, or nil before the chain ran.
func FromRequest(ctx *fasthttp.RequestCtx) *RequestContext {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.UserValue(userValueKey).(*RequestContext)
	return rc
}

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	if rc := FromRequest(ctx); rc != nil {
		stdCtx = appLogger.ContextWithRequestID(stdCtx, rc.RequestID)
		stdCtx = context.WithValue(stdCtx, KeyArrivedAt, rc.ArrivedAt)
		if rc.Origin != "" {
			stdCtx = context.WithValue(stdCtx, KeyOrigin, rc.Origin)
		}
	}

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}
