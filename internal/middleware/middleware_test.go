package middleware

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/users/pkg/httpcontext"
)

func newCtx(method, uri string, headers map[string]string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func TestRequestIDReusesInbound(t *testing.T) {
	var seen *httpcontext.RequestContext
	h := RequestID()(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.FromRequest(ctx)
	})

	ctx := newCtx("GET", "/users", map[string]string{HeaderRequestID: "  abc-123  "})
	h(ctx)

	require.NotNil(t, seen)
	assert.Equal(t, "abc-123", seen.RequestID)
	assert.False(t, seen.ArrivedAt.IsZero())
	assert.Equal(t, "abc-123", string(ctx.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "abc-123", string(ctx.Request.Header.Peek(HeaderRequestID)))

	_, err := time.Parse(time.RFC3339Nano, string(ctx.Request.Header.Peek(HeaderProxyTime)))
	assert.NoError(t, err)
}

func TestRequestIDGeneratesShortID(t *testing.T) {
	ctx := newCtx("GET", "/users", nil)
	RequestID()(okHandler)(ctx)

	id := string(ctx.Response.Header.Peek(HeaderRequestID))
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 8)
	assert.Len(t, parts[1], 4)
	assert.Len(t, parts[2], 4)
}

func TestRequestIDRejectsOversizedInbound(t *testing.T) {
	ctx := newCtx("GET", "/users", map[string]string{HeaderRequestID: strings.Repeat("x", MaxRequestIDLength+1)})
	RequestID()(okHandler)(ctx)

	id := string(ctx.Response.Header.Peek(HeaderRequestID))
	assert.Len(t, strings.Split(id, "-"), 3, "replaced by a generated id")

	ctx = newCtx("GET", "/users", map[string]string{HeaderRequestID: strings.Repeat("y", MaxRequestIDLength)})
	RequestID()(okHandler)(ctx)
	assert.Equal(t, strings.Repeat("y", MaxRequestIDLength), string(ctx.Response.Header.Peek(HeaderRequestID)))
}

func TestRequestIDFallback(t *testing.T) {
	original := newUUID
	newUUID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }
	t.Cleanup(func() { newUUID = original })

	called := false
	ctx := newCtx("GET", "/users", nil)
	RequestID()(func(ctx *fasthttp.RequestCtx) { called = true })(ctx)

	assert.True(t, called, "request must still be served")
	assert.Equal(t, FallbackRequestID, string(ctx.Response.Header.Peek(HeaderRequestID)))
}

func TestCORS(t *testing.T) {
	t.Run("echoes origin", func(t *testing.T) {
		ctx := newCtx("GET", "/users", map[string]string{"Origin": "https://app.example.com"})
		CORS()(okHandler)(ctx)

		h := &ctx.Response.Header
		assert.Equal(t, "https://app.example.com", string(h.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
		assert.Equal(t, corsAllowMethods, string(h.Peek(fasthttp.HeaderAccessControlAllowMethods)))
		assert.Equal(t, corsAllowHeaders, string(h.Peek(fasthttp.HeaderAccessControlAllowHeaders)))
		assert.Equal(t, "Origin", string(h.Peek(fasthttp.HeaderVary)))
	})

	t.Run("no origin means no headers", func(t *testing.T) {
		ctx := newCtx("GET", "/users", nil)
		CORS()(okHandler)(ctx)
		assert.Empty(t, ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin))
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	})
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Chain(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusCreated)
	}, RequestID(), Logging(zap.New(core)))

	h(newCtx("POST", "/users", map[string]string{HeaderRequestID: "req-1"}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request started", entries[0].Message)
	assert.Equal(t, "request finished", entries[1].Message)

	started := entries[0].ContextMap()
	assert.Equal(t, "POST", started["method"])
	assert.Equal(t, "/users", started["path"])
	assert.Equal(t, "req-1", started["request_id"])
	assert.Contains(t, started, "timestamp")

	finished := entries[1].ContextMap()
	assert.EqualValues(t, fasthttp.StatusCreated, finished["status"])
	assert.Contains(t, finished, "duration")
}

func TestLoggingPanic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logging(zap.New(core))(func(*fasthttp.RequestCtx) { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() { h(newCtx("GET", "/users", nil)) })

	finished := logs.FilterMessage("request finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, zapcore.ErrorLevel, finished[0].Level)
	assert.EqualValues(t, fasthttp.StatusInternalServerError, finished[0].ContextMap()["status"])
	assert.Equal(t, FallbackRequestID, finished[0].ContextMap()["request_id"])
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name+">")
				next(ctx)
				order = append(order, "<"+name)
			}
		}
	}

	h := Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") },
		mark("a"), nil, mark("b"))
	h(newCtx("GET", "/", nil))

	assert.Equal(t, []string{"a>", "b>", "handler", "<b", "<a"}, order)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTAuth(t *testing.T) {
	const secret = "s3cret"

	t.Run("disabled without secret", func(t *testing.T) {
		ctx := newCtx("POST", "/users", nil)
		JWTAuth("", "", nil)(okHandler)(ctx)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	})

	t.Run("missing token", func(t *testing.T) {
		ctx := newCtx("POST", "/users", nil)
		JWTAuth(secret, "", nil)(okHandler)(ctx)
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"code":401,"message":"missing bearer token","data":null,"status":401}`, string(ctx.Response.Body()))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other", jwt.MapClaims{"sub": "u1"})
		ctx := newCtx("POST", "/users", map[string]string{"Authorization": "Bearer " + token})
		JWTAuth(secret, "", nil)(okHandler)(ctx)
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	})

	t.Run("valid token forwards subject", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "u1",
			"iss": "users",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		var subject string
		ctx := newCtx("POST", "/users", map[string]string{"Authorization": "Bearer " + token})
		JWTAuth(secret, "users", nil)(func(ctx *fasthttp.RequestCtx) {
			subject = string(ctx.Request.Header.Peek(HeaderUserID))
			okHandler(ctx)
		})(ctx)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "u1", subject)
	})

	t.Run("caller supplied user id is dropped", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{"iss": "users"})
		subject := "unset"
		ctx := newCtx("POST", "/users", map[string]string{
			"Authorization": "Bearer " + token,
			HeaderUserID:    "admin",
		})
		JWTAuth(secret, "", nil)(func(ctx *fasthttp.RequestCtx) {
			subject = string(ctx.Request.Header.Peek(HeaderUserID))
			okHandler(ctx)
		})(ctx)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Empty(t, subject)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{"sub": "u1", "iss": "someone-else"})
		ctx := newCtx("POST", "/users", map[string]string{"Authorization": "Bearer " + token})
		JWTAuth(secret, "users", nil)(okHandler)(ctx)
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	})
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics("test")
	h := m.Middleware()(okHandler)

	h(newCtx("GET", "/users", nil))
	h(newCtx("GET", "/users", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "200")))

	ctx := newCtx("GET", "/metrics", nil)
	m.Handler()(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "test_http_requests_total")
}
