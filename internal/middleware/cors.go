package middleware

import "github.com/valyala/fasthttp"

const (
	corsAllowMethods = "GET,POST,PUT,DELETE,PATCH"
	corsAllowHeaders = "Content-Type,Authorization"
)

// CORS echoes the caller's Origin back as the allowed origin. Requests without an Origin
// header are treated as same-origin and pass untouched.
func CORS() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if origin := ctx.Request.Header.Peek(fasthttp.HeaderOrigin); len(origin) > 0 {
				ctx.Response.Header.SetBytesV(fasthttp.HeaderAccessControlAllowOrigin, origin)
				ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowMethods, corsAllowMethods)
				ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				ctx.Response.Header.Add(fasthttp.HeaderVary, fasthttp.HeaderOrigin)
			}
			next(ctx)
		}
	}
}
