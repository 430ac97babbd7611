package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/users/api/transport"
	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/httpcontext"
	userUC "github.com/fastygo/users/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.UseCase
}

func NewUserHandler(uc *userUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(ctx *fasthttp.RequestCtx) {
	req, err := transport.DecodeUserRequest(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Create(stdCtx, req.ToPatch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, "user created successfully", user)
}

// List handles GET /users.
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "users fetched successfully", users)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.userID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "user fetched successfully", user)
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.userID(ctx)
	if !ok {
		return
	}

	req, err := transport.DecodeUserRequest(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Update(stdCtx, id, req.ToPatch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "user updated successfully", user)
}

// Delete handles DELETE /users/{id} and returns the removed user.
func (h *UserHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.userID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Delete(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "user deleted successfully", user)
}

// Activate handles PATCH /users/{id}/activate.
func (h *UserHandler) Activate(ctx *fasthttp.RequestCtx) {
	id, ok := h.userID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Activate(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "user activated successfully", user)
}

// Deactivate handles PATCH /users/{id}/deactivate.
func (h *UserHandler) Deactivate(ctx *fasthttp.RequestCtx) {
	id, ok := h.userID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Deactivate(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "user deactivated successfully", user)
}

// userID parses the {id} path parameter and writes a 400 envelope when it is not a positive integer.
func (h *UserHandler) userID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(ctx, domain.Invalid("id must be a positive integer"))
		return 0, false
	}
	return id, true
}
