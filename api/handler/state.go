package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/questforge/backend/api/transport"
	"github.com/questforge/backend/pkg/httpcontext"
	trackerUC "github.com/questforge/backend/usecase/tracker"
)

type StateHandler struct {
	baseHandler
	uc *trackerUC.UseCase
}

func NewStateHandler(uc *trackerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Fetch the full state tree
// @Tags state
// @Router /api/v1/state [get]
func (h *StateHandler) GetState(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.GetState(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

// @Summary Reload state from storage
// @Tags state
// @Router /api/v1/state/reload [post]
func (h *StateHandler) Reload(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.Reload(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

// @Summary Dispatch a raw engine action
// @Tags state
// @Router /api/v1/state/actions [post]
func (h *StateHandler) DispatchAction(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ActionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Type == "" {
		h.respondInvalid(ctx, "invalid action payload")
		return
	}

	action, err := transport.DecodeAction(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.Apply(stdCtx, userID, action)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}
