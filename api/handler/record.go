package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/questforge/backend/api/transport"
	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/pkg/httpcontext"
	"github.com/questforge/backend/usecase/engine"
	trackerUC "github.com/questforge/backend/usecase/tracker"
)

// RecordHandler covers the auxiliary record collections: mood entries,
// important dates, knowledge questions and settings.
type RecordHandler struct {
	baseHandler
	uc *trackerUC.UseCase
}

func NewRecordHandler(uc *trackerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Record a mood check-in
// @Tags records
// @Router /api/v1/records/mood [post]
func (h *RecordHandler) AddMood(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.MoodEntryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.AddMoodEntry(stdCtx, userID, engine.AddMoodEntry{Mood: req.Mood, Note: req.Note})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, state)
}

// @Summary Delete a mood record
// @Tags records
// @Router /api/v1/records/mood/{id} [delete]
func (h *RecordHandler) DeleteMood(ctx *fasthttp.RequestCtx) {
	h.deleteByID(ctx, func(id string) engine.Action { return engine.DeleteMoodEntry{ID: id} })
}

// @Summary Add an important date
// @Tags records
// @Router /api/v1/records/dates [post]
func (h *RecordHandler) AddImportantDate(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ImportantDateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.AddImportantDate(stdCtx, userID, engine.AddImportantDate{
		Title:    req.Title,
		Date:     req.Date,
		Category: req.Category,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, state)
}

// @Summary Delete an important date
// @Tags records
// @Router /api/v1/records/dates/{id} [delete]
func (h *RecordHandler) DeleteImportantDate(ctx *fasthttp.RequestCtx) {
	h.deleteByID(ctx, func(id string) engine.Action { return engine.DeleteImportantDate{ID: id} })
}

// @Summary Add a knowledge question
// @Tags records
// @Router /api/v1/records/questions [post]
func (h *RecordHandler) AddQuestion(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.QuestionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.AddQuestion(stdCtx, userID, engine.AddQuestion{Text: req.Text, Answer: req.Answer})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, state)
}

// @Summary Delete a knowledge question
// @Tags records
// @Router /api/v1/records/questions/{id} [delete]
func (h *RecordHandler) DeleteQuestion(ctx *fasthttp.RequestCtx) {
	h.deleteByID(ctx, func(id string) engine.Action { return engine.DeleteQuestion{ID: id} })
}

// @Summary Update settings
// @Tags records
// @Router /api/v1/settings [put]
func (h *RecordHandler) UpdateSettings(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.SettingsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.UpdateSettings(stdCtx, userID, domain.Settings{
		Theme:         req.Theme,
		Notifications: req.Notifications,
		WeekStartsOn:  req.WeekStartsOn,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

func (h *RecordHandler) deleteByID(ctx *fasthttp.RequestCtx, build func(id string) engine.Action) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing record id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.Apply(stdCtx, userID, build(id))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}
