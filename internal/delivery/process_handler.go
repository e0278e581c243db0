package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/answer"
	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	"github.com/Vovarama1992/kpd_assistant/internal/format"
	"github.com/go-playground/validator/v10"
)

const defaultRole = "default"

type Answerer interface {
	Answer(ctx context.Context, question string) (answer.Resolved, error)
}

type ProcessHandler struct {
	assistant Answerer
	notifier  error_notificator.Notificator
	validate  *validator.Validate
	log       *logger.ZapLogger
}

func NewProcessHandler(assistant Answerer, notifier error_notificator.Notificator, log *logger.ZapLogger) *ProcessHandler {
	return &ProcessHandler{
		assistant: assistant,
		notifier:  notifier,
		validate:  newValidator(),
		log:       log,
	}
}

type processRequest struct {
	Text  *string `json:"text" validate:"required,notblank"`
	Email *string `json:"email" validate:"required,kpdemail"`
	Role  *string `json:"role" validate:"omitnil,oneof=заказчик гип инженер наблюдатель"`
}

type processData struct {
	ProcessedText string `json:"processed_text"`
	Email         string `json:"email"`
	Role          string `json:"role"`
}

func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid json: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "info",
			Message: fmt.Sprintf("[process] rejected requestID=%s", reqID),
			Service: "api",
			Error:   err,
		})
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	res, err := h.assistant.Answer(r.Context(), *req.Text)
	if err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: fmt.Sprintf("[process] pipeline fail requestID=%s", reqID),
			Service: "api",
			Error:   err,
		})
		if h.notifier != nil {
			_ = h.notifier.Notify(r.Context(), "api.process", err, "requestID="+reqID)
		}
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	role := defaultRole
	if req.Role != nil {
		role = *req.Role
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[process] ok requestID=%s matched=%t", reqID, res.Matched),
		Service: "api",
	})

	writeJSON(w, http.StatusOK, envelope{
		Status: "success",
		Data: processData{
			ProcessedText: *req.Text,
			Email:         *req.Email,
			Role:          role,
		},
		Message: format.Plain(res),
	})
}
