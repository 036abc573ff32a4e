package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/practice-service/internal/errs"
	"github.com/cwrk-planet/practice-service/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func ErrorMsg(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}

// Error выбирает статус по классу ошибки. Внутренние ошибки логируются
// с местом вызова, клиенту уходит только общее сообщение.
func Error(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := errs.ToHTTP(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(ctx).ErrorContext(ctx, op+" failed", slog.Any("err", err))
	}
	ErrorMsg(w, status, errs.Message(err))
}
