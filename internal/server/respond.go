package server

import (
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"reviewdeck/internal/apperrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, apperrors.CodeInternal, "internal error")
	}

	var body errorBody
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	writeJSON(w, appErr.HTTPStatus(), body)
}
