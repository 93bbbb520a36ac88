package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	usecase.CodeNotFound:         http.StatusNotFound,
	usecase.CodeInvalidStatus:    http.StatusBadRequest,
	usecase.CodeInvalidParameter: http.StatusBadRequest,
	usecase.CodeValidation:       http.StatusBadRequest,
	usecase.CodeUnauthorized:     http.StatusUnauthorized,
	usecase.CodeForbidden:        http.StatusForbidden,
	usecase.CodeConflict:         http.StatusConflict,
	usecase.CodeEmailTaken:       http.StatusConflict,
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz DomainError pelo Code; qualquer outro erro vira 500 sem detalhes.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	code := "INTERNAL_ERROR"
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Code != "" {
		code = te.Code
	}
	logger.FromContext(r.Context()).Error("erro interno", "error", err, "path", r.URL.Path)
	writeErrorResponse(w, http.StatusInternalServerError, code, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return false
	}
	return true
}

// queryInt lê um inteiro opcional da query string; ausente devolve def.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usecase.NewDomainError(usecase.CodeValidation, "%s must be an integer", key)
	}
	return n, nil
}

// queryTime aceita RFC 3339 ou só a data (meia-noite UTC); ausente devolve nil.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, usecase.NewDomainError(usecase.CodeValidation, "%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", key)
}
