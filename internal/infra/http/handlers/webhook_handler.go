package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// WebhookHandler gerencia os webhooks de saída do usuário autenticado.
type WebhookHandler struct {
	WebhookUC *usecase.WebhookUseCase
}

func NewWebhookHandler(uc *usecase.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{WebhookUC: uc}
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.WebhookInput
	if !decodeJSON(w, r, &input) {
		return
	}

	hook, err := h.WebhookUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hook)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.WebhookUC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hooks)
}

func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	hook, err := h.WebhookUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateWebhookInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")

	hook, err := h.WebhookUC.Update(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.WebhookUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook deleted successfully"})
}

func (h *WebhookHandler) Test(w http.ResponseWriter, r *http.Request) {
	log, err := h.WebhookUC.Test(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *WebhookHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	logs, err := h.WebhookUC.Logs(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
