package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type NotificationHandler struct {
	NotificationUC *usecase.NotificationUseCase
	SettingsUC     *usecase.NotificationSettingsUseCase
}

func NewNotificationHandler(uc *usecase.NotificationUseCase, settings *usecase.NotificationSettingsUseCase) *NotificationHandler {
	return &NotificationHandler{NotificationUC: uc, SettingsUC: settings}
}

// List aceita ?skip=&limit=&unread_only=true.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread_only"))

	items, err := h.NotificationUC.List(r.Context(), entity.NotificationFilter{
		UnreadOnly: unreadOnly,
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.NotificationUC.Count(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationUC.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationUC.MarkAllRead(r.Context()); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

func (h *NotificationHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsUC.Get(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings aceita só os campos que mudam.
func (h *NotificationHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input usecase.NotificationSettingsInput
	if !decodeJSON(w, r, &input) {
		return
	}
	settings, err := h.SettingsUC.Update(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
