package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CalendarHandler struct {
	CalendarUC *usecase.CalendarUseCase
}

func NewCalendarHandler(uc *usecase.CalendarUseCase) *CalendarHandler {
	return &CalendarHandler{CalendarUC: uc}
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CalendarEventInput
	if !decodeJSON(w, r, &input) {
		return
	}
	event, err := h.CalendarUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.CalendarUC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
