package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ThemeHandler struct {
	ThemeUC *usecase.ThemeUseCase
}

func NewThemeHandler(uc *usecase.ThemeUseCase) *ThemeHandler {
	return &ThemeHandler{ThemeUC: uc}
}

func (h *ThemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ThemeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	theme, err := h.ThemeUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	themes, err := h.ThemeUC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

func (h *ThemeHandler) Active(w http.ResponseWriter, r *http.Request) {
	theme, err := h.ThemeUC.Active(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.ThemeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	theme, err := h.ThemeUC.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (h *ThemeHandler) Activate(w http.ResponseWriter, r *http.Request) {
	theme, err := h.ThemeUC.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (h *ThemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ThemeUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Theme deleted successfully"})
}
