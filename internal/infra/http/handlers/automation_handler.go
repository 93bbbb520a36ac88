package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AutomationHandler struct {
	RulesUC *usecase.AutomationRuleUseCase
}

func NewAutomationHandler(uc *usecase.AutomationRuleUseCase) *AutomationHandler {
	return &AutomationHandler{RulesUC: uc}
}

func (h *AutomationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateRuleInput
	if !decodeJSON(w, r, &input) {
		return
	}

	rule, err := h.RulesUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.RulesUC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *AutomationHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	rule, err := h.RulesUC.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}
