package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type KanbanHandler struct {
	BoardUC *usecase.KanbanUseCase
	MoveUC  *usecase.MoveLeadUseCase
}

func NewKanbanHandler(board *usecase.KanbanUseCase, move *usecase.MoveLeadUseCase) *KanbanHandler {
	return &KanbanHandler{BoardUC: board, MoveUC: move}
}

type MoveResponse struct {
	*usecase.MoveLeadOutput
	Board []usecase.KanbanColumn `json:"board"`
}

func (h *KanbanHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.BoardUC.Board(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Move devolve o resultado do move junto com o board já atualizado.
func (h *KanbanHandler) Move(w http.ResponseWriter, r *http.Request) {
	var input usecase.MoveLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.MoveUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	board, err := h.BoardUC.Board(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{MoveLeadOutput: out, Board: board})
}
