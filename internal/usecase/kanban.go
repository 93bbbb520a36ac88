package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type columnStyle struct {
	Title string
	Color string
}

var columnStyles = map[entity.LeadStatus]columnStyle{
	entity.StatusNew:         {"Novo", "#3B82F6"},
	entity.StatusQualified:   {"Qualificado", "#10B981"},
	entity.StatusProposal:    {"Proposta", "#F59E0B"},
	entity.StatusNegotiation: {"Negociação", "#EF4444"},
	entity.StatusWon:         {"Fechado (Ganho)", "#059669"},
	entity.StatusLost:        {"Fechado (Perdido)", "#6B7280"},
}

type KanbanUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewKanbanUseCase(leads entity.LeadRepositoryInterface) *KanbanUseCase {
	return &KanbanUseCase{Leads: leads}
}

// Board monta sempre as seis colunas na ordem do pipeline; coluna vazia tem lista vazia.
func (uc *KanbanUseCase) Board(ctx context.Context) ([]KanbanColumn, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	board := make([]KanbanColumn, 0, len(entity.PipelineStatuses))
	for _, status := range entity.PipelineStatuses {
		leads, err := uc.Leads.ListByStatus(ctx, status)
		if err != nil {
			return nil, translate(err, "leads")
		}
		if leads == nil {
			leads = []*entity.Lead{}
		}
		style := columnStyles[status]
		board = append(board, KanbanColumn{
			Status: status,
			Title:  style.Title,
			Color:  style.Color,
			Leads:  leads,
		})
	}
	return board, nil
}
