package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadStatus é a coluna do pipeline onde o lead está.
type LeadStatus string

const (
	StatusNew         LeadStatus = "novo"
	StatusQualified   LeadStatus = "qualificado"
	StatusProposal    LeadStatus = "proposta"
	StatusNegotiation LeadStatus = "negociacao"
	StatusWon         LeadStatus = "fechado_ganho"
	StatusLost        LeadStatus = "fechado_perdido"
)

// PipelineStatuses é a ordem fixa das colunas do kanban.
var PipelineStatuses = []LeadStatus{
	StatusNew,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusWon,
	StatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, st := range PipelineStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

var (
	ErrLeadTitleRequired = errors.New("title is required")
	ErrNegativeValue     = errors.New("value must not be negative")
	ErrInvalidPriority   = errors.New("priority must be low, medium or high")
	ErrInvalidStatus     = errors.New("status is not a pipeline status")
)

type Lead struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Company            string     `json:"company"`
	ContactName        string     `json:"contact_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Status             LeadStatus `json:"status"`
	Tags               []string   `json:"tags"`
	Notes              string     `json:"notes"`
	Value              float64    `json:"value"`
	Priority           Priority   `json:"priority"`
	Source             string     `json:"source"`
	AssignedTo         string     `json:"assigned_to"`
	CreatedBy          string     `json:"created_by"`
	Position           int        `json:"position"`
	NextFollowUp       *time.Time `json:"next_follow_up,omitempty"`
	ExpectedCloseDate  *time.Time `json:"expected_close_date,omitempty"`
	FollowUpNotifiedAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewLead aplica os defaults (status novo, prioridade média) e valida.
func NewLead(title string, status LeadStatus, priority Priority, value float64, createdBy string) (*Lead, error) {
	if status == "" {
		status = StatusNew
	}
	if priority == "" {
		priority = PriorityMedium
	}
	now := Now()
	lead := &Lead{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Status:    status,
		Priority:  priority,
		Value:     value,
		Tags:      []string{},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrLeadTitleRequired
	}
	if l.Value < 0 {
		return ErrNegativeValue
	}
	if !l.Status.Valid() {
		return ErrInvalidStatus
	}
	if !l.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// NormalizeTags apara espaços e descarta vazias e repetidas, mantendo a primeira ocorrência.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

type LeadFilter struct {
	Status     LeadStatus
	Priority   Priority
	AssignedTo string
	// CreatedFrom e CreatedTo são inclusivos; nil não limita.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StatusAggregate é uma linha do agrupamento por status do dashboard.
type StatusAggregate struct {
	Status LeadStatus
	Count  int
	Value  float64
}

type SourceAggregate struct {
	Source     string
	Count      int
	TotalValue float64
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	// ListByStatus devolve a coluna ordenada por position, created_at.
	ListByStatus(ctx context.Context, status LeadStatus) ([]*Lead, error)
	MaxPosition(ctx context.Context, status LeadStatus) (int, bool, error)
	// MoveToPosition abre espaço na coluna e devolve a posição efetiva.
	MoveToPosition(ctx context.Context, id string, status LeadStatus, position int, updatedAt time.Time) (int, error)
	SetNextFollowUp(ctx context.Context, id string, at time.Time) error
	ListFollowUpsDue(ctx context.Context, now time.Time) ([]*Lead, error)
	MarkFollowUpNotified(ctx context.Context, id string, at time.Time) error

	AggregateByStatus(ctx context.Context) ([]StatusAggregate, error)
	TopSources(ctx context.Context, limit int) ([]SourceAggregate, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*Lead, error)
}
