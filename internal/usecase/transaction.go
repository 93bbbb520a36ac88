package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/logger"
)

// Transaction é uma saga simples: se uma operação falha, as compensações das
// operações anteriores rodam em ordem reversa.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
	}
}

// AddOperation registra um passo. Cada operação pode ter no máximo uma
// compensação, registrada logo depois com AddCompensation.
func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
	t.compensations = append(t.compensations, Compensation{})
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	if len(t.compensations) == 0 {
		return
	}
	t.compensations[len(t.compensations)-1] = Compensation{name, fn}
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.compensations[i]
		if comp.Fn == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			logger.FromContext(ctx).Warn("compensação falhou, risco de inconsistência",
				"compensation", comp.Name, "error", err)
		}
	}
}
