package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ActivityRepository struct {
	DB *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Append(ctx context.Context, a *entity.Activity) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO activities (id, lead_id, user_id, kind, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.LeadID, a.UserID, string(a.Kind), a.Details, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao registrar atividade: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	return r.query(ctx,
		`SELECT id, lead_id, user_id, kind, details, created_at FROM activities
		WHERE lead_id = ? ORDER BY created_at DESC, id DESC`, leadID)
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	return r.query(ctx,
		`SELECT id, lead_id, user_id, kind, details, created_at FROM activities
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar atividades: %w", err)
	}
	defer rows.Close()

	out := []*entity.Activity{}
	for rows.Next() {
		var (
			a    entity.Activity
			kind string
		)
		if err := rows.Scan(&a.ID, &a.LeadID, &a.UserID, &kind, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = entity.ActivityKind(kind)
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}
