package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *DB
}

func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, title, company, contact_name, email, phone, status, tags, notes, value,
	priority, source, assigned_to, created_by, position, next_follow_up, expected_close_date,
	follow_up_notified_at, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	tags, err := encodeTags(lead.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Title,
		lead.Company,
		lead.ContactName,
		lead.Email,
		lead.Phone,
		string(lead.Status),
		tags,
		lead.Notes,
		lead.Value,
		string(lead.Priority),
		lead.Source,
		lead.AssignedTo,
		lead.CreatedBy,
		lead.Position,
		lead.NextFollowUp,
		lead.ExpectedCloseDate,
		lead.FollowUpNotifiedAt,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	tags, err := encodeTags(lead.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE leads SET
			title = ?, company = ?, contact_name = ?, email = ?, phone = ?, status = ?,
			tags = ?, notes = ?, value = ?, priority = ?, source = ?, assigned_to = ?,
			position = ?, next_follow_up = ?, expected_close_date = ?,
			follow_up_notified_at = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.DB.ExecContext(ctx, query,
		lead.Title,
		lead.Company,
		lead.ContactName,
		lead.Email,
		lead.Phone,
		string(lead.Status),
		tags,
		lead.Notes,
		lead.Value,
		string(lead.Priority),
		lead.Source,
		lead.AssignedTo,
		lead.Position,
		lead.NextFollowUp,
		lead.ExpectedCloseDate,
		lead.FollowUpNotifiedAt,
		lead.UpdatedAt,
		lead.ID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar lead: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover lead: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.AssignedTo != "" {
		where = append(where, "assigned_to = ?")
		args = append(args, filter.AssignedTo)
	}
	if filter.CreatedFrom != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.CreatedFrom.UTC())
	}
	if filter.CreatedTo != nil {
		where = append(where, "created_at <= ?")
		args = append(args, filter.CreatedTo.UTC())
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	return r.query(ctx, query, args...)
}

func (r *LeadRepository) ListByStatus(ctx context.Context, status entity.LeadStatus) ([]*entity.Lead, error) {
	return r.query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE status = ? ORDER BY position, created_at, id`,
		string(status),
	)
}

// MaxPosition devolve (0, false) quando a coluna está vazia.
func (r *LeadRepository) MaxPosition(ctx context.Context, status entity.LeadStatus) (int, bool, error) {
	var last sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT MAX(position) FROM leads WHERE status = ?`, string(status)).Scan(&last)
	if err != nil {
		return 0, false, fmt.Errorf("erro ao calcular posição: %w", err)
	}
	if !last.Valid {
		return 0, false, nil
	}
	return int(last.Int64), true, nil
}

// MoveToPosition grava o lead na coluna status em position e empurra uma casa
// para baixo quem já ocupava position ou depois. Posição além do fim da coluna
// vira o fim. Devolve a posição gravada.
func (r *LeadRepository) MoveToPosition(ctx context.Context, id string, status entity.LeadStatus, position int, updatedAt time.Time) (int, error) {
	final := position
	err := r.DB.WithTx(ctx, func(tx *Tx) error {
		var last sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT MAX(position) FROM leads WHERE status = ? AND id <> ?`,
			string(status), id,
		).Scan(&last)
		if err != nil {
			return fmt.Errorf("erro ao calcular posição: %w", err)
		}

		end := 0
		if last.Valid {
			end = int(last.Int64) + 1
		}
		if final < 0 || final > end {
			final = end
		}

		if final < end {
			_, err := tx.ExecContext(ctx,
				`UPDATE leads SET position = position + 1 WHERE status = ? AND position >= ? AND id <> ?`,
				string(status), final, id,
			)
			if err != nil {
				return fmt.Errorf("erro ao abrir espaço na coluna: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = ?, position = ?, updated_at = ? WHERE id = ?`,
			string(status), final, updatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("erro ao mover lead: %w", err)
		}
		return checkAffected(res, entity.ErrNotFound)
	})
	if err != nil {
		return 0, err
	}
	return final, nil
}

// SetNextFollowUp também zera o aviso de follow-up já enviado.
func (r *LeadRepository) SetNextFollowUp(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET next_follow_up = ?, follow_up_notified_at = NULL, updated_at = ? WHERE id = ?`,
		at, entity.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("erro ao agendar follow-up: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

// ListFollowUpsDue lista leads abertos com follow-up vencido e ainda não avisado.
func (r *LeadRepository) ListFollowUpsDue(ctx context.Context, now time.Time) ([]*entity.Lead, error) {
	return r.query(ctx,
		`SELECT `+leadColumns+` FROM leads
		WHERE next_follow_up IS NOT NULL
		  AND next_follow_up <= ?
		  AND follow_up_notified_at IS NULL
		  AND status NOT IN (?, ?)
		ORDER BY next_follow_up`,
		now.UTC(), string(entity.StatusWon), string(entity.StatusLost),
	)
}

func (r *LeadRepository) MarkFollowUpNotified(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET follow_up_notified_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("erro ao marcar follow-up: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *LeadRepository) AggregateByStatus(ctx context.Context) ([]entity.StatusAggregate, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(value), 0) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar leads: %w", err)
	}
	defer rows.Close()

	var out []entity.StatusAggregate
	for rows.Next() {
		var (
			agg    entity.StatusAggregate
			status string
		)
		if err := rows.Scan(&status, &agg.Count, &agg.Value); err != nil {
			return nil, err
		}
		agg.Status = entity.LeadStatus(status)
		out = append(out, agg)
	}
	return out, rows.Err()
}

func (r *LeadRepository) TopSources(ctx context.Context, limit int) ([]entity.SourceAggregate, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT source, COUNT(*) AS total, COALESCE(SUM(value), 0)
		FROM leads
		GROUP BY source
		ORDER BY total DESC, source
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar origens: %w", err)
	}
	defer rows.Close()

	var out []entity.SourceAggregate
	for rows.Next() {
		var agg entity.SourceAggregate
		if err := rows.Scan(&agg.Source, &agg.Count, &agg.TotalValue); err != nil {
			return nil, err
		}
		if agg.Source == "" {
			agg.Source = "unknown"
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

func (r *LeadRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*entity.Lead, error) {
	return r.query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE created_at >= ? ORDER BY created_at`,
		since.UTC(),
	)
}

func (r *LeadRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		lead                          entity.Lead
		status, priority, tags        string
		followUp, closeDate, notified sql.NullTime
	)
	err := s.Scan(
		&lead.ID,
		&lead.Title,
		&lead.Company,
		&lead.ContactName,
		&lead.Email,
		&lead.Phone,
		&status,
		&tags,
		&lead.Notes,
		&lead.Value,
		&priority,
		&lead.Source,
		&lead.AssignedTo,
		&lead.CreatedBy,
		&lead.Position,
		&followUp,
		&closeDate,
		&notified,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Status = entity.LeadStatus(status)
	lead.Priority = entity.Priority(priority)
	lead.NextFollowUp = timePtr(followUp)
	lead.ExpectedCloseDate = timePtr(closeDate)
	lead.FollowUpNotifiedAt = timePtr(notified)
	lead.CreatedAt = lead.CreatedAt.UTC()
	lead.UpdatedAt = lead.UpdatedAt.UTC()

	lead.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &lead.Tags); err != nil {
			return nil, fmt.Errorf("tags inválidas no lead %s: %w", lead.ID, err)
		}
	}
	return &lead, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar tags: %w", err)
	}
	return string(b), nil
}
