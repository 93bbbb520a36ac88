package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AutomationRuleRepository struct {
	DB *DB
}

func NewAutomationRuleRepository(db *DB) *AutomationRuleRepository {
	return &AutomationRuleRepository{DB: db}
}

const ruleColumns = `id, name, trigger_status, action, action_params, is_active, created_by, created_at`

func (r *AutomationRuleRepository) Create(ctx context.Context, rule *entity.AutomationRule) error {
	params, err := json.Marshal(rule.Action.Params())
	if err != nil {
		return fmt.Errorf("erro ao serializar parâmetros: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO automation_rules (`+ruleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID,
		rule.Name,
		string(rule.TriggerStatus),
		string(rule.Action.Kind),
		string(params),
		rule.Enabled,
		rule.CreatedBy,
		rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar regra: %w", err)
	}
	return nil
}

func (r *AutomationRuleRepository) FindByID(ctx context.Context, id string) (*entity.AutomationRule, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM automation_rules WHERE id = ?`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar regra: %w", err)
	}
	return rule, nil
}

func (r *AutomationRuleRepository) ListByCreator(ctx context.Context, userID string) ([]*entity.AutomationRule, error) {
	return r.query(ctx,
		`SELECT `+ruleColumns+` FROM automation_rules WHERE created_by = ? ORDER BY created_at, id`,
		userID)
}

func (r *AutomationRuleRepository) ListEnabledByTrigger(ctx context.Context, status entity.LeadStatus) ([]*entity.AutomationRule, error) {
	return r.query(ctx,
		`SELECT `+ruleColumns+` FROM automation_rules
		WHERE trigger_status = ? AND is_active = ?
		ORDER BY created_at, id`,
		string(status), true)
}

func (r *AutomationRuleRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE automation_rules SET is_active = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("erro ao alterar regra: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *AutomationRuleRepository) query(ctx context.Context, query string, args ...any) ([]*entity.AutomationRule, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar regras: %w", err)
	}
	defer rows.Close()

	out := []*entity.AutomationRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func scanRule(s scanner) (*entity.AutomationRule, error) {
	var (
		rule                  entity.AutomationRule
		trigger, kind, params string
	)
	if err := s.Scan(&rule.ID, &rule.Name, &trigger, &kind, &params, &rule.Enabled, &rule.CreatedBy, &rule.CreatedAt); err != nil {
		return nil, err
	}

	decoded := map[string]string{}
	if params != "" {
		if err := json.Unmarshal([]byte(params), &decoded); err != nil {
			return nil, fmt.Errorf("parâmetros inválidos na regra %s: %w", rule.ID, err)
		}
	}
	rule.TriggerStatus = entity.LeadStatus(trigger)
	rule.Action = entity.DecodeAction(entity.ActionKind(kind), decoded)
	rule.CreatedAt = rule.CreatedAt.UTC()
	return &rule, nil
}
