package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ThemeRepository struct {
	DB *DB
}

func NewThemeRepository(db *DB) *ThemeRepository {
	return &ThemeRepository{DB: db}
}

const themeColumns = `id, user_id, name, colors, logo_base64, font_family, font_size_base, border_radius,
	is_dark_mode, is_active, created_at, updated_at`

func (r *ThemeRepository) Create(ctx context.Context, t *entity.Theme) error {
	colors, err := json.Marshal(t.Colors)
	if err != nil {
		return fmt.Errorf("erro ao serializar cores: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO themes (`+themeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, string(colors), t.LogoBase64, t.FontFamily, t.FontSizeBase,
		t.BorderRadius, t.DarkMode, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar tema: %w", err)
	}
	return nil
}

func (r *ThemeRepository) FindByID(ctx context.Context, userID, id string) (*entity.Theme, error) {
	return r.findOne(ctx, `SELECT `+themeColumns+` FROM themes WHERE user_id = ? AND id = ?`, userID, id)
}

func (r *ThemeRepository) FindActive(ctx context.Context, userID string) (*entity.Theme, error) {
	return r.findOne(ctx,
		`SELECT `+themeColumns+` FROM themes WHERE user_id = ? AND is_active = ? ORDER BY updated_at DESC LIMIT 1`,
		userID, true)
}

func (r *ThemeRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Theme, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+themeColumns+` FROM themes WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar temas: %w", err)
	}
	defer rows.Close()

	out := []*entity.Theme{}
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ThemeRepository) Update(ctx context.Context, t *entity.Theme) error {
	colors, err := json.Marshal(t.Colors)
	if err != nil {
		return fmt.Errorf("erro ao serializar cores: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE themes SET name = ?, colors = ?, logo_base64 = ?, font_family = ?, font_size_base = ?,
			border_radius = ?, is_dark_mode = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`,
		t.Name, string(colors), t.LogoBase64, t.FontFamily, t.FontSizeBase, t.BorderRadius, t.DarkMode,
		t.UpdatedAt, t.UserID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar tema: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *ThemeRepository) DeactivateAll(ctx context.Context, userID string) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE themes SET is_active = ? WHERE user_id = ?`, false, userID); err != nil {
		return fmt.Errorf("erro ao desativar temas: %w", err)
	}
	return nil
}

func (r *ThemeRepository) Activate(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE themes SET is_active = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		true, entity.Now(), userID, id)
	if err != nil {
		return fmt.Errorf("erro ao ativar tema: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *ThemeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM themes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover tema: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *ThemeRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Theme, error) {
	t, err := scanTheme(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tema: %w", err)
	}
	return t, nil
}

func scanTheme(s scanner) (*entity.Theme, error) {
	var (
		t      entity.Theme
		colors string
	)
	err := s.Scan(&t.ID, &t.UserID, &t.Name, &colors, &t.LogoBase64, &t.FontFamily, &t.FontSizeBase,
		&t.BorderRadius, &t.DarkMode, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(colors), &t.Colors); err != nil {
		return nil, fmt.Errorf("cores inválidas no tema %s: %w", t.ID, err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
