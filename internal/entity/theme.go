package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Success       string `json:"success"`
	Warning       string `json:"warning"`
	Danger        string `json:"danger"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
}

func DefaultThemeColors() ThemeColors {
	return ThemeColors{
		Primary:       "#3b82f6",
		Secondary:     "#6b7280",
		Success:       "#10b981",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Background:    "#f8fafc",
		Surface:       "#ffffff",
		TextPrimary:   "#1e293b",
		TextSecondary: "#64748b",
	}
}

// Theme guarda a personalização visual de um usuário; no máximo um ativo por usuário.
type Theme struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	Colors       ThemeColors `json:"colors"`
	LogoBase64   string      `json:"logo_base64,omitempty"`
	FontFamily   string      `json:"font_family"`
	FontSizeBase string      `json:"font_size_base"`
	BorderRadius string      `json:"border_radius"`
	DarkMode     bool        `json:"is_dark_mode"`
	Active       bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewDefaultTheme(userID string) *Theme {
	now := Now()
	return &Theme{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         "Custom Theme",
		Colors:       DefaultThemeColors(),
		FontFamily:   "Inter, system-ui, sans-serif",
		FontSizeBase: "14px",
		BorderRadius: "0.5rem",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewTheme(userID, name string) *Theme {
	t := NewDefaultTheme(userID)
	if n := strings.TrimSpace(name); n != "" {
		t.Name = n
	}
	return t
}

type ThemeRepositoryInterface interface {
	Create(ctx context.Context, t *Theme) error
	FindByID(ctx context.Context, userID, id string) (*Theme, error)
	FindActive(ctx context.Context, userID string) (*Theme, error)
	ListByUser(ctx context.Context, userID string) ([]*Theme, error)
	Update(ctx context.Context, t *Theme) error
	DeactivateAll(ctx context.Context, userID string) error
	Activate(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, id string) error
}
