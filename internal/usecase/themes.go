package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ThemeInput struct {
	Name         *string             `json:"name"`
	Colors       *entity.ThemeColors `json:"colors"`
	LogoBase64   *string             `json:"logo_base64"`
	FontFamily   *string             `json:"font_family"`
	FontSizeBase *string             `json:"font_size_base"`
	BorderRadius *string             `json:"border_radius"`
	DarkMode     *bool               `json:"is_dark_mode"`
}

type ThemeUseCase struct {
	Themes entity.ThemeRepositoryInterface
}

func NewThemeUseCase(themes entity.ThemeRepositoryInterface) *ThemeUseCase {
	return &ThemeUseCase{Themes: themes}
}

// Create salva o tema como ativo e desativa o anterior.
func (uc *ThemeUseCase) Create(ctx context.Context, input ThemeInput) (*entity.Theme, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	theme := entity.NewTheme(principal.UserID, name)
	applyTheme(theme, input)

	if err := uc.Themes.DeactivateAll(ctx, principal.UserID); err != nil {
		return nil, translate(err, "theme")
	}
	if err := uc.Themes.Create(ctx, theme); err != nil {
		return nil, translate(err, "theme")
	}
	return theme, nil
}

// Active devolve o tema ativo, criando o padrão na primeira chamada.
func (uc *ThemeUseCase) Active(ctx context.Context) (*entity.Theme, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	theme, err := uc.Themes.FindActive(ctx, principal.UserID)
	if err == nil {
		return theme, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, translate(err, "theme")
	}

	theme = entity.NewDefaultTheme(principal.UserID)
	if err := uc.Themes.Create(ctx, theme); err != nil {
		return nil, translate(err, "theme")
	}
	return theme, nil
}

func (uc *ThemeUseCase) List(ctx context.Context) ([]*entity.Theme, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	themes, err := uc.Themes.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, translate(err, "themes")
	}
	return themes, nil
}

func (uc *ThemeUseCase) Update(ctx context.Context, id string, input ThemeInput) (*entity.Theme, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	theme, err := uc.Themes.FindByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, translate(err, "theme")
	}
	if input.Name != nil {
		if n := strings.TrimSpace(*input.Name); n != "" {
			theme.Name = n
		}
	}
	applyTheme(theme, input)
	theme.UpdatedAt = entity.Now()

	if err := uc.Themes.Update(ctx, theme); err != nil {
		return nil, translate(err, "theme")
	}
	return theme, nil
}

func (uc *ThemeUseCase) Activate(ctx context.Context, id string) (*entity.Theme, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uc.Themes.FindByID(ctx, principal.UserID, id); err != nil {
		return nil, translate(err, "theme")
	}
	if err := uc.Themes.DeactivateAll(ctx, principal.UserID); err != nil {
		return nil, translate(err, "theme")
	}
	if err := uc.Themes.Activate(ctx, principal.UserID, id); err != nil {
		return nil, translate(err, "theme")
	}
	theme, err := uc.Themes.FindByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, translate(err, "theme")
	}
	return theme, nil
}

// Delete recusa apagar o tema ativo.
func (uc *ThemeUseCase) Delete(ctx context.Context, id string) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	theme, err := uc.Themes.FindByID(ctx, principal.UserID, id)
	if err != nil {
		return translate(err, "theme")
	}
	if theme.Active {
		return NewDomainError(CodeValidation, "cannot delete the active theme")
	}
	return translate(uc.Themes.Delete(ctx, id), "theme")
}

func applyTheme(t *entity.Theme, in ThemeInput) {
	if in.Colors != nil {
		t.Colors = *in.Colors
	}
	if in.LogoBase64 != nil {
		t.LogoBase64 = *in.LogoBase64
	}
	if in.FontFamily != nil {
		t.FontFamily = *in.FontFamily
	}
	if in.FontSizeBase != nil {
		t.FontSizeBase = *in.FontSizeBase
	}
	if in.BorderRadius != nil {
		t.BorderRadius = *in.BorderRadius
	}
	if in.DarkMode != nil {
		t.DarkMode = *in.DarkMode
	}
}
