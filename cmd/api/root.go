package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newRootCmd(version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:     "crm",
		Short:   "Ligue CRM - pipeline kanban com automações",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(version), newMigrateCmd(), newSeedCmd())
	return root
}

// loadConfig carrega config e inicializa o logger global; comum a todos os subcomandos.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func openDB(ctx context.Context, cfg config.Config) (*database.DB, error) {
	db, err := database.NewDBConnection(cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no banco: %w", err)
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao rodar migrations: %w", err)
	}
	return db, nil
}

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP, o consumidor de webhooks e o worker de follow-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx, cfg, version)
			if err != nil {
				return err
			}
			defer app.Close()

			app.StartBackground(ctx)

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           app.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.L.Info("servidor CRM rodando", "addr", cfg.Server.Addr, "version", version)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.L.Info("encerrando servidor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Cria ou atualiza o schema do banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations aplicadas (%s)\n", cfg.DB.Driver)
			return nil
		},
	}
}

var seedUsers = []usecase.RegisterInput{
	{Email: "admin@crm.com", Name: "Admin User", Password: "admin123", Role: entity.RoleAdmin},
	{Email: "manager@crm.com", Name: "Manager User", Password: "manager123", Role: entity.RoleManager},
	{Email: "user@crm.com", Name: "Regular User", Password: "user123", Role: entity.RoleUser},
}

// newSeedCmd cria os usuários de exemplo; rodar de novo não duplica.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Cria os usuários admin, manager e user de exemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			authUC := usecase.NewAuthUseCase(database.NewUserRepository(db), newHasher(), nil, nil, nil)
			for _, input := range seedUsers {
				user, created, err := authUC.EnsureUser(cmd.Context(), input)
				if err != nil {
					return fmt.Errorf("falha ao criar %s: %w", input.Email, err)
				}
				state := "já existia"
				if created {
					state = "criado"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-18s %s\n", user.Role, user.Email, state)
			}
			return nil
		},
	}
}
