package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/ratelimit"
)

type RouterConfig struct {
	CORSOrigins  []string
	Tokens       middleware.TokenParser
	LoginLimiter ratelimit.Limiter

	Auth          *AuthHandler
	Leads         *LeadHandler
	Kanban        *KanbanHandler
	Automation    *AutomationHandler
	Dashboard     *DashboardHandler
	Reports       *ReportHandler
	Calendar      *CalendarHandler
	Webhooks      *WebhookHandler
	Themes        *ThemeHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", cfg.Auth.Register)
		r.With(middleware.RateLimit(cfg.LoginLimiter, "login")).Post("/auth/login", cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.Tokens))

			r.Get("/auth/me", cfg.Auth.Me)
			r.Get("/users", cfg.Auth.Users)

			r.Route("/leads", func(r chi.Router) {
				r.Post("/", cfg.Leads.Create)
				r.Get("/", cfg.Leads.List)
				r.Get("/{id}", cfg.Leads.Get)
				r.Put("/{id}", cfg.Leads.Update)
				r.Delete("/{id}", cfg.Leads.Delete)
				r.Get("/{id}/activities", cfg.Leads.Activities)
			})

			r.Get("/kanban", cfg.Kanban.Board)
			r.Post("/kanban/move", cfg.Kanban.Move)

			r.Post("/automation/rules", cfg.Automation.Create)
			r.Get("/automation/rules", cfg.Automation.List)
			r.Put("/automation/rules/{id}/toggle", cfg.Automation.Toggle)

			r.Get("/dashboard/stats", cfg.Dashboard.Stats)

			r.Get("/reports/stats", cfg.Reports.Stats)
			r.Post("/reports/advanced", cfg.Reports.Advanced)
			r.Post("/reports/export", cfg.Reports.Export)

			r.Post("/calendar/events", cfg.Calendar.Create)
			r.Get("/calendar/events", cfg.Calendar.List)

			r.Route("/webhooks", func(r chi.Router) {
				r.Post("/", cfg.Webhooks.Create)
				r.Get("/", cfg.Webhooks.List)
				r.Get("/{id}", cfg.Webhooks.Get)
				r.Put("/{id}", cfg.Webhooks.Update)
				r.Delete("/{id}", cfg.Webhooks.Delete)
				r.Post("/{id}/test", cfg.Webhooks.Test)
				r.Get("/{id}/logs", cfg.Webhooks.Logs)
			})

			r.Route("/themes", func(r chi.Router) {
				r.Post("/", cfg.Themes.Create)
				r.Get("/", cfg.Themes.List)
				r.Get("/active", cfg.Themes.Active)
				r.Put("/{id}", cfg.Themes.Update)
				r.Post("/{id}/activate", cfg.Themes.Activate)
				r.Delete("/{id}", cfg.Themes.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.Notifications.List)
				r.Get("/count", cfg.Notifications.Count)
				r.Get("/settings", cfg.Notifications.Settings)
				r.Put("/settings", cfg.Notifications.UpdateSettings)
				r.Put("/mark-all-read", cfg.Notifications.MarkAllRead)
				r.Put("/{id}/read", cfg.Notifications.MarkRead)
				r.Delete("/{id}", cfg.Notifications.Delete)
			})
		})
	})

	return r
}
