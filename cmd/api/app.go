package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/ratelimit"
	"github.com/xavierca1/ligue-crm/internal/infra/webhook"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var newHasher = func() usecase.PasswordHasher { return auth.NewBcryptHasher() }

// app guarda o que o serve precisa subir e fechar.
type app struct {
	Router http.Handler

	db         *database.DB
	rabbit     *queue.RabbitMQ
	redis      *redis.Client
	limiter    *ratelimit.MemoryLimiter
	async      *webhook.AsyncPublisher
	dispatcher *webhook.Dispatcher
	followUp   *worker.FollowUpWorker
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func buildApp(ctx context.Context, cfg config.Config, version string) (*app, error) {
	log := logger.L
	a := &app{}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	activityRepo := database.NewActivityRepository(db)
	ruleRepo := database.NewAutomationRuleRepository(db)
	userRepo := database.NewUserRepository(db)
	webhookRepo := database.NewWebhookRepository(db)
	themeRepo := database.NewThemeRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	settingsRepo := database.NewNotificationSettingsRepository(db)
	calendarRepo := database.NewCalendarEventRepository(db)

	// 2. Adapters
	metrics := middleware.CRMMetrics{}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	sender := webhook.NewSender(webhookRepo, metrics)
	a.dispatcher = webhook.NewDispatcher(webhookRepo, sender)
	events, err := a.eventPublisher(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	limiter, err := a.loginLimiter(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var mailer usecase.EmailService = mail.LogSender{Log: log}
	if cfg.Mail.Host != "" {
		mailer = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)
	} else {
		log.Warn("MAIL_HOST não configurado, emails de boas-vindas só vão para o log")
	}

	// 3. UseCases
	recorder := usecase.NewActivityRecorder(activityRepo)
	executor := usecase.NewActionExecutor(leadRepo, recorder)
	engine := usecase.NewAutomationEngine(ruleRepo, executor, recorder, cfg.Automation.ActionTimeout, metrics)
	notifier := usecase.NewNotifier(notificationRepo, settingsRepo)

	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, recorder, engine, events, notifier)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, recorder, engine, events, notifier, metrics)
	deleteLeadUC := usecase.NewDeleteLeadUseCase(leadRepo, recorder, events)
	queryLeadUC := usecase.NewLeadQueryUseCase(leadRepo, recorder)
	moveLeadUC := usecase.NewMoveLeadUseCase(leadRepo, recorder, engine, events, notifier, metrics)
	authUC := usecase.NewAuthUseCase(userRepo, newHasher(), tokens, events, mailer)

	a.followUp = worker.NewFollowUpWorker(
		usecase.NewFollowUpReminderUseCase(leadRepo, notifier),
		cfg.Automation.FollowUpInterval,
	)

	// 4. Health: dependências ausentes entram como nil de interface.
	var rabbitState handlers.ConnState
	if a.rabbit != nil {
		rabbitState = a.rabbit.Conn
	}
	var redisPing handlers.Pinger
	if a.redis != nil {
		redisPing = handlers.RedisPinger(a.redis)
	}
	health := handlers.NewHealthHandler(db, rabbitState, redisPing)
	health.Version = version

	// 5. Router
	a.Router = handlers.NewRouter(handlers.RouterConfig{
		CORSOrigins:   cfg.Server.CORSOrigins,
		Tokens:        tokens,
		LoginLimiter:  limiter,
		Auth:          handlers.NewAuthHandler(authUC),
		Leads:         handlers.NewLeadHandler(createLeadUC, updateLeadUC, deleteLeadUC, queryLeadUC),
		Kanban:        handlers.NewKanbanHandler(usecase.NewKanbanUseCase(leadRepo), moveLeadUC),
		Automation:    handlers.NewAutomationHandler(usecase.NewAutomationRuleUseCase(ruleRepo)),
		Dashboard:     handlers.NewDashboardHandler(usecase.NewDashboardUseCase(leadRepo, recorder)),
		Reports:       handlers.NewReportHandler(usecase.NewReportsUseCase(leadRepo)),
		Calendar:      handlers.NewCalendarHandler(usecase.NewCalendarUseCase(calendarRepo, leadRepo, recorder)),
		Webhooks:      handlers.NewWebhookHandler(usecase.NewWebhookUseCase(webhookRepo, sender)),
		Themes:        handlers.NewThemeHandler(usecase.NewThemeUseCase(themeRepo)),
		Notifications: handlers.NewNotificationHandler(usecase.NewNotificationUseCase(notificationRepo), usecase.NewNotificationSettingsUseCase(settingsRepo)),
		Health:        health,
	})
	return a, nil
}

// eventPublisher usa o RabbitMQ quando configurado; sem fila, despacha em goroutine.
func (a *app) eventPublisher(cfg config.Config, log *slog.Logger) (usecase.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		log.Warn("RABBITMQ_URL não configurado, webhooks despachados no próprio processo")
		a.async = webhook.NewAsyncPublisher(a.dispatcher)
		return a.async, nil
	}

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	a.rabbit = rabbit
	return queue.NewProducer(rabbit.Ch), nil
}

func (a *app) loginLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (ratelimit.Limiter, error) {
	if cfg.Redis.URL == "" {
		a.limiter = ratelimit.NewMemoryLimiter(cfg.Auth.LoginLimit, cfg.Auth.LoginWindow)
		return a.limiter, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	a.redis = client
	log.Info("rate limit de login no Redis")
	return ratelimit.NewRedisLimiter(client, "crm:ratelimit", cfg.Auth.LoginLimit, cfg.Auth.LoginWindow), nil
}

// StartBackground sobe o worker de follow-up e, com RabbitMQ, o consumidor de webhooks.
func (a *app) StartBackground(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.followUp.Start(ctx)
	}()

	if a.rabbit == nil {
		return
	}

	consumerCh, err := a.rabbit.Conn.Channel()
	if err != nil {
		logger.L.Error("falha ao abrir canal do consumidor", "error", err)
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer consumerCh.Close()
		w := queue.NewWorker(consumerCh, a.dispatcher)
		if err := w.Start(ctx, queue.QueueName); err != nil && !errors.Is(err, context.Canceled) {
			logger.L.Error("consumidor de webhooks parou", "error", err)
		}
	}()
}

func (a *app) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	if a.async != nil {
		a.async.Wait()
	}

	var errs []error
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.rabbit != nil {
		errs = append(errs, a.rabbit.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("erro ao fechar dependências: %w", err)
	}
	return nil
}
