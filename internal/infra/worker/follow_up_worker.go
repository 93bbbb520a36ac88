package worker

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/logger"
)

// FollowUpReminder é satisfeito por usecase.FollowUpReminderUseCase.
type FollowUpReminder interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

// FollowUpWorker roda o lembrete de follow-up a cada tick.
type FollowUpWorker struct {
	reminder     FollowUpReminder
	tickInterval time.Duration
	now          func() time.Time
}

func NewFollowUpWorker(reminder FollowUpReminder, interval time.Duration) *FollowUpWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &FollowUpWorker{
		reminder:     reminder,
		tickInterval: interval,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	log := logger.FromContext(ctx).With("worker", "follow_up")
	log.Info("worker de follow-up iniciado", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("worker de follow-up encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *FollowUpWorker) tick(ctx context.Context) {
	log := logger.FromContext(ctx)
	n, err := w.reminder.Execute(ctx, w.now())
	if err != nil {
		log.Error("erro ao buscar follow-ups vencidos", "error", err)
		return
	}
	if n > 0 {
		log.Info("follow-ups notificados", "count", n)
	}
}
