package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	defaultRecentActivities = 10
	maxRecentActivities     = 100
)

// ActivityRecorder é o único caminho de escrita do histórico; entradas nunca são alteradas.
type ActivityRecorder struct {
	Repo entity.ActivityRepositoryInterface
}

func NewActivityRecorder(repo entity.ActivityRepositoryInterface) *ActivityRecorder {
	return &ActivityRecorder{Repo: repo}
}

func (r *ActivityRecorder) Record(ctx context.Context, leadID, userID string, kind entity.ActivityKind, details string) error {
	a := entity.NewActivity(leadID, userID, kind, details)
	if err := r.Repo.Append(ctx, a); err != nil {
		return translate(err, "activity")
	}
	return nil
}

func (r *ActivityRecorder) ForLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	activities, err := r.Repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, translate(err, "activities")
	}
	return activities, nil
}

// Recent limita a [1, 100]; zero ou negativo usa 10.
func (r *ActivityRecorder) Recent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentActivities
	case limit > maxRecentActivities:
		limit = maxRecentActivities
	}
	activities, err := r.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, translate(err, "activities")
	}
	return activities, nil
}
