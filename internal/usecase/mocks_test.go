package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Names devolve os nomes dos eventos publicados, em ordem.
func (m *MockEventPublisher) Names() []entity.WebhookEvent {
	var out []entity.WebhookEvent
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			out = append(out, call.Arguments.Get(1).(*entity.Event).Name)
		}
	}
	return out
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

// MockWebhookSender
type MockWebhookSender struct {
	mock.Mock
}

func (m *MockWebhookSender) Send(ctx context.Context, w *entity.Webhook, event *entity.Event) (*entity.WebhookLog, error) {
	args := m.Called(ctx, w, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookLog), args.Error(1)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *entity.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(to, name string) error {
	args := m.Called(to, name)
	return args.Error(0)
}

// plainHasher guarda a senha com prefixo; suficiente para testar o fluxo.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// recordingMetrics conta moves e ações por resultado.
type recordingMetrics struct {
	moves   int
	actions map[entity.ActionKind][]bool
}

func (r *recordingMetrics) ObserveMove(entity.LeadStatus, entity.LeadStatus) {
	r.moves++
}

func (r *recordingMetrics) ObserveAction(kind entity.ActionKind, ok bool) {
	if r.actions == nil {
		r.actions = map[entity.ActionKind][]bool{}
	}
	r.actions[kind] = append(r.actions[kind], ok)
}
