package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// harness liga os usecases do pipeline a um SQLite em memória.
type harness struct {
	db            *database.DB
	leads         *database.LeadRepository
	activities    *database.ActivityRepository
	rules         *database.AutomationRuleRepository
	notifications *database.NotificationRepository
	settings      *database.NotificationSettingsRepository

	recorder *usecase.ActivityRecorder
	events   *MockEventPublisher
	metrics  *recordingMetrics

	create    *usecase.CreateLeadUseCase
	update    *usecase.UpdateLeadUseCase
	remove    *usecase.DeleteLeadUseCase
	query     *usecase.LeadQueryUseCase
	move      *usecase.MoveLeadUseCase
	kanban    *usecase.KanbanUseCase
	ruleUC    *usecase.AutomationRuleUseCase
	dashboard *usecase.DashboardUseCase
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDBConnection(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithLeads(t, nil)
}

// newHarnessWithLeads permite embrulhar o repositório de leads usado pelo executor.
func newHarnessWithLeads(t *testing.T, wrap func(*database.LeadRepository) entity.LeadRepositoryInterface) *harness {
	t.Helper()
	db := newTestDB(t)

	h := &harness{
		db:            db,
		leads:         database.NewLeadRepository(db),
		activities:    database.NewActivityRepository(db),
		rules:         database.NewAutomationRuleRepository(db),
		notifications: database.NewNotificationRepository(db),
		settings:      database.NewNotificationSettingsRepository(db),
		events:        new(MockEventPublisher),
		metrics:       &recordingMetrics{},
	}
	h.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	var executorLeads entity.LeadRepositoryInterface = h.leads
	if wrap != nil {
		executorLeads = wrap(h.leads)
	}
	h.recorder = usecase.NewActivityRecorder(h.activities)
	executor := usecase.NewActionExecutor(executorLeads, h.recorder)
	engine := usecase.NewAutomationEngine(h.rules, executor, h.recorder, 200*time.Millisecond, h.metrics)
	notifier := usecase.NewNotifier(h.notifications, h.settings)

	h.create = usecase.NewCreateLeadUseCase(h.leads, h.recorder, engine, h.events, notifier)
	h.update = usecase.NewUpdateLeadUseCase(h.leads, h.recorder, engine, h.events, notifier, h.metrics)
	h.remove = usecase.NewDeleteLeadUseCase(h.leads, h.recorder, h.events)
	h.query = usecase.NewLeadQueryUseCase(h.leads, h.recorder)
	h.move = usecase.NewMoveLeadUseCase(h.leads, h.recorder, engine, h.events, notifier, h.metrics)
	h.kanban = usecase.NewKanbanUseCase(h.leads)
	h.ruleUC = usecase.NewAutomationRuleUseCase(h.rules)
	h.dashboard = usecase.NewDashboardUseCase(h.leads, h.recorder)
	return h
}

func asUser(role entity.Role) context.Context {
	return usecase.WithPrincipal(context.Background(), usecase.Principal{
		UserID: "user-" + string(role),
		Email:  string(role) + "@ligue.crm",
		Role:   role,
	})
}

func (h *harness) createLead(t *testing.T, title string, status entity.LeadStatus, value float64) *entity.Lead {
	t.Helper()
	lead, err := h.create.Execute(asUser(entity.RoleUser), usecase.LeadInput{
		Title:  title,
		Status: status,
		Value:  &value,
	})
	require.NoError(t, err)
	return lead
}

func (h *harness) createRule(t *testing.T, name string, trigger entity.LeadStatus, action entity.ActionKind, params map[string]string) *entity.AutomationRule {
	t.Helper()
	rule, err := h.ruleUC.Create(asUser(entity.RoleManager), usecase.CreateRuleInput{
		Name:          name,
		TriggerStatus: trigger,
		Action:        action,
		ActionParams:  params,
	})
	require.NoError(t, err)
	return rule
}

func (h *harness) activitiesOf(t *testing.T, leadID string, kind entity.ActivityKind) []*entity.Activity {
	t.Helper()
	all, err := h.activities.ListByLead(context.Background(), leadID)
	require.NoError(t, err)
	var out []*entity.Activity
	for _, a := range all {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
