package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReminder
type MockReminder struct {
	mock.Mock
}

func (m *MockReminder) Execute(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestFollowUpWorker_RunsImmediatelyAndOnTick(t *testing.T) {
	reminder := new(MockReminder)
	calls := make(chan struct{}, 10)
	reminder.On("Execute", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case calls <- struct{}{}:
			default:
			}
		}).
		Return(1, nil)

	w := NewFollowUpWorker(reminder, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("execução %d não aconteceu", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker não parou com o cancelamento")
	}
}

func TestFollowUpWorker_ErrorDoesNotStop(t *testing.T) {
	reminder := new(MockReminder)
	reminder.On("Execute", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	reminder.On("Execute", mock.Anything, mock.Anything).Return(0, nil)

	w := NewFollowUpWorker(reminder, time.Hour)
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	w.tick(context.Background())
	w.tick(context.Background())

	reminder.AssertNumberOfCalls(t, "Execute", 2)
	reminder.AssertCalled(t, "Execute", mock.Anything, fixed)
}

func TestNewFollowUpWorker_DefaultInterval(t *testing.T) {
	w := NewFollowUpWorker(new(MockReminder), 0)
	assert.Equal(t, time.Minute, w.tickInterval)
}
