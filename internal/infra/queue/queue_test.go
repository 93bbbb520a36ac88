package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockChannel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, msg)
	return args.Error(0)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, event *entity.Event) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

// fakeAck registra o que o worker respondeu ao broker.
type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAck) Reject(tag uint64, requeue bool) error { return f.Nack(tag, false, requeue) }

func testEvent(t *testing.T) *entity.Event {
	t.Helper()
	e, err := entity.NewEvent(entity.EventLeadStatusChanged, "u-1", map[string]string{"old_status": "novo", "new_status": "qualificado"})
	require.NoError(t, err)
	return e
}

func TestProducer_Publish(t *testing.T) {
	ch := new(MockChannel)
	event := testEvent(t)

	ch.On("PublishWithContext", mock.Anything, ExchangeName, "lead.status_changed",
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got entity.Event
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				msg.MessageId == event.ID &&
				json.Unmarshal(msg.Body, &got) == nil &&
				got.UserID == "u-1" && got.Name == entity.EventLeadStatusChanged
		})).Return(nil).Once()

	p := &RabbitMQProducer{Ch: ch}
	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := (&RabbitMQProducer{Ch: ch}).Publish(context.Background(), testEvent(t))
	assert.ErrorContains(t, err, "channel closed")
}

func TestWorker_Handle(t *testing.T) {
	event := testEvent(t)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("sucesso dá ack", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("Dispatch", mock.Anything, mock.MatchedBy(func(e *entity.Event) bool {
			return e.ID == event.ID && e.Name == event.Name
		})).Return(2, nil).Once()

		ack := &fakeAck{}
		(&Worker{Dispatcher: d}).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
		assert.True(t, ack.acked)
		d.AssertExpectations(t)
	})

	t.Run("json inválido vai para a DLQ", func(t *testing.T) {
		d := new(MockDispatcher)
		ack := &fakeAck{}
		(&Worker{Dispatcher: d}).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
		d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("erro de banco reenfileira uma vez", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("Dispatch", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

		ack := &fakeAck{}
		(&Worker{Dispatcher: d}).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeued)

		ack = &fakeAck{}
		(&Worker{Dispatcher: d}).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: true})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})
}
