package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/OrderTrack/internal/config"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	_, ok := ctx.Deadline()
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg, deadline: ok})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNew(t *testing.T) {
	at := time.Date(2025, 8, 20, 12, 0, 0, 0, time.FixedZone("ALA", 5*3600))
	e := New(TypeShipped, []string{"ORD-2", "ORD-1"}, "Shipped", at)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, []string{"ORD-1", "ORD-2"}, e.OrderIDs)
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.True(t, e.OccurredAt.Equal(at))
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "order_events", time.Second)

	e := New(TypeDeleted, []string{"ORD-1"}, "", time.Now())
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.calls, 1)
	call := ch.calls[0]
	assert.Equal(t, "order_events", call.exchange)
	assert.Equal(t, TypeDeleted, call.key)
	assert.True(t, call.deadline, "publish should carry a timeout")
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, e.ID, call.msg.MessageId)

	var got Event
	require.NoError(t, json.Unmarshal(call.msg.Body, &got))
	assert.Equal(t, e.OrderIDs, got.OrderIDs)
	assert.Equal(t, TypeDeleted, got.Type)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newAMQPPublisher(ch, "x", 0)

	err := p.Publish(context.Background(), New(TypeImported, nil, "", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeImported)
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "x", time.Second)
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, New(TypeShipped, []string{"A"}, "Shipped", time.Now())))
	require.NoError(t, r.Publish(ctx, New(TypeDeleted, []string{"B"}, "", time.Now())))

	got := r.Events()
	require.Len(t, got, 2)
	assert.Equal(t, TypeShipped, got[0].Type)
	assert.Equal(t, TypeDeleted, got[1].Type)
}

func TestOpen_NoURLIsNoop(t *testing.T) {
	p, err := Open(config.EventsConfig{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{}))
}
