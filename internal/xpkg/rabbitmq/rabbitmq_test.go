package rabbitmq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type declaredQueue struct {
	name string
	args amqp.Table
}

type fakeChannel struct {
	exchanges []string
	queues    []declaredQueue
	bindings  map[string]string
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.queues = append(f.queues, declaredQueue{name: name, args: args})
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	if f.bindings == nil {
		f.bindings = map[string]string{}
	}
	f.bindings[name] = exchange
	return nil
}

func TestDeclareTopologyParksDeadLetters(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, declareTopology(ch))

	assert.Contains(t, ch.exchanges, OrdersExchange)
	assert.Contains(t, ch.exchanges, StatusExchange)
	assert.Contains(t, ch.exchanges, DeadLetterExchange)

	var statusArgs amqp.Table
	dlxDeclaredFirst := false
	for _, q := range ch.queues {
		if q.name == DeadLetterQueue {
			dlxDeclaredFirst = statusArgs == nil
		}
		if q.name == StatusQueue {
			statusArgs = q.args
		}
	}
	require.NotNil(t, statusArgs)
	assert.Equal(t, DeadLetterExchange, statusArgs["x-dead-letter-exchange"])
	assert.True(t, dlxDeclaredFirst, "dead-letter queue must exist before the queue that references it")

	assert.Equal(t, DeadLetterExchange, ch.bindings[DeadLetterQueue])
	assert.Equal(t, StatusExchange, ch.bindings[StatusQueue])
}
