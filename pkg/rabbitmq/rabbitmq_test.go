package rabbitmq_test

import (
	"encoding/json"
	"errors"
	"testing"

	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue bool
}

func (r *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	r.acked = append(r.acked, tag)
	return nil
}

func (r *recordingAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	r.nacked = append(r.nacked, tag)
	r.requeue = requeue
	return nil
}

func (r *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return nil
}

func TestNewMessage(t *testing.T) {
	msg, err := rabbitmq.NewMessage("order.created", map[string]interface{}{"order_id": 4})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "order.created", msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.EqualValues(t, 4, body["order_id"])
}

func TestNewMessage_UnmarshalablePayload(t *testing.T) {
	_, err := rabbitmq.NewMessage("order.created", make(chan int))
	assert.Error(t, err)
}

func TestHandleDelivery(t *testing.T) {
	ack := &recordingAcknowledger{}

	rabbitmq.HandleDelivery(amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}, func(amqp.Delivery) error {
		return nil
	})
	rabbitmq.HandleDelivery(amqp.Delivery{Acknowledger: ack, DeliveryTag: 2}, func(amqp.Delivery) error {
		return errors.New("boom")
	})

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestNewClient_RequiresQueue(t *testing.T) {
	_, err := rabbitmq.NewClient(rabbitmq.Config{URL: "amqp://localhost"})
	assert.Error(t, err)
}
