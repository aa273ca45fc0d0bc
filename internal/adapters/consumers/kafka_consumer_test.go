package consumers

import (
	"context"
	"testing"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	messages []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestKafkaConsumer_ReadMessage(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{
		Key:     []byte(entities.MessagePath),
		Value:   []byte(`[{"hr":70,"ibi":[800]}]`),
		Headers: []kafka.Header{{Key: "trace", Value: []byte("x")}, {Key: "node", Value: []byte("wear")}},
	}}}
	c := NewConsumer(reader)

	msg, err := c.ReadMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.Message{
		Path:    entities.MessagePath,
		Node:    "wear",
		Payload: []byte(`[{"hr":70,"ibi":[800]}]`),
	}, msg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ReadMessage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
