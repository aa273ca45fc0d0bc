package consumers

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/config"
	"github.com/LaibaFaraz/HealMind/internal/domain/entities"

	"github.com/segmentio/kafka-go"
)

// nodeHeader - заголовок с идентификатором узла-отправителя
const nodeHeader = "node"

// MessageReader - часть kafka.Reader, которую использует консьюмер
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer читает сообщения часов из топика и переводит их в entities.Message
type KafkaConsumer struct {
	reader MessageReader
}

func NewKafkaConsumer(cfg *config.AppConfig) *KafkaConsumer {
	return NewConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}))
}

func NewConsumer(reader MessageReader) *KafkaConsumer {
	return &KafkaConsumer{reader: reader}
}

// ReadMessage блокируется до следующего сообщения. Ключ сообщения - путь.
func (c *KafkaConsumer) ReadMessage(ctx context.Context) (entities.Message, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return entities.Message{}, err
	}

	out := entities.Message{Path: string(msg.Key), Payload: msg.Value}
	for _, h := range msg.Headers {
		if h.Key == nodeHeader {
			out.Node = string(h.Value)
		}
	}
	return out, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
