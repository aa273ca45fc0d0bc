package interfaces

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// DataProducer определяет контракт для отправки данных во внешние системы (например, Kafka)
type DataProducer interface {
	Produce(ctx context.Context, key, value []byte, headers map[string]string) error
	Close() error
}

// MessageConsumer определяет контракт чтения входящих сообщений
type MessageConsumer interface {
	ReadMessage(ctx context.Context) (entities.Message, error)
	Close() error
}
