package services

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"go.uber.org/zap"
)

// NodeHeader - заголовок сообщения с идентификатором узла-отправителя
const NodeHeader = "node"

// MessageService отправляет сообщения подключённым узлам через DataProducer.
type MessageService struct {
	producer interfaces.DataProducer
	nodeID   string
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewMessageService(producer interfaces.DataProducer, nodeID string, m *metrics.Metrics, logger *zap.Logger) *MessageService {
	return &MessageService{
		producer: producer,
		nodeID:   nodeID,
		metrics:  m,
		logger:   logger,
	}
}

// SendMessage публикует payload по пути path. Путь используется как ключ сообщения.
func (s *MessageService) SendMessage(ctx context.Context, path string, payload []byte) error {
	err := s.producer.Produce(ctx, []byte(path), payload, map[string]string{NodeHeader: s.nodeID})
	if err != nil {
		s.metrics.MessagesSent.WithLabelValues("error").Inc()
		s.logger.Warn("не удалось отправить сообщение", zap.String("path", path), zap.Error(err))
		return apperrors.NewAppError(apperrors.ErrMessageSend, "не удалось отправить сообщение по пути "+path, err)
	}
	s.metrics.MessagesSent.WithLabelValues("ok").Inc()
	s.logger.Info("сообщение отправлено", zap.String("path", path), zap.Int("bytes", len(payload)))
	return nil
}
