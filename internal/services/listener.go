package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/healthtracking"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// пауза после ошибки чтения, чтобы не крутить цикл вхолостую
const listenRetryDelay = time.Second

// DataListener - телефонная сторона: принимает сообщения /msg и сохраняет измерения.
type DataListener struct {
	consumer interfaces.MessageConsumer
	repo     interfaces.SampleRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewDataListener(consumer interfaces.MessageConsumer, repo interfaces.SampleRepository, m *metrics.Metrics, logger *zap.Logger) *DataListener {
	return &DataListener{
		consumer: consumer,
		repo:     repo,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Run читает сообщения до отмены ctx.
func (l *DataListener) Run(ctx context.Context) error {
	l.logger.Info("слушатель сообщений запущен")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				l.logger.Info("слушатель сообщений остановлен")
				return nil
			}
			l.logger.Warn("ошибка чтения сообщения", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(listenRetryDelay):
			}
			continue
		}
		l.OnMessageReceived(ctx, msg)
	}
}

// OnMessageReceived обрабатывает одно сообщение и возвращает число сохранённых измерений.
// Ошибки разбора и записи логируются и не прерывают обработку.
func (l *DataListener) OnMessageReceived(ctx context.Context, msg entities.Message) int {
	value := string(msg.Payload)
	l.logger.Info("сообщение получено", zap.String("path", msg.Path), zap.String("node", msg.Node))

	if msg.Path != entities.MessagePath {
		return 0
	}
	if value == "" {
		l.logger.Info("пустой payload в сообщении " + entities.MessagePath)
		return 0
	}

	values, err := healthtracking.ParseTrackedDataList(msg.Payload)
	if err != nil {
		l.logger.Error("ошибка разбора данных", zap.Error(err))
		return 0
	}

	stored := 0
	for _, data := range values {
		if err := healthtracking.ValidateTrackedData(data); err != nil {
			l.metrics.SamplesDropped.Inc()
			l.logger.Warn("значение пропущено", zap.Error(err))
			continue
		}
		sample := entities.StoredSample{
			ID:        uuid.New().String(),
			HR:        data.HR,
			IBI:       data.IBI,
			Timestamp: l.now().UTC(),
		}
		if err := l.repo.SaveSample(ctx, sample); err != nil {
			l.logger.Warn("ошибка записи измерения", zap.Error(err))
			continue
		}
		stored++
		l.metrics.SamplesIngested.Inc()
		l.logger.Debug("измерение сохранено", zap.String("id", sample.ID))
	}

	l.logger.Info(fmt.Sprintf("сохранено %d из %d измерений", stored, len(values)))
	return stored
}
