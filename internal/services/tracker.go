package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/healthtracking"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	// размер буфера потока сообщений одной сессии
	trackerBuffer = 32
	// сколько ждать читателя, чтобы передать FlushCompleted
	flushWait = time.Second
)

type activeTracking struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// TrackingService опрашивает сервис трекинга по тикеру и копит валидные значения по сессиям.
type TrackingService struct {
	client    interfaces.HealthTrackingClient
	metrics   *metrics.Metrics
	logger    *zap.Logger
	maxValues int

	mu     sync.Mutex
	active map[string]*activeTracking
	values map[string][]entities.TrackedData
}

func NewTrackingService(client interfaces.HealthTrackingClient, m *metrics.Metrics, maxValues int, logger *zap.Logger) *TrackingService {
	return &TrackingService{
		client:    client,
		metrics:   m,
		logger:    logger,
		maxValues: maxValues,
		active:    make(map[string]*activeTracking),
		values:    make(map[string][]entities.TrackedData),
	}
}

// StartTracking запускает опрос пульса для сессии. Собранные ранее значения сбрасываются.
// Поток закрывается после FlushCompleted при остановке.
func (s *TrackingService) StartTracking(ctx context.Context, conn *entities.ConnectionInfo, interval time.Duration) (<-chan entities.TrackerMessage, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("интервал опроса должен быть положительным, получено %v", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[conn.SessionID]; exists {
		return nil, apperrors.NewAppError(apperrors.ErrTrackingActive,
			fmt.Sprintf("трекинг для сессии '%s' уже запущен", conn.SessionID), nil)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	tracking := &activeTracking{cancel: cancel, done: make(chan struct{})}
	out := make(chan entities.TrackerMessage, trackerBuffer)

	s.active[conn.SessionID] = tracking
	s.values[conn.SessionID] = nil
	s.metrics.ActiveSessions.Inc()

	go s.run(runCtx, conn, interval, out, tracking.done)
	return out, nil
}

func (s *TrackingService) run(ctx context.Context, conn *entities.ConnectionInfo, interval time.Duration, out chan<- entities.TrackerMessage, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("запуск трекинга пульса",
		zap.String("session_id", conn.SessionID),
		zap.String("endpoint", conn.Config.EndpointURL),
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.flush(conn.SessionID, out)
			s.logger.Info("трекинг пульса остановлен", zap.String("session_id", conn.SessionID))
			return
		case <-ticker.C:
			s.poll(ctx, conn, out)
		}
	}
}

func (s *TrackingService) poll(ctx context.Context, conn *entities.ConnectionInfo, out chan<- entities.TrackerMessage) {
	samples, err := s.client.FetchHeartRate(ctx, conn.Config.EndpointURL)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("ошибка получения пульса", zap.String("session_id", conn.SessionID), zap.Error(err))
		s.emit(ctx, out, entities.TrackerMessage{Type: entities.TrackerError, Error: err.Error()})
		return
	}

	for _, sample := range samples {
		data, ok := healthtracking.ToTrackedData(sample)
		if !ok {
			s.metrics.SamplesDropped.Inc()
			s.logger.Debug("невалидный статус пульса",
				zap.String("session_id", conn.SessionID), zap.Int("hr_status", sample.HRStatus))
			continue
		}
		s.metrics.SamplesTracked.Inc()
		s.appendValue(conn.SessionID, data)

		value := data
		if !s.emit(ctx, out, entities.TrackerMessage{Type: entities.TrackerData, Data: &value}) {
			return
		}
	}
}

func (s *TrackingService) flush(sessionID string, out chan<- entities.TrackerMessage) {
	timer := time.NewTimer(flushWait)
	defer timer.Stop()
	select {
	case out <- entities.TrackerMessage{Type: entities.TrackerFlushCompleted}:
	case <-timer.C:
		s.logger.Warn("поток не вычитан, FlushCompleted не доставлен", zap.String("session_id", sessionID))
	}
}

// emit возвращает false, если трекинг остановлен раньше, чем сообщение было принято.
func (s *TrackingService) emit(ctx context.Context, out chan<- entities.TrackerMessage, msg entities.TrackerMessage) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *TrackingService) appendValue(sessionID string, data entities.TrackedData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := append(s.values[sessionID], data)
	if len(values) > s.maxValues {
		values = values[len(values)-s.maxValues:]
	}
	s.values[sessionID] = values
}

// StopTracking останавливает трекинг и дожидается завершения опроса.
// Отсутствие активного трекинга ошибкой не считается.
func (s *TrackingService) StopTracking(sessionID string) error {
	s.mu.Lock()
	tracking, exists := s.active[sessionID]
	if exists {
		delete(s.active, sessionID)
		s.metrics.ActiveSessions.Dec()
	}
	s.mu.Unlock()

	if !exists {
		return nil
	}
	tracking.cancel()
	<-tracking.done
	return nil
}

func (s *TrackingService) StopAll() {
	s.mu.Lock()
	sessions := make([]string, 0, len(s.active))
	for sessionID := range s.active {
		sessions = append(sessions, sessionID)
	}
	s.mu.Unlock()

	s.logger.Info("остановка всех процессов трекинга", zap.Int("sessions", len(sessions)))
	for _, sessionID := range sessions {
		_ = s.StopTracking(sessionID)
	}
}

func (s *TrackingService) IsTracking(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.active[sessionID]
	return exists
}

// Values возвращает копию собранных значений сессии.
func (s *TrackingService) Values(sessionID string) []entities.TrackedData {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.values[sessionID]
	out := make([]entities.TrackedData, len(values))
	copy(out, values)
	return out
}
