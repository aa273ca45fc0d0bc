package services

import (
	"context"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/interfaces"

	"go.uber.org/zap"
)

// StressScheduler периодически запускает пакетную оценку стресса.
type StressScheduler struct {
	stress   interfaces.StressService
	interval time.Duration
	hours    int
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewStressScheduler(stress interfaces.StressService, interval time.Duration, hours int, logger *zap.Logger) *StressScheduler {
	return &StressScheduler{
		stress:   stress,
		interval: interval,
		hours:    hours,
		logger:   logger,
	}
}

// Start запускает расписание. Повторный вызов ничего не делает.
func (s *StressScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("расписание оценки стресса запущено", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.stress.RunBatch(ctx, s.hours); err != nil && ctx.Err() == nil {
					s.logger.Error("ошибка пакетной оценки стресса", zap.Error(err))
				}
			}
		}
	}(s.done)
}

// Stop останавливает расписание и дожидается текущего запуска.
func (s *StressScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("расписание оценки стресса остановлено")
}
