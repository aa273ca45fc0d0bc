package interfaces

import (
	"context"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// TrackingService определяет контракт для сервиса, опрашивающего пульс по сессиям
type TrackingService interface {
	StartTracking(ctx context.Context, conn *entities.ConnectionInfo, interval time.Duration) (<-chan entities.TrackerMessage, error)
	StopTracking(sessionID string) error
	StopAll()
	IsTracking(sessionID string) bool
	Values(sessionID string) []entities.TrackedData
}

// MessageSender определяет контракт отправки сообщений подключённым узлам
type MessageSender interface {
	SendMessage(ctx context.Context, path string, payload []byte) error
}

// StressService определяет контракт пакетной оценки стресса
type StressService interface {
	RunBatch(ctx context.Context, hours int) (entities.StressSummary, error)
}
