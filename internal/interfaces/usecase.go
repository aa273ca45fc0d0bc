package interfaces

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// MakeConnectionUsecase устанавливает подключение к сервису трекинга
type MakeConnectionUsecase interface {
	Connect(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error)
	Disconnect(sessionID string) error
}

// SendMessageUsecase отправляет собранные значения на телефон
type SendMessageUsecase interface {
	Send(ctx context.Context, sessionID string) (bool, error)
}

// StopTrackingUsecase останавливает активный трекинг
type StopTrackingUsecase interface {
	Stop(sessionID string) error
}

// CapabilitiesUsecase проверяет доступность трекинга пульса на устройстве
type CapabilitiesUsecase interface {
	AreAvailable(ctx context.Context, sessionID string) (bool, error)
}

// TrackHeartRateUsecase запускает поток измерений пульса
type TrackHeartRateUsecase interface {
	Track(ctx context.Context, sessionID string) (<-chan entities.TrackerMessage, error)
}

// ConnectionsUsecase - управление пулом подключений для HTTP API
type ConnectionsUsecase interface {
	GetAllConnections() []*entities.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(ctx context.Context, sessionID string) (*entities.ConnectionInfo, error)
}

// StressUsecase - пакетная оценка стресса и чтение результатов
type StressUsecase interface {
	RunStressBatch(ctx context.Context, hours int) (entities.StressSummary, error)
	RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error)
}

// Usecases - это агрегирующий интерфейс для use cases, которые обслуживает HTTP API
type Usecases interface {
	ConnectionsUsecase
	StressUsecase
}

// TrackingViewModel - view-model экрана трекинга, которой управляет HTTP API
type TrackingViewModel interface {
	SetUpTracking(ctx context.Context, req entities.ConnectionRequest) (entities.ViewModelState, error)
	StartTracking(ctx context.Context) error
	StopTracking() error
	SendMessage(ctx context.Context) (bool, error)
	State() entities.ViewModelState
}
