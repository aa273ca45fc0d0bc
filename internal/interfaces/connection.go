package interfaces

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// ConnectionService определяет контракт для управления пулом подключений к сервису трекинга.
type ConnectionService interface {
	CreateConnection(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error)
	GetConnection(sessionID string) (*entities.ConnectionInfo, bool)
	GetAllConnections() []*entities.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(ctx context.Context, sessionID string) (*entities.ConnectionInfo, error)
	Capabilities(ctx context.Context, sessionID string) (entities.TrackingCapabilities, error)
}

// HealthTrackingClient определяет контракт клиента сервиса трекинга на устройстве.
type HealthTrackingClient interface {
	FetchCapabilities(ctx context.Context, endpointURL string) (entities.TrackingCapabilities, error)
	FetchHeartRate(ctx context.Context, endpointURL string) ([]entities.HeartRateSample, error)
}
