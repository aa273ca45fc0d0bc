package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type ConnectionService struct {
	mu          sync.RWMutex
	pool        map[string]*entities.ConnectionInfo
	client      interfaces.HealthTrackingClient
	trackingSvc interfaces.TrackingService
	capCache    *cache.Cache
	logger      *zap.Logger
}

func NewConnectionService(
	client interfaces.HealthTrackingClient,
	trackingSvc interfaces.TrackingService,
	capabilityTTL time.Duration,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		pool:        make(map[string]*entities.ConnectionInfo),
		client:      client,
		trackingSvc: trackingSvc,
		capCache:    cache.New(capabilityTTL, 2*capabilityTTL),
		logger:      logger,
	}
}

// CreateConnection проверяет новый запрос на подключение и добавляет его в пул.
func (s *ConnectionService) CreateConnection(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error) {
	endpoint := strings.TrimSuffix(req.EndpointURL, "/")

	s.mu.RLock()
	for _, conn := range s.pool {
		if conn.Config.EndpointURL == endpoint && (req.Device == "" || strings.EqualFold(conn.Config.Device, req.Device)) {
			s.mu.RUnlock()
			return nil, apperrors.NewAppError(apperrors.ErrConnectionExists,
				fmt.Sprintf("подключение к '%s' уже существует с SessionID: %s", endpoint, conn.SessionID), nil)
		}
	}
	s.mu.RUnlock()

	caps, err := s.client.FetchCapabilities(ctx, endpoint)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConnectionProbe,
			fmt.Sprintf("не удалось получить возможности устройства с %s", endpoint), err)
	}

	if req.Device != "" && !strings.EqualFold(strings.TrimSpace(caps.Device), req.Device) {
		return nil, apperrors.NewAppError(apperrors.ErrConnectionProbe,
			fmt.Sprintf("устройство '%s' не совпадает с ответом сервиса: '%s'", req.Device, caps.Device), nil)
	}
	s.capCache.Set(endpoint, caps, cache.DefaultExpiration)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	connInfo := &entities.ConnectionInfo{
		SessionID: uuid.New().String(),
		Config: entities.ConnectionConfig{
			EndpointURL: endpoint,
			Device:      caps.Device,
		},
		Capabilities: caps,
		CreatedAt:    now,
		LastUsed:     now,
		UseCount:     1,
		IsHealthy:    true,
	}
	s.pool[connInfo.SessionID] = connInfo

	s.logger.Info("подключение к сервису трекинга установлено",
		zap.String("session_id", connInfo.SessionID),
		zap.String("endpoint", endpoint),
		zap.String("device", caps.Device),
		zap.Strings("trackers", caps.Trackers),
	)
	return snapshot(connInfo), nil
}

// GetConnection возвращает копию записи пула.
func (s *ConnectionService) GetConnection(sessionID string) (*entities.ConnectionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, found := s.pool[sessionID]
	if !found {
		return nil, false
	}
	return snapshot(conn), true
}

func (s *ConnectionService) GetAllConnections() []*entities.ConnectionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := make([]*entities.ConnectionInfo, 0, len(s.pool))
	for _, conn := range s.pool {
		conns = append(conns, snapshot(conn))
	}
	return conns
}

func (s *ConnectionService) DeleteConnection(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, exists := s.pool[sessionID]
	if !exists {
		return notFound(sessionID)
	}

	_ = s.trackingSvc.StopTracking(sessionID)
	s.capCache.Delete(conn.Config.EndpointURL)

	delete(s.pool, sessionID)
	s.logger.Info("подключение удалено", zap.String("session_id", sessionID))
	return nil
}

// CheckConnection повторно опрашивает устройство и обновляет признак здоровья.
func (s *ConnectionService) CheckConnection(ctx context.Context, sessionID string) (*entities.ConnectionInfo, error) {
	conn, exists := s.GetConnection(sessionID)
	if !exists {
		return nil, notFound(sessionID)
	}

	caps, err := s.client.FetchCapabilities(ctx, conn.Config.EndpointURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.pool[sessionID]
	if !exists {
		return nil, notFound(sessionID)
	}
	updated := *current
	updated.IsHealthy = err == nil
	updated.LastUsed = time.Now()
	updated.UseCount++
	if err == nil {
		updated.Capabilities = caps
		s.capCache.Set(updated.Config.EndpointURL, caps, cache.DefaultExpiration)
	}
	s.pool[sessionID] = &updated

	if err != nil {
		return snapshot(&updated), apperrors.NewAppError(apperrors.ErrConnectionProbe,
			fmt.Sprintf("проверка соединения с '%s' провалена", updated.Config.EndpointURL), err)
	}
	return snapshot(&updated), nil
}

// Capabilities возвращает возможности устройства сессии, используя кэш по эндпоинту.
func (s *ConnectionService) Capabilities(ctx context.Context, sessionID string) (entities.TrackingCapabilities, error) {
	conn, ok := s.GetConnection(sessionID)
	if !ok {
		return entities.TrackingCapabilities{}, notFound(sessionID)
	}

	if cached, found := s.capCache.Get(conn.Config.EndpointURL); found {
		return cached.(entities.TrackingCapabilities), nil
	}

	caps, err := s.client.FetchCapabilities(ctx, conn.Config.EndpointURL)
	if err != nil {
		return entities.TrackingCapabilities{}, apperrors.NewAppError(apperrors.ErrConnectionProbe,
			fmt.Sprintf("не удалось получить возможности устройства с %s", conn.Config.EndpointURL), err)
	}
	s.capCache.Set(conn.Config.EndpointURL, caps, cache.DefaultExpiration)

	s.mu.Lock()
	if current, exists := s.pool[sessionID]; exists {
		updated := *current
		updated.Capabilities = caps
		s.pool[sessionID] = &updated
	}
	s.mu.Unlock()
	return caps, nil
}

// snapshot копирует запись пула; записи в пуле заменяются целиком и не меняются на месте.
func snapshot(conn *entities.ConnectionInfo) *entities.ConnectionInfo {
	c := *conn
	c.Capabilities.Trackers = append([]string(nil), conn.Capabilities.Trackers...)
	return &c
}

func notFound(sessionID string) error {
	return apperrors.NewAppError(apperrors.ErrConnectionNotFound, fmt.Sprintf("сессия '%s' не найдена", sessionID), nil)
}
