package usecases

import (
	"context"
	"fmt"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// MakeConnectionUsecase устанавливает подключение к сервису трекинга на часах.
type MakeConnectionUsecase struct {
	connSvc interfaces.ConnectionService
}

func NewMakeConnectionUsecase(connSvc interfaces.ConnectionService) *MakeConnectionUsecase {
	return &MakeConnectionUsecase{connSvc: connSvc}
}

func (u *MakeConnectionUsecase) Connect(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error) {
	return u.connSvc.CreateConnection(ctx, req)
}

// Disconnect освобождает сессию, которую view-model больше не использует.
func (u *MakeConnectionUsecase) Disconnect(sessionID string) error {
	return u.connSvc.DeleteConnection(sessionID)
}

// ConnectionUsecase - управление пулом подключений
type ConnectionUsecase struct {
	connSvc interfaces.ConnectionService
}

func NewConnectionUsecase(connSvc interfaces.ConnectionService) *ConnectionUsecase {
	return &ConnectionUsecase{connSvc: connSvc}
}

func (u *ConnectionUsecase) GetAllConnections() []*entities.ConnectionInfo {
	return u.connSvc.GetAllConnections()
}

func (u *ConnectionUsecase) DeleteConnection(sessionID string) error {
	return u.connSvc.DeleteConnection(sessionID)
}

func (u *ConnectionUsecase) CheckConnection(ctx context.Context, sessionID string) (*entities.ConnectionInfo, error) {
	return u.connSvc.CheckConnection(ctx, sessionID)
}

// CapabilitiesUsecase проверяет, поддерживает ли устройство сессии трекинг пульса.
type CapabilitiesUsecase struct {
	connSvc interfaces.ConnectionService
}

func NewCapabilitiesUsecase(connSvc interfaces.ConnectionService) *CapabilitiesUsecase {
	return &CapabilitiesUsecase{connSvc: connSvc}
}

func (u *CapabilitiesUsecase) AreAvailable(ctx context.Context, sessionID string) (bool, error) {
	caps, err := u.connSvc.Capabilities(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return caps.Supports(entities.TrackerHeartRate), nil
}

func lookup(connSvc interfaces.ConnectionService, sessionID string) (*entities.ConnectionInfo, error) {
	conn, found := connSvc.GetConnection(sessionID)
	if !found {
		return nil, apperrors.NewAppError(apperrors.ErrConnectionNotFound,
			fmt.Sprintf("сессия '%s' не найдена", sessionID), nil)
	}
	return conn, nil
}
