package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// TrackHeartRateUsecase запускает опрос пульса для подключённого устройства.
type TrackHeartRateUsecase struct {
	connSvc     interfaces.ConnectionService
	trackingSvc interfaces.TrackingService
	interval    time.Duration
}

func NewTrackHeartRateUsecase(connSvc interfaces.ConnectionService, trackingSvc interfaces.TrackingService, interval time.Duration) *TrackHeartRateUsecase {
	return &TrackHeartRateUsecase{
		connSvc:     connSvc,
		trackingSvc: trackingSvc,
		interval:    interval,
	}
}

// Track возвращает поток измерений. Устройство должно поддерживать трекер пульса.
func (u *TrackHeartRateUsecase) Track(ctx context.Context, sessionID string) (<-chan entities.TrackerMessage, error) {
	conn, err := lookup(u.connSvc, sessionID)
	if err != nil {
		return nil, err
	}

	caps, err := u.connSvc.Capabilities(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !caps.Supports(entities.TrackerHeartRate) {
		return nil, apperrors.NewAppError(apperrors.ErrTrackingUnsupported,
			fmt.Sprintf("устройство '%s' не поддерживает %s", conn.Config.Device, entities.TrackerHeartRate), nil)
	}
	return u.trackingSvc.StartTracking(ctx, conn, u.interval)
}

// StopTrackingUsecase останавливает трекинг сессии.
type StopTrackingUsecase struct {
	trackingSvc interfaces.TrackingService
}

func NewStopTrackingUsecase(trackingSvc interfaces.TrackingService) *StopTrackingUsecase {
	return &StopTrackingUsecase{trackingSvc: trackingSvc}
}

func (u *StopTrackingUsecase) Stop(sessionID string) error {
	return u.trackingSvc.StopTracking(sessionID)
}
