package usecases

import (
	"context"
	"fmt"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/healthtracking"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// SendMessageUsecase отправляет собранные значения сессии на телефон по пути /msg.
type SendMessageUsecase struct {
	connSvc     interfaces.ConnectionService
	trackingSvc interfaces.TrackingService
	sender      interfaces.MessageSender
}

func NewSendMessageUsecase(connSvc interfaces.ConnectionService, trackingSvc interfaces.TrackingService, sender interfaces.MessageSender) *SendMessageUsecase {
	return &SendMessageUsecase{
		connSvc:     connSvc,
		trackingSvc: trackingSvc,
		sender:      sender,
	}
}

func (u *SendMessageUsecase) Send(ctx context.Context, sessionID string) (bool, error) {
	if _, err := lookup(u.connSvc, sessionID); err != nil {
		return false, err
	}

	values := u.trackingSvc.Values(sessionID)
	if len(values) == 0 {
		return false, apperrors.NewAppError(apperrors.ErrMessageEmpty,
			fmt.Sprintf("для сессии '%s' нет собранных значений", sessionID), nil)
	}

	payload, err := healthtracking.EncodeTrackedDataList(values)
	if err != nil {
		return false, err
	}
	if err := u.sender.SendMessage(ctx, entities.MessagePath, payload); err != nil {
		return false, err
	}
	return true, nil
}
