package presentation

import (
	"context"
	"strings"
	"sync"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// MainViewModel хранит состояние экрана трекинга: подключение, поток пульса, отправку на телефон.
// Ссылки на use case задаются только в конструкторе.
type MainViewModel struct {
	makeConnection interfaces.MakeConnectionUsecase
	sendMessage    interfaces.SendMessageUsecase
	stopTracking   interfaces.StopTrackingUsecase
	capabilities   interfaces.CapabilitiesUsecase
	trackHeartRate interfaces.TrackHeartRateUsecase

	setup     sync.Mutex
	mu        sync.Mutex
	state     entities.ViewModelState
	starting  bool
	collected chan struct{}
}

func NewMainViewModel(
	makeConnection interfaces.MakeConnectionUsecase,
	sendMessage interfaces.SendMessageUsecase,
	stopTracking interfaces.StopTrackingUsecase,
	capabilities interfaces.CapabilitiesUsecase,
	trackHeartRate interfaces.TrackHeartRateUsecase,
) *MainViewModel {
	return &MainViewModel{
		makeConnection: makeConnection,
		sendMessage:    sendMessage,
		stopTracking:   stopTracking,
		capabilities:   capabilities,
		trackHeartRate: trackHeartRate,
		state:          entities.ViewModelState{Connection: entities.ConnectionIdle},
	}
}

// SetUpTracking подключается к сервису трекинга и проверяет наличие трекера пульса.
// Повторный вызов с тем же эндпоинтом возвращает текущее состояние; при смене эндпоинта
// прежняя сессия освобождается только после успешного подключения к новой.
func (vm *MainViewModel) SetUpTracking(ctx context.Context, req entities.ConnectionRequest) (entities.ViewModelState, error) {
	vm.setup.Lock()
	defer vm.setup.Unlock()

	vm.mu.Lock()
	if vm.state.Tracking.IsTracking || vm.starting {
		vm.mu.Unlock()
		return vm.State(), apperrors.NewAppError(apperrors.ErrTrackingActive, "сначала остановите трекинг", nil)
	}
	previous := vm.state
	if previous.Connection == entities.ConnectionConnected && sameTarget(previous.ConnectionInfo, req) {
		vm.mu.Unlock()
		return vm.State(), nil
	}
	vm.state = entities.ViewModelState{Connection: entities.ConnectionConnecting}
	vm.mu.Unlock()

	conn, err := vm.makeConnection.Connect(ctx, req)
	if err != nil {
		vm.fail(previous)
		return vm.State(), err
	}

	capable, err := vm.capabilities.AreAvailable(ctx, conn.SessionID)
	if err != nil {
		_ = vm.makeConnection.Disconnect(conn.SessionID)
		vm.fail(previous)
		return vm.State(), err
	}

	if previous.ConnectionInfo != nil {
		// сессия могла быть уже удалена через API
		_ = vm.makeConnection.Disconnect(previous.ConnectionInfo.SessionID)
	}

	vm.mu.Lock()
	vm.state.Connection = entities.ConnectionConnected
	vm.state.ConnectionInfo = conn
	vm.state.Capable = capable
	vm.mu.Unlock()
	return vm.State(), nil
}

// fail возвращает прежнее подключение, если оно было, иначе переводит экран в failed.
func (vm *MainViewModel) fail(previous entities.ViewModelState) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if previous.Connection == entities.ConnectionConnected {
		vm.state = previous
		return
	}
	vm.state.Connection = entities.ConnectionFailed
	vm.state.ConnectionInfo = nil
}

func sameTarget(info *entities.ConnectionInfo, req entities.ConnectionRequest) bool {
	if info == nil {
		return false
	}
	return info.Config.EndpointURL == strings.TrimSuffix(req.EndpointURL, "/") &&
		(req.Device == "" || strings.EqualFold(info.Config.Device, req.Device))
}

// StartTracking запускает поток пульса и собирает его в состояние в отдельной горутине.
func (vm *MainViewModel) StartTracking(ctx context.Context) error {
	vm.mu.Lock()
	if vm.state.Connection != entities.ConnectionConnected || !vm.state.Capable {
		vm.mu.Unlock()
		return apperrors.NewAppError(apperrors.ErrTrackingNotReady, "нет подключения с поддержкой трекинга пульса", nil)
	}
	if vm.state.Tracking.IsTracking || vm.starting {
		vm.mu.Unlock()
		return apperrors.NewAppError(apperrors.ErrTrackingActive, "трекинг уже запущен", nil)
	}
	vm.starting = true
	sessionID := vm.state.ConnectionInfo.SessionID
	vm.mu.Unlock()

	stream, err := vm.trackHeartRate.Track(ctx, sessionID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.starting = false
	if err != nil {
		vm.state.Tracking.LastError = err.Error()
		return err
	}
	if vm.state.ConnectionInfo == nil || vm.state.ConnectionInfo.SessionID != sessionID {
		_ = vm.stopTracking.Stop(sessionID)
		return apperrors.NewAppError(apperrors.ErrTrackingNotReady, "подключение сменилось во время запуска трекинга", nil)
	}

	vm.state.Tracking = entities.TrackingState{IsTracking: true, SessionID: sessionID}
	vm.state.MessageSent = nil
	vm.collected = make(chan struct{})
	go vm.collect(stream, vm.collected)
	return nil
}

func (vm *MainViewModel) collect(stream <-chan entities.TrackerMessage, done chan<- struct{}) {
	defer close(done)
	for msg := range stream {
		vm.mu.Lock()
		switch msg.Type {
		case entities.TrackerData:
			vm.state.Tracking.LastValue = msg.Data
			vm.state.Tracking.ValuesCount++
		case entities.TrackerError:
			vm.state.Tracking.LastError = msg.Error
		}
		vm.mu.Unlock()
	}

	vm.mu.Lock()
	vm.state.Tracking.IsTracking = false
	vm.mu.Unlock()
}

// StopTracking останавливает трекинг и дожидается, пока поток будет дочитан.
func (vm *MainViewModel) StopTracking() error {
	vm.mu.Lock()
	sessionID := vm.state.Tracking.SessionID
	collected := vm.collected
	vm.mu.Unlock()

	if collected == nil {
		return nil
	}
	if err := vm.stopTracking.Stop(sessionID); err != nil {
		return err
	}
	<-collected

	vm.mu.Lock()
	if vm.collected == collected {
		vm.collected = nil
	}
	vm.mu.Unlock()
	return nil
}

// SendMessage отправляет собранные значения на телефон.
func (vm *MainViewModel) SendMessage(ctx context.Context) (bool, error) {
	vm.mu.Lock()
	conn := vm.state.ConnectionInfo
	vm.mu.Unlock()
	if conn == nil {
		return false, apperrors.NewAppError(apperrors.ErrTrackingNotReady, "нет активного подключения", nil)
	}

	sent, err := vm.sendMessage.Send(ctx, conn.SessionID)

	vm.mu.Lock()
	vm.state.MessageSent = &sent
	vm.mu.Unlock()
	return sent, err
}

// State возвращает копию текущего состояния.
func (vm *MainViewModel) State() entities.ViewModelState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	state := vm.state
	if state.ConnectionInfo != nil {
		info := *state.ConnectionInfo
		state.ConnectionInfo = &info
	}
	if state.Tracking.LastValue != nil {
		value := *state.Tracking.LastValue
		state.Tracking.LastValue = &value
	}
	if state.MessageSent != nil {
		sent := *state.MessageSent
		state.MessageSent = &sent
	}
	return state
}
