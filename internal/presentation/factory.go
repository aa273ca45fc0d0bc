// Package presentation содержит view-model главного экрана и фабрику для её сборки.
package presentation

import (
	"fmt"

	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// Provider создаёт один экземпляр зависимости по запросу.
type Provider[T any] func() (T, error)

// Instance возвращает провайдер, который всегда отдаёт value.
func Instance[T any](value T) Provider[T] {
	return func() (T, error) { return value, nil }
}

// MainViewModelFactory собирает MainViewModel из провайдеров пяти use case.
// Провайдеры вызываются при каждом Get, результаты не кэшируются.
type MainViewModelFactory struct {
	makeConnection Provider[interfaces.MakeConnectionUsecase]
	sendMessage    Provider[interfaces.SendMessageUsecase]
	stopTracking   Provider[interfaces.StopTrackingUsecase]
	capabilities   Provider[interfaces.CapabilitiesUsecase]
	trackHeartRate Provider[interfaces.TrackHeartRateUsecase]
}

func CreateMainViewModelFactory(
	makeConnection Provider[interfaces.MakeConnectionUsecase],
	sendMessage Provider[interfaces.SendMessageUsecase],
	stopTracking Provider[interfaces.StopTrackingUsecase],
	capabilities Provider[interfaces.CapabilitiesUsecase],
	trackHeartRate Provider[interfaces.TrackHeartRateUsecase],
) *MainViewModelFactory {
	return &MainViewModelFactory{
		makeConnection: makeConnection,
		sendMessage:    sendMessage,
		stopTracking:   stopTracking,
		capabilities:   capabilities,
		trackHeartRate: trackHeartRate,
	}
}

// Get разрешает все зависимости и создаёт новую view-model.
// При первой же неразрешённой зависимости возвращает nil и ошибку DI.UNRESOLVED_DEPENDENCY.
func (f *MainViewModelFactory) Get() (*MainViewModel, error) {
	makeConnection, err := resolve("MakeConnectionUsecase", f.makeConnection)
	if err != nil {
		return nil, err
	}
	sendMessage, err := resolve("SendMessageUsecase", f.sendMessage)
	if err != nil {
		return nil, err
	}
	stopTracking, err := resolve("StopTrackingUsecase", f.stopTracking)
	if err != nil {
		return nil, err
	}
	capabilities, err := resolve("CapabilitiesUsecase", f.capabilities)
	if err != nil {
		return nil, err
	}
	trackHeartRate, err := resolve("TrackHeartRateUsecase", f.trackHeartRate)
	if err != nil {
		return nil, err
	}
	return NewMainViewModel(makeConnection, sendMessage, stopTracking, capabilities, trackHeartRate), nil
}

func resolve[T any](name string, provider Provider[T]) (T, error) {
	var zero T
	if provider == nil {
		return zero, unresolved(name, nil)
	}
	value, err := provider()
	if err != nil {
		return zero, unresolved(name, err)
	}
	if any(value) == nil {
		return zero, unresolved(name, nil)
	}
	return value, nil
}

func unresolved(name string, cause error) error {
	return apperrors.NewAppError(apperrors.ErrUnresolvedDependency,
		fmt.Sprintf("не удалось получить зависимость %s", name), cause)
}
