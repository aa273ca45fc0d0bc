package usecases

import "github.com/LaibaFaraz/HealMind/internal/interfaces"

// UseCases - агрегатор use case интерфейсов HTTP API
type UseCases struct {
	interfaces.ConnectionsUsecase
	interfaces.StressUsecase
}

// NewUsecases - конструктор для UseCases
func NewUsecases(connSvc interfaces.ConnectionService, stress interfaces.StressService, predictions interfaces.PredictionRepository) *UseCases {
	return &UseCases{
		ConnectionsUsecase: NewConnectionUsecase(connSvc),
		StressUsecase:      NewStressUsecase(stress, predictions),
	}
}
