package interfaces

import (
	"context"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// Repository - это агрегирующий интерфейс для всех репозиториев
type Repository interface {
	SampleRepository
	PredictionRepository
}

// SampleRepository определяет контракт хранилища измерений пульса (heart_rate_data)
type SampleRepository interface {
	SaveSample(ctx context.Context, sample entities.StoredSample) error
	SamplesSince(ctx context.Context, since time.Time) ([]entities.StoredSample, error)
}

// PredictionRepository определяет контракт хранилища предсказаний (stress_predictions)
type PredictionRepository interface {
	SavePredictions(ctx context.Context, predictions []entities.StressPrediction) (int, error)
	RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error)
}
