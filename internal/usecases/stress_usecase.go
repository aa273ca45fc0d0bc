package usecases

import (
	"context"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
)

// defaultPredictionsLimit - сколько предсказаний отдавать без явного лимита
const defaultPredictionsLimit = 50

type StressUsecase struct {
	stress      interfaces.StressService
	predictions interfaces.PredictionRepository
}

func NewStressUsecase(stress interfaces.StressService, predictions interfaces.PredictionRepository) *StressUsecase {
	return &StressUsecase{stress: stress, predictions: predictions}
}

func (u *StressUsecase) RunStressBatch(ctx context.Context, hours int) (entities.StressSummary, error) {
	return u.stress.RunBatch(ctx, hours)
}

func (u *StressUsecase) RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error) {
	if limit <= 0 {
		limit = defaultPredictionsLimit
	}
	return u.predictions.RecentPredictions(ctx, limit)
}
