package services

import (
	"context"
	"fmt"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StressPredictor оценивает уровень стресса по окнам HRV и сохраняет предсказания.
type StressPredictor struct {
	samples       interfaces.SampleRepository
	predictions   interfaces.PredictionRepository
	model         *StressModel
	windowMinutes int
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

func NewStressPredictor(
	samples interfaces.SampleRepository,
	predictions interfaces.PredictionRepository,
	model *StressModel,
	windowMinutes int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StressPredictor {
	return &StressPredictor{
		samples:       samples,
		predictions:   predictions,
		model:         model,
		windowMinutes: windowMinutes,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

// ProcessWindow считает HRV окна и применяет модель. ok=false, если интервалов недостаточно.
func (p *StressPredictor) ProcessWindow(window []entities.StoredSample) (entities.StressPrediction, bool) {
	sdnn, rmssd, ok := ComputeHRV(window)
	if !ok {
		return entities.StressPrediction{}, false
	}

	level, probs := p.model.Predict(sdnn, rmssd)
	return entities.StressPrediction{
		ID:          uuid.New().String(),
		StressLevel: level,
		StressLabel: entities.StressLabels[level],
		Probabilities: entities.StressProbabilities{
			Low:    probs[entities.StressLow],
			Medium: probs[entities.StressMedium],
			High:   probs[entities.StressHigh],
		},
		SDNN:                sdnn,
		RMSSD:               rmssd,
		WindowStart:         window[0].Timestamp,
		WindowEnd:           window[len(window)-1].Timestamp,
		PredictionTimestamp: p.now().UTC(),
		NumSamples:          len(window),
	}, true
}

// RunBatch обрабатывает измерения за последние hours часов.
func (p *StressPredictor) RunBatch(ctx context.Context, hours int) (entities.StressSummary, error) {
	started := time.Now()
	defer func() { p.metrics.BatchDuration.Observe(time.Since(started).Seconds()) }()

	summary := entities.StressSummary{CountByLevel: map[string]int{}}
	if hours <= 0 {
		return summary, fmt.Errorf("hours должен быть положительным, получено %d", hours)
	}

	log := p.logger.With(zap.Time("batch", p.now().UTC()))
	log.Info("пакетная обработка стресса", zap.Int("hours", hours))

	cutoff := p.now().Add(-time.Duration(hours) * time.Hour)
	samples, err := p.samples.SamplesSince(ctx, cutoff)
	if err != nil {
		return summary, apperrors.NewAppError(apperrors.ErrStorageRead, "не удалось загрузить измерения", err)
	}
	summary.Samples = len(samples)
	if len(samples) == 0 {
		log.Info("нет новых данных для обработки")
		return summary, nil
	}

	windows := GroupByWindow(samples, p.windowMinutes)
	summary.Windows = len(windows)
	log.Info("данные загружены", zap.Int("samples", len(samples)), zap.Int("windows", len(windows)))

	for _, window := range windows {
		if prediction, ok := p.ProcessWindow(window); ok {
			summary.Predictions = append(summary.Predictions, prediction)
		}
	}
	if len(summary.Predictions) == 0 {
		log.Info("нет окон с достаточным числом интервалов")
		return summary, nil
	}

	stored, err := p.predictions.SavePredictions(ctx, summary.Predictions)
	if err != nil {
		return summary, apperrors.NewAppError(apperrors.ErrStorageWrite, "не удалось сохранить предсказания", err)
	}

	for _, prediction := range summary.Predictions {
		summary.CountByLevel[prediction.StressLabel]++
		summary.MeanProb.Low += prediction.Probabilities.Low
		summary.MeanProb.Medium += prediction.Probabilities.Medium
		summary.MeanProb.High += prediction.Probabilities.High
		p.metrics.PredictionsStored.WithLabelValues(prediction.StressLabel).Inc()
	}
	n := float64(len(summary.Predictions))
	summary.MeanProb.Low /= n
	summary.MeanProb.Medium /= n
	summary.MeanProb.High /= n

	log.Info("предсказания сохранены",
		zap.Int("stored", stored),
		zap.Int("low", summary.CountByLevel["low"]),
		zap.Int("medium", summary.CountByLevel["medium"]),
		zap.Int("high", summary.CountByLevel["high"]),
		zap.Float64("avg_prob_low", summary.MeanProb.Low),
		zap.Float64("avg_prob_medium", summary.MeanProb.Medium),
		zap.Float64("avg_prob_high", summary.MeanProb.High),
	)
	return summary, nil
}
