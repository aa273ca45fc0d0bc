package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

// число признаков (sdnn, rmssd) и классов (low, medium, high)
const (
	stressFeatures = 2
	stressClasses  = 3
)

// StressModel - стандартизация признаков и мультиклассовая логистическая регрессия.
type StressModel struct {
	Mean      [stressFeatures]float64                `json:"mean"`
	Scale     [stressFeatures]float64                `json:"scale"`
	Coef      [stressClasses][stressFeatures]float64 `json:"coef"`
	Intercept [stressClasses]float64                 `json:"intercept"`
}

// DefaultStressModel - модель по умолчанию: чем ниже вариабельность, тем выше стресс.
func DefaultStressModel() *StressModel {
	return &StressModel{
		Mean:      [stressFeatures]float64{50, 40},
		Scale:     [stressFeatures]float64{20, 20},
		Coef:      [stressClasses][stressFeatures]float64{{1.6, 1.4}, {0, 0}, {-1.6, -1.4}},
		Intercept: [stressClasses]float64{0, 0.5, 0},
	}
}

// LoadStressModel читает модель из JSON файла. Пустой путь даёт модель по умолчанию.
func LoadStressModel(path string) (*StressModel, error) {
	if path == "" {
		return DefaultStressModel(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStressModel, "не удалось прочитать файл модели "+path, err)
	}

	var model StressModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStressModel, "не удалось распарсить модель "+path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// Validate проверяет, что масштаб признаков ненулевой.
func (m *StressModel) Validate() error {
	for i, s := range m.Scale {
		if s == 0 || math.IsNaN(s) {
			return apperrors.NewAppError(apperrors.ErrStressModel, fmt.Sprintf("scale[%d] должен быть ненулевым", i), nil)
		}
	}
	return nil
}

// Predict возвращает класс стресса и вероятности классов.
func (m *StressModel) Predict(sdnn, rmssd float64) (int, [stressClasses]float64) {
	x := [stressFeatures]float64{sdnn, rmssd}
	for i := range x {
		x[i] = (x[i] - m.Mean[i]) / m.Scale[i]
	}

	var logits [stressClasses]float64
	maxLogit := math.Inf(-1)
	for c := range logits {
		logits[c] = m.Intercept[c]
		for i := range x {
			logits[c] += m.Coef[c][i] * x[i]
		}
		maxLogit = math.Max(maxLogit, logits[c])
	}

	var probs [stressClasses]float64
	var sum float64
	for c := range logits {
		probs[c] = math.Exp(logits[c] - maxLogit)
		sum += probs[c]
	}
	best := 0
	for c := range probs {
		probs[c] /= sum
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, probs
}
