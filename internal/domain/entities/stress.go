package entities

import "time"

// StoredSample - измерение, сохранённое в коллекции heart_rate_data
type StoredSample struct {
	ID        string    `json:"id" dynamodbav:"id"`
	HR        int       `json:"hr" dynamodbav:"hr"`
	IBI       []int     `json:"ibi" dynamodbav:"ibi"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Уровни стресса в порядке классов модели.
const (
	StressLow    = 0
	StressMedium = 1
	StressHigh   = 2
)

// StressLabels сопоставляет класс модели и его название.
var StressLabels = map[int]string{
	StressLow:    "low",
	StressMedium: "medium",
	StressHigh:   "high",
}

// StressProbabilities - вероятности классов модели
type StressProbabilities struct {
	Low    float64 `json:"class_0_low" dynamodbav:"class_0_low"`
	Medium float64 `json:"class_1_medium" dynamodbav:"class_1_medium"`
	High   float64 `json:"class_2_high" dynamodbav:"class_2_high"`
}

// StressPrediction - результат обработки одного временного окна
type StressPrediction struct {
	ID                  string              `json:"id" dynamodbav:"id"`
	StressLevel         int                 `json:"stress_level" dynamodbav:"stress_level"`
	StressLabel         string              `json:"stress_label" dynamodbav:"stress_label"`
	Probabilities       StressProbabilities `json:"stress_probabilities" dynamodbav:"stress_probabilities"`
	SDNN                float64             `json:"sdnn" dynamodbav:"sdnn"`
	RMSSD               float64             `json:"rmssd" dynamodbav:"rmssd"`
	WindowStart         time.Time           `json:"window_start" dynamodbav:"window_start"`
	WindowEnd           time.Time           `json:"window_end" dynamodbav:"window_end"`
	PredictionTimestamp time.Time           `json:"prediction_timestamp" dynamodbav:"prediction_timestamp"`
	NumSamples          int                 `json:"num_samples" dynamodbav:"num_samples"`
}

// StressSummary - сводка пакетной обработки
type StressSummary struct {
	Samples      int                 `json:"samples"`
	Windows      int                 `json:"windows"`
	Predictions  []StressPrediction  `json:"predictions"`
	CountByLevel map[string]int      `json:"count_by_level"`
	MeanProb     StressProbabilities `json:"mean_probabilities"`
}
