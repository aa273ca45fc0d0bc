package datastore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// DataStore - потокобезопасное in-memory хранилище измерений и предсказаний
type DataStore struct {
	mu          sync.RWMutex
	samples     map[string]entities.StoredSample
	predictions map[string]entities.StressPrediction
}

// NewDataStore создает новый экземпляр DataStore
func NewDataStore() *DataStore {
	return &DataStore{
		samples:     make(map[string]entities.StoredSample),
		predictions: make(map[string]entities.StressPrediction),
	}
}

// SaveSample сохраняет измерение по его ID
func (ds *DataStore) SaveSample(ctx context.Context, sample entities.StoredSample) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.samples[sample.ID] = sample
	return nil
}

// SamplesSince возвращает измерения не старше since, отсортированные по времени
func (ds *DataStore) SamplesSince(ctx context.Context, since time.Time) ([]entities.StoredSample, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	out := make([]entities.StoredSample, 0, len(ds.samples))
	for _, sample := range ds.samples {
		if !sample.Timestamp.Before(since) {
			out = append(out, sample)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (ds *DataStore) SavePredictions(ctx context.Context, predictions []entities.StressPrediction) (int, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	for _, prediction := range predictions {
		ds.predictions[prediction.ID] = prediction
	}
	return len(predictions), nil
}

// RecentPredictions возвращает последние limit предсказаний, новые первыми
func (ds *DataStore) RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	out := make([]entities.StressPrediction, 0, len(ds.predictions))
	for _, prediction := range ds.predictions {
		out = append(out, prediction)
	}
	return newestFirst(out, limit), nil
}

func newestFirst(predictions []entities.StressPrediction, limit int) []entities.StressPrediction {
	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].PredictionTimestamp.After(predictions[j].PredictionTimestamp)
	})
	if limit > 0 && len(predictions) > limit {
		predictions = predictions[:limit]
	}
	return predictions
}
