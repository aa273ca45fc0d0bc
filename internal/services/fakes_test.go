package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

type fakeClient struct {
	mu        sync.Mutex
	caps      entities.TrackingCapabilities
	capsErr   error
	capsCalls int
	batches   [][]entities.HeartRateSample
	hrErr     error
}

func (c *fakeClient) FetchCapabilities(ctx context.Context, endpointURL string) (entities.TrackingCapabilities, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capsCalls++
	return c.caps, c.capsErr
}

func (c *fakeClient) FetchHeartRate(ctx context.Context, endpointURL string) ([]entities.HeartRateSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hrErr != nil {
		return nil, c.hrErr
	}
	if len(c.batches) == 0 {
		return nil, nil
	}
	batch := c.batches[0]
	c.batches = c.batches[1:]
	return batch, nil
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capsCalls
}

type fakeTracking struct {
	mu      sync.Mutex
	stopped []string
}

func (f *fakeTracking) StartTracking(ctx context.Context, conn *entities.ConnectionInfo, interval time.Duration) (<-chan entities.TrackerMessage, error) {
	return nil, errors.New("not used")
}

func (f *fakeTracking) StopTracking(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, sessionID)
	return nil
}

func (f *fakeTracking) StopAll() {}
func (f *fakeTracking) IsTracking(sessionID string) bool { return false }
func (f *fakeTracking) Values(sessionID string) []entities.TrackedData { return nil }

type producedMessage struct {
	key, value []byte
	headers    map[string]string
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []producedMessage
	err      error
}

func (p *fakeProducer) Produce(ctx context.Context, key, value []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, producedMessage{key: key, value: value, headers: headers})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeConsumer struct {
	messages chan entities.Message
}

func (c *fakeConsumer) ReadMessage(ctx context.Context) (entities.Message, error) {
	select {
	case <-ctx.Done():
		return entities.Message{}, ctx.Err()
	case msg := <-c.messages:
		return msg, nil
	}
}

func (c *fakeConsumer) Close() error { return nil }

type memoryRepo struct {
	mu          sync.Mutex
	samples     []entities.StoredSample
	predictions []entities.StressPrediction
	saveErr     error
	readErr     error
}

func (r *memoryRepo) SaveSample(ctx context.Context, sample entities.StoredSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.samples = append(r.samples, sample)
	return nil
}

func (r *memoryRepo) SamplesSince(ctx context.Context, since time.Time) ([]entities.StoredSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []entities.StoredSample
	for _, s := range r.samples {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryRepo) SavePredictions(ctx context.Context, predictions []entities.StressPrediction) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.predictions = append(r.predictions, predictions...)
	return len(predictions), nil
}

func (r *memoryRepo) RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]entities.StressPrediction(nil), r.predictions...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PredictionTimestamp.After(out[j].PredictionTimestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) sampleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}
