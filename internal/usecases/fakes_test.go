package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
)

type fakeConnections struct {
	conns   map[string]*entities.ConnectionInfo
	caps    entities.TrackingCapabilities
	capsErr error
	deleted []string
}

func newFakeConnections(caps entities.TrackingCapabilities, sessions ...string) *fakeConnections {
	f := &fakeConnections{conns: map[string]*entities.ConnectionInfo{}, caps: caps}
	for _, id := range sessions {
		f.conns[id] = &entities.ConnectionInfo{
			SessionID: id,
			Config:    entities.ConnectionConfig{EndpointURL: "http://watch.local", Device: caps.Device},
		}
	}
	return f
}

func (f *fakeConnections) CreateConnection(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error) {
	conn := &entities.ConnectionInfo{SessionID: fmt.Sprintf("s-%d", len(f.conns)+1), Config: entities.ConnectionConfig{EndpointURL: req.EndpointURL}}
	f.conns[conn.SessionID] = conn
	return conn, nil
}

func (f *fakeConnections) GetConnection(sessionID string) (*entities.ConnectionInfo, bool) {
	conn, ok := f.conns[sessionID]
	return conn, ok
}

func (f *fakeConnections) GetAllConnections() []*entities.ConnectionInfo {
	out := make([]*entities.ConnectionInfo, 0, len(f.conns))
	for _, conn := range f.conns {
		out = append(out, conn)
	}
	return out
}

func (f *fakeConnections) DeleteConnection(sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	delete(f.conns, sessionID)
	return nil
}

func (f *fakeConnections) CheckConnection(ctx context.Context, sessionID string) (*entities.ConnectionInfo, error) {
	conn, ok := f.conns[sessionID]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrConnectionNotFound, sessionID, nil)
	}
	return conn, nil
}

func (f *fakeConnections) Capabilities(ctx context.Context, sessionID string) (entities.TrackingCapabilities, error) {
	if _, ok := f.conns[sessionID]; !ok {
		return entities.TrackingCapabilities{}, apperrors.NewAppError(apperrors.ErrConnectionNotFound, sessionID, nil)
	}
	return f.caps, f.capsErr
}

type fakeTracking struct {
	mu       sync.Mutex
	started  []string
	interval time.Duration
	stopped  []string
	values   map[string][]entities.TrackedData
}

func (f *fakeTracking) StartTracking(ctx context.Context, conn *entities.ConnectionInfo, interval time.Duration) (<-chan entities.TrackerMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, conn.SessionID)
	f.interval = interval
	ch := make(chan entities.TrackerMessage)
	close(ch)
	return ch, nil
}

func (f *fakeTracking) StopTracking(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, sessionID)
	return nil
}

func (f *fakeTracking) StopAll() {}

func (f *fakeTracking) IsTracking(sessionID string) bool { return false }

func (f *fakeTracking) Values(sessionID string) []entities.TrackedData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[sessionID]
}

type sentMessage struct {
	path    string
	payload []byte
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (s *fakeSender) SendMessage(ctx context.Context, path string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{path: path, payload: payload})
	return nil
}

type fakeStress struct {
	hours int
}

func (f *fakeStress) RunBatch(ctx context.Context, hours int) (entities.StressSummary, error) {
	f.hours = hours
	return entities.StressSummary{Samples: 10}, nil
}

type fakePredictions struct {
	limit int
}

func (f *fakePredictions) SavePredictions(ctx context.Context, predictions []entities.StressPrediction) (int, error) {
	return len(predictions), nil
}

func (f *fakePredictions) RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error) {
	f.limit = limit
	return []entities.StressPrediction{{ID: "p-1"}}, nil
}
