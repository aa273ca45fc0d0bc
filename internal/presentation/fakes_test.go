package presentation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// fakeConnect выдаёт сессии s1, s2, ... по числу вызовов Connect.
type fakeConnect struct {
	mu           sync.Mutex
	err          error
	calls        int
	disconnected []string
}

func (f *fakeConnect) Connect(ctx context.Context, req entities.ConnectionRequest) (*entities.ConnectionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &entities.ConnectionInfo{
		SessionID: fmt.Sprintf("s%d", f.calls),
		Config:    entities.ConnectionConfig{EndpointURL: strings.TrimSuffix(req.EndpointURL, "/")},
	}, nil
}

func (f *fakeConnect) Disconnect(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, sessionID)
	return nil
}

type fakeSend struct {
	sessions []string
	err      error
}

func (f *fakeSend) Send(ctx context.Context, sessionID string) (bool, error) {
	f.sessions = append(f.sessions, sessionID)
	return f.err == nil, f.err
}

// fakeTracker отдаёт поток, который закрывается при Stop.
type fakeTracker struct {
	mu      sync.Mutex
	streams map[string]chan entities.TrackerMessage
	stopped []string
	err     error
	// если задан, Track ждёт его закрытия
	gate chan struct{}
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{streams: map[string]chan entities.TrackerMessage{}}
}

func (f *fakeTracker) Track(ctx context.Context, sessionID string) (<-chan entities.TrackerMessage, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	stream := make(chan entities.TrackerMessage, 8)
	f.streams[sessionID] = stream
	return stream, nil
}

func (f *fakeTracker) push(sessionID string, msg entities.TrackerMessage) {
	f.mu.Lock()
	stream := f.streams[sessionID]
	f.mu.Unlock()
	stream <- msg
}

func (f *fakeTracker) Stop(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, sessionID)
	if stream, ok := f.streams[sessionID]; ok {
		stream <- entities.TrackerMessage{Type: entities.TrackerFlushCompleted}
		close(stream)
		delete(f.streams, sessionID)
	}
	return nil
}

type fakeCapabilities struct {
	available bool
	err       error
}

func (f *fakeCapabilities) AreAvailable(ctx context.Context, sessionID string) (bool, error) {
	return f.available, f.err
}
