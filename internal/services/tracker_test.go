package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testConn = &entities.ConnectionInfo{
	SessionID: "session-1",
	Config:    entities.ConnectionConfig{EndpointURL: "http://watch:7000"},
}

func receive(t *testing.T, stream <-chan entities.TrackerMessage) entities.TrackerMessage {
	t.Helper()
	select {
	case msg, ok := <-stream:
		require.True(t, ok, "поток закрыт раньше времени")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("нет сообщения от трекера")
		return entities.TrackerMessage{}
	}
}

func TestTrackingService_StreamsValidValues(t *testing.T) {
	client := &fakeClient{batches: [][]entities.HeartRateSample{{
		{HR: 71, HRStatus: 1, IBI: []int{845}, IBIStatus: []int{0}},
		{HR: 0, HRStatus: -10},
		{HR: 73, HRStatus: 1, IBI: []int{820, 0}, IBIStatus: []int{0, 0}},
	}}}
	m := metrics.New()
	svc := NewTrackingService(client, m, 100, zap.NewNop())

	stream, err := svc.StartTracking(context.Background(), testConn, 5*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, svc.IsTracking(testConn.SessionID))

	first := receive(t, stream)
	require.Equal(t, entities.TrackerData, first.Type)
	assert.Equal(t, entities.TrackedData{HR: 71, IBI: []int{845}}, *first.Data)

	second := receive(t, stream)
	assert.Equal(t, entities.TrackedData{HR: 73, IBI: []int{820}}, *second.Data)

	require.NoError(t, svc.StopTracking(testConn.SessionID))
	assert.False(t, svc.IsTracking(testConn.SessionID))

	flush := receive(t, stream)
	assert.Equal(t, entities.TrackerFlushCompleted, flush.Type)
	_, open := <-stream
	assert.False(t, open)

	assert.Len(t, svc.Values(testConn.SessionID), 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SamplesTracked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SamplesDropped))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestTrackingService_DoubleStart(t *testing.T) {
	svc := NewTrackingService(&fakeClient{}, metrics.New(), 10, zap.NewNop())
	_, err := svc.StartTracking(context.Background(), testConn, time.Hour)
	require.NoError(t, err)
	defer svc.StopAll()

	_, err = svc.StartTracking(context.Background(), testConn, time.Hour)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTrackingActive))
}

func TestTrackingService_InvalidInterval(t *testing.T) {
	svc := NewTrackingService(&fakeClient{}, metrics.New(), 10, zap.NewNop())
	_, err := svc.StartTracking(context.Background(), testConn, 0)
	assert.Error(t, err)
}

func TestTrackingService_ErrorMessage(t *testing.T) {
	client := &fakeClient{hrErr: errors.New("device asleep")}
	svc := NewTrackingService(client, metrics.New(), 10, zap.NewNop())

	stream, err := svc.StartTracking(context.Background(), testConn, 5*time.Millisecond)
	require.NoError(t, err)
	defer svc.StopAll()

	msg := receive(t, stream)
	assert.Equal(t, entities.TrackerError, msg.Type)
	assert.Contains(t, msg.Error, "device asleep")
}

func TestTrackingService_ValuesBounded(t *testing.T) {
	svc := NewTrackingService(&fakeClient{}, metrics.New(), 3, zap.NewNop())
	for hr := 60; hr < 65; hr++ {
		svc.appendValue("s", entities.TrackedData{HR: hr})
	}
	values := svc.Values("s")
	require.Len(t, values, 3)
	assert.Equal(t, 62, values[0].HR)
	assert.Equal(t, 64, values[2].HR)

	values[0].HR = 0
	assert.Equal(t, 62, svc.Values("s")[0].HR)
}

func TestTrackingService_StopUnknownSession(t *testing.T) {
	svc := NewTrackingService(&fakeClient{}, metrics.New(), 10, zap.NewNop())
	assert.NoError(t, svc.StopTracking("missing"))
}

func TestTrackingService_RestartResetsValues(t *testing.T) {
	svc := NewTrackingService(&fakeClient{}, metrics.New(), 10, zap.NewNop())
	svc.appendValue(testConn.SessionID, entities.TrackedData{HR: 90})

	_, err := svc.StartTracking(context.Background(), testConn, time.Hour)
	require.NoError(t, err)
	defer svc.StopAll()

	assert.Empty(t, svc.Values(testConn.SessionID))
}

func TestTrackingService_FlushDeliveredWhenBufferFull(t *testing.T) {
	client := &fakeClient{hrErr: errors.New("device asleep")}
	svc := NewTrackingService(client, metrics.New(), 10, zap.NewNop())

	stream, err := svc.StartTracking(context.Background(), testConn, time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(stream) == cap(stream) }, 2*time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = svc.StopTracking(testConn.SessionID)
	}()
	time.Sleep(50 * time.Millisecond)

	var last entities.TrackerMessage
	for msg := range stream {
		last = msg
	}
	<-stopped
	assert.Equal(t, entities.TrackerFlushCompleted, last.Type)
}
