package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWatchClient() *fakeClient {
	return &fakeClient{caps: entities.TrackingCapabilities{
		Device:   "Galaxy Watch6",
		Trackers: []string{entities.TrackerHeartRate},
	}}
}

func TestConnectionService_CreateConnection(t *testing.T) {
	client := newWatchClient()
	svc := NewConnectionService(client, &fakeTracking{}, time.Minute, zap.NewNop())

	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000/"})
	require.NoError(t, err)

	assert.NotEmpty(t, conn.SessionID)
	assert.Equal(t, "http://watch:7000", conn.Config.EndpointURL)
	assert.Equal(t, "Galaxy Watch6", conn.Config.Device)
	assert.True(t, conn.IsHealthy)
	assert.EqualValues(t, 1, conn.UseCount)

	got, ok := svc.GetConnection(conn.SessionID)
	require.True(t, ok)
	assert.Equal(t, conn, got)
	assert.NotSame(t, conn, got)
	assert.Len(t, svc.GetAllConnections(), 1)
}

func TestConnectionService_CreateConnection_Duplicate(t *testing.T) {
	svc := NewConnectionService(newWatchClient(), &fakeTracking{}, time.Minute, zap.NewNop())
	_, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)

	_, err = svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000/"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConnectionExists))
}

func TestConnectionService_CreateConnection_ProbeFailure(t *testing.T) {
	client := newWatchClient()
	client.capsErr = errors.New("connection refused")
	svc := NewConnectionService(client, &fakeTracking{}, time.Minute, zap.NewNop())

	_, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConnectionProbe))
	assert.Empty(t, svc.GetAllConnections())
}

func TestConnectionService_CreateConnection_DeviceMismatch(t *testing.T) {
	svc := NewConnectionService(newWatchClient(), &fakeTracking{}, time.Minute, zap.NewNop())

	_, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000", Device: "Pixel Watch"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pixel Watch")

	_, err = svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000", Device: "galaxy watch6"})
	assert.NoError(t, err)
}

func TestConnectionService_DeleteConnection(t *testing.T) {
	tracking := &fakeTracking{}
	svc := NewConnectionService(newWatchClient(), tracking, time.Minute, zap.NewNop())
	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConnection(conn.SessionID))
	assert.Equal(t, []string{conn.SessionID}, tracking.stopped)
	assert.Empty(t, svc.GetAllConnections())

	err = svc.DeleteConnection(conn.SessionID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConnectionNotFound))
}

func TestConnectionService_CheckConnection(t *testing.T) {
	client := newWatchClient()
	svc := NewConnectionService(client, &fakeTracking{}, time.Minute, zap.NewNop())
	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)

	checked, err := svc.CheckConnection(context.Background(), conn.SessionID)
	require.NoError(t, err)
	assert.True(t, checked.IsHealthy)
	assert.EqualValues(t, 2, checked.UseCount)

	client.mu.Lock()
	client.capsErr = errors.New("timeout")
	client.mu.Unlock()

	checked, err = svc.CheckConnection(context.Background(), conn.SessionID)
	require.Error(t, err)
	assert.False(t, checked.IsHealthy)

	_, err = svc.CheckConnection(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrConnectionNotFound))
}

func TestConnectionService_Capabilities_Cached(t *testing.T) {
	client := newWatchClient()
	svc := NewConnectionService(client, &fakeTracking{}, time.Minute, zap.NewNop())
	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)
	require.Equal(t, 1, client.calls())

	for i := 0; i < 3; i++ {
		caps, err := svc.Capabilities(context.Background(), conn.SessionID)
		require.NoError(t, err)
		assert.True(t, caps.Supports(entities.TrackerHeartRate))
	}
	assert.Equal(t, 1, client.calls())

	_, err = svc.Capabilities(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrConnectionNotFound))
}

func TestConnectionService_CheckConnection_DoesNotMutateReturnedInfo(t *testing.T) {
	client := newWatchClient()
	svc := NewConnectionService(client, &fakeTracking{}, time.Minute, zap.NewNop())
	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)

	_, err = svc.CheckConnection(context.Background(), conn.SessionID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, conn.UseCount)

	got, ok := svc.GetConnection(conn.SessionID)
	require.True(t, ok)
	assert.EqualValues(t, 2, got.UseCount)
}

func TestConnectionService_ConcurrentAccess(t *testing.T) {
	svc := NewConnectionService(newWatchClient(), &fakeTracking{}, time.Millisecond, zap.NewNop())
	conn, err := svc.CreateConnection(context.Background(), entities.ConnectionRequest{EndpointURL: "http://watch:7000"})
	require.NoError(t, err)

	var observed int64
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = svc.CheckConnection(context.Background(), conn.SessionID)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = svc.Capabilities(context.Background(), conn.SessionID)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, c := range svc.GetAllConnections() {
				observed += c.UseCount
			}
		}
	}()
	wg.Wait()

	got, ok := svc.GetConnection(conn.SessionID)
	require.True(t, ok)
	assert.EqualValues(t, 201, got.UseCount)
	assert.True(t, got.IsHealthy)
	assert.Positive(t, observed)
}
