package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeartRateSample_ValidHR(t *testing.T) {
	assert.True(t, HeartRateSample{HR: 70, HRStatus: HRStatusValid}.ValidHR())
	assert.False(t, HeartRateSample{HR: 70, HRStatus: 0}.ValidHR())
	assert.False(t, HeartRateSample{HR: 70, HRStatus: -3}.ValidHR())
}

func TestHeartRateSample_ValidIBI(t *testing.T) {
	s := HeartRateSample{
		IBI:       []int{810, 0, 790, 805, 820},
		IBIStatus: []int{0, 0, 1, 0},
	}
	// 0 отбрасывается, 790 со статусом 1 отбрасывается, у 820 статуса нет - считается валидным
	assert.Equal(t, []int{810, 805, 820}, s.ValidIBI())

	assert.Empty(t, HeartRateSample{}.ValidIBI())
}

func TestTrackingCapabilities_Supports(t *testing.T) {
	caps := TrackingCapabilities{Trackers: []string{"ACCELEROMETER", TrackerHeartRate}}
	assert.True(t, caps.Supports(TrackerHeartRate))
	assert.False(t, caps.Supports("SPO2"))
	assert.False(t, TrackingCapabilities{}.Supports(TrackerHeartRate))
}
