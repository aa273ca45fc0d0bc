package entities

import (
	"slices"
	"time"
)

// Статусы измерений трекера пульса.
const (
	// HRStatusValid - единственный статус, при котором значение пульса достоверно
	HRStatusValid = 1
	// IBIStatusValid - статус достоверного межударного интервала
	IBIStatusValid = 0
)

// TrackerHeartRate - идентификатор трекера пульса в списке возможностей устройства
const TrackerHeartRate = "HEART_RATE_CONTINUOUS"

// HeartRateSample - сырое измерение, полученное от сервиса трекинга
type HeartRateSample struct {
	HR        int       `json:"hr"`
	HRStatus  int       `json:"hrStatus"`
	IBI       []int     `json:"ibi"`
	IBIStatus []int     `json:"ibiStatus"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidHR сообщает, можно ли доверять значению пульса.
func (s HeartRateSample) ValidHR() bool {
	return s.HRStatus == HRStatusValid
}

// ValidIBI возвращает только достоверные ненулевые межударные интервалы.
func (s HeartRateSample) ValidIBI() []int {
	valid := make([]int, 0, len(s.IBI))
	for i, ibi := range s.IBI {
		status := IBIStatusValid
		if i < len(s.IBIStatus) {
			status = s.IBIStatus[i]
		}
		if status == IBIStatusValid && ibi != 0 {
			valid = append(valid, ibi)
		}
	}
	return valid
}

// TrackedData - очищенное значение, которое отправляется на телефон
type TrackedData struct {
	HR  int   `json:"hr" validate:"gte=0,lte=300"`
	IBI []int `json:"ibi" validate:"dive,gte=0,lte=3000"`
}

// TrackingCapabilities - список трекеров, доступных на устройстве
type TrackingCapabilities struct {
	Device   string   `json:"device"`
	Trackers []string `json:"trackers"`
}

// Supports сообщает, доступен ли трекер kind.
func (c TrackingCapabilities) Supports(kind string) bool {
	return slices.Contains(c.Trackers, kind)
}

// TrackerMessageType - тип сообщения из потока трекера
type TrackerMessageType string

const (
	TrackerData           TrackerMessageType = "data"
	TrackerFlushCompleted TrackerMessageType = "flush_completed"
	TrackerError          TrackerMessageType = "error"
)

// TrackerMessage - элемент потока трекинга пульса
type TrackerMessage struct {
	Type  TrackerMessageType `json:"type"`
	Data  *TrackedData       `json:"data,omitempty"`
	Error string             `json:"error,omitempty"`
}

// TrackingState - состояние трекинга, отображаемое view-model
type TrackingState struct {
	IsTracking  bool         `json:"isTracking"`
	SessionID   string       `json:"sessionId,omitempty"`
	LastValue   *TrackedData `json:"lastValue,omitempty"`
	ValuesCount int          `json:"valuesCount"`
	LastError   string       `json:"lastError,omitempty"`
}

// ViewModelState - снимок состояния view-model
type ViewModelState struct {
	Connection     ConnectionState `json:"connection"`
	ConnectionInfo *ConnectionInfo `json:"connectionInfo,omitempty"`
	Capable        bool            `json:"capable"`
	Tracking       TrackingState   `json:"tracking"`
	MessageSent    *bool           `json:"messageSent,omitempty"`
}
