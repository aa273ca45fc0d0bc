package entities

import "time"

// ConnectionRequest определяет структуру для нового запроса на подключение к сервису трекинга.
type ConnectionRequest struct {
	EndpointURL string `json:"EndpointURL" binding:"required,url"`
	Device      string `json:"Device,omitempty"`
}

// SessionRequest определяет структуру для запросов, использующих SessionID.
type SessionRequest struct {
	SessionID string `json:"SessionID" binding:"required"`
}

// ConnectionConfig содержит проверенную конфигурацию подключения.
type ConnectionConfig struct {
	EndpointURL string `json:"EndpointURL"`
	Device      string `json:"Device"`
}

// ConnectionInfo представляет активное подключение в пуле.
type ConnectionInfo struct {
	SessionID    string               `json:"SessionID"`
	Config       ConnectionConfig     `json:"Config"`
	Capabilities TrackingCapabilities `json:"Capabilities"`
	CreatedAt    time.Time            `json:"CreatedAt"`
	LastUsed     time.Time            `json:"LastUsed"`
	UseCount     int64                `json:"UseCount"`
	IsHealthy    bool                 `json:"IsHealthy"`
}

// ConnectionState - состояние подключения view-model к сервису трекинга
type ConnectionState string

const (
	ConnectionIdle       ConnectionState = "idle"
	ConnectionConnecting ConnectionState = "connecting"
	ConnectionConnected  ConnectionState = "connected"
	ConnectionFailed     ConnectionState = "failed"
)
