package healthtracking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// Пути сервиса трекинга на устройстве.
const (
	CapabilitiesPath = "/capabilities"
	HeartRatePath    = "/heartrate"
)

// Client - HTTP клиент сервиса трекинга на часах
type Client struct {
	http *http.Client
}

// NewClient создает клиент с таймаутом на запрос
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// FetchCapabilities запрашивает список трекеров, доступных на устройстве
func (c *Client) FetchCapabilities(ctx context.Context, endpointURL string) (entities.TrackingCapabilities, error) {
	var caps entities.TrackingCapabilities
	body, err := c.FetchJSON(ctx, joinURL(endpointURL, CapabilitiesPath))
	if err != nil {
		return caps, err
	}
	if err := json.Unmarshal(body, &caps); err != nil {
		return caps, fmt.Errorf("не удалось распарсить %s с %s: %w", CapabilitiesPath, endpointURL, err)
	}
	return caps, nil
}

// FetchHeartRate забирает измерения, накопленные с прошлого запроса
func (c *Client) FetchHeartRate(ctx context.Context, endpointURL string) ([]entities.HeartRateSample, error) {
	body, err := c.FetchJSON(ctx, joinURL(endpointURL, HeartRatePath))
	if err != nil {
		return nil, err
	}
	return ParseSamples(body)
}

// FetchJSON выполняет GET-запрос к указанному URL, запрашивая JSON
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к %s: %w", url, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса к %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("сервер %s ответил со статусом %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа от %s: %w", url, err)
	}

	return body, nil
}

func joinURL(endpointURL, path string) string {
	return strings.TrimSuffix(endpointURL, "/") + path
}
