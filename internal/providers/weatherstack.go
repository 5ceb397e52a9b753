package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"ulascansenturk/weather-loader/internal/etlerr"
)

type WeatherStackAPIService interface {
	Fetch(ctx context.Context, city string) (*WeatherResponse, error)
	GetHTTPClient() *http.Client
}

// WeatherResponse is the decoded /current payload. Numbers stay json.Number so their
// literal text is what gets hashed downstream.
type WeatherResponse struct {
	City    string
	Payload map[string]any
}

// APIError is a failure reported by Weatherstack itself or a response it should never send.
type APIError struct {
	City string
	Code int
	Type string
	Info string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("weather api error for %s: %s", e.City, e.Info)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d", e.Code)
		if e.Type != "" {
			msg += ", type " + e.Type
		}
		msg += ")"
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == etlerr.ErrAPI
}

type weatherStackAPIService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewWeatherStackAPIService builds the fetcher. After maxFailures consecutive network failures
// the breaker opens and further cities fail fast until it half-opens again.
func NewWeatherStackAPIService(apiKey, baseURL string, timeout time.Duration, maxFailures uint32) WeatherStackAPIService {
	if maxFailures == 0 {
		maxFailures = 1
	}

	return &weatherStackAPIService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weatherstack",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			// the provider answering with an error still means it is reachable
			IsSuccessful: func(err error) bool {
				return err == nil || !errors.Is(err, etlerr.ErrNetwork)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}
}

func (s *weatherStackAPIService) Fetch(ctx context.Context, city string) (*WeatherResponse, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: city cannot be empty", etlerr.ErrConfig)
	}

	values := url.Values{}
	values.Set("access_key", s.apiKey)
	values.Set("query", city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", etlerr.ErrNetwork, city, err)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.do(req, city)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: skipping %s, weather api circuit open: %w", etlerr.ErrNetwork, city, err)
	}
	if err != nil {
		return nil, err
	}

	return result.(*WeatherResponse), nil
}

func (s *weatherStackAPIService) do(req *http.Request, city string) (*WeatherResponse, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request for %s failed: %w", etlerr.ErrNetwork, city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: weather api returned status code %d for %s", etlerr.ErrNetwork, resp.StatusCode, city)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{City: city, Code: resp.StatusCode, Info: fmt.Sprintf("unexpected status code %d", resp.StatusCode)}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, &APIError{City: city, Info: "malformed JSON: " + err.Error()}
	}
	if payload == nil {
		return nil, &APIError{City: city, Info: "malformed JSON: response body is not an object"}
	}

	// a missing success flag means success; only an explicit false is a failure
	if success, ok := payload["success"].(bool); ok && !success {
		return nil, apiErrorFromPayload(city, payload)
	}

	return &WeatherResponse{City: city, Payload: payload}, nil
}

func apiErrorFromPayload(city string, payload map[string]any) *APIError {
	apiErr := &APIError{City: city, Info: "Unknown"}

	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		return apiErr
	}

	if info, ok := errObj["info"].(string); ok && info != "" {
		apiErr.Info = info
	}
	if errType, ok := errObj["type"].(string); ok {
		apiErr.Type = errType
	}
	if code, ok := errObj["code"].(json.Number); ok {
		if n, err := code.Int64(); err == nil {
			apiErr.Code = int(n)
		}
	}

	return apiErr
}

func (s *weatherStackAPIService) GetHTTPClient() *http.Client {
	return s.client
}
