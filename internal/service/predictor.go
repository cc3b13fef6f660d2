package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"clinic-staffing/config"
)

// WeekPoint identifies one ISO week
type WeekPoint struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Predictor forecasts weekly study volumes for a study type. The
// forecast service is an opaque external collaborator; it may block on
// model evaluation, so callers must bound the context.
type Predictor interface {
	Forecast(ctx context.Context, studyType string, points []WeekPoint) ([]float64, error)
}

type httpPredictor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPredictor talks to the forecast service over JSON/HTTP.
func NewHTTPPredictor(cfg config.PredictorConfig) Predictor {
	return &httpPredictor{
		baseURL: cfg.BaseURL,
		client:  &http.Client{},
	}
}

type forecastRequest struct {
	StudyType string      `json:"study_type"`
	Points    []WeekPoint `json:"points"`
}

type forecastResponse struct {
	Values []float64 `json:"values"`
}

func (p *httpPredictor) Forecast(ctx context.Context, studyType string, points []WeekPoint) ([]float64, error) {
	body, err := json.Marshal(forecastRequest{StudyType: studyType, Points: points})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if len(out.Values) != len(points) {
		return nil, fmt.Errorf("forecast service returned %d values for %d points", len(out.Values), len(points))
	}
	return out.Values, nil
}
