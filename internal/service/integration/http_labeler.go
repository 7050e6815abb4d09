package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

type httpLabeler struct {
	baseURL    string
	endpoint   string
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

type labelRequest struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type labelResponse struct {
	Labels []models.DetectedLabel `json:"labels"`
}

func NewHTTPLabeler(baseURL, endpoint string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) Labeler {
	return &httpLabeler{
		baseURL:    baseURL,
		endpoint:   endpoint,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (l *httpLabeler) DetectLabels(ctx context.Context, imageURL string, content []byte) ([]models.DetectedLabel, error) {
	payload, err := json.Marshal(labelRequest{
		ImageURL:    imageURL,
		ImageBase64: base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal label request: %w", err)
	}

	url := l.baseURL + l.endpoint
	var lastErr error

	for i := 0; i <= l.retryCount; i++ {
		if i > 0 {
			l.logger.Warn().Int("attempt", i).Str("image_url", imageURL).Msg("Retrying label detection")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.retryDelay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := l.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to call labeler: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var body labelResponse
			err := json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			return body.Labels, nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("labeler returned status %d: %s", resp.StatusCode, string(body))

		// client errors will not succeed on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("failed to detect labels: %w", lastErr)
}
