// Package vision wraps the external AI image-analysis service. The boundary
// is degraded-mode by contract: callers always get a usable Analysis, never
// an error, so a flaky upstream cannot stall bin processing.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"smartcity-service/internal/metrics"
)

// Analysis is the upstream verdict for one bin image.
type Analysis struct {
	IsFull     bool    `json:"is_full"`
	FillLevel  int     `json:"fill_level"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
	// Degraded marks a conservative fallback produced locally because the
	// upstream was unreachable or returned garbage.
	Degraded bool `json:"-"`
}

// Fallback is the conservative verdict used when the upstream cannot be
// trusted: assume the bin is full so a collection is scheduled rather than
// skipped.
func Fallback(notes string) Analysis {
	return Analysis{IsFull: true, FillLevel: 50, Confidence: 25, Notes: notes, Degraded: true}
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      zerolog.Logger
}

func NewClient(endpoint, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// AnalyzeImage posts raw JPEG bytes and returns the parsed verdict, or the
// fallback on any transport or decode failure.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte) Analysis {
	if c.endpoint == "" {
		return c.degraded("vision endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return c.degraded("build vision request failed")
	}
	req.Header.Set("Content-Type", "image/jpeg")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("vision request failed")
		return c.degraded("vision service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("vision request rejected")
		return c.degraded("vision service returned non-200")
	}

	var result Analysis
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Warn().Err(err).Msg("vision response unparsable")
		return c.degraded("vision response unparsable")
	}

	if result.FillLevel < 0 {
		result.FillLevel = 0
	}
	if result.FillLevel > 100 {
		result.FillLevel = 100
	}
	return result
}

func (c *Client) degraded(reason string) Analysis {
	metrics.VisionFallbacks.Inc()
	return Fallback(reason)
}
