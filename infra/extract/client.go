// Package extract wraps the natural-language extraction service that turns
// raw report text into structured data. The service is treated as a fallible
// black box: any transport, auth or parse failure degrades to the neutral
// unresolved extraction and never reaches the dispatch loop as an error.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/communityshield/dispatch/core/logger"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/core/pipeline"
)

// Config defines the extraction service connection.
type Config struct {
	// APIURL is an OpenAI-compatible chat completions endpoint. Empty
	// selects the offline heuristic extractor.
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
	// TimeoutSeconds bounds each extraction call. Defaults to 10.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Model == "" {
		c.Model = "llama-3.3-70b-versatile"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

const systemPrompt = `You are an expert Police Dispatch Analyst.
Your job is to extract structured data from raw emergency reports.
Return ONLY a valid JSON object with the following fields:
- type: The type of incident (e.g., Robbery, Accident).
- severity: Critical, High, Medium, or Low.
- location: A short text description of the location.
- lat: Estimated latitude (if mentioned or inferred from known Nairobi landmarks, otherwise null).
- lng: Estimated longitude (if mentioned or inferred from known Nairobi landmarks, otherwise null).
- summary: A brief 5-word summary.

Known Nairobi Landmarks for Inference:
- CBD/Archives: -1.2834, 36.8235
- Westlands/Sarit: -1.2635, 36.8024
- Kibera: -1.3120, 36.7890
- Eastleigh: -1.2760, 36.8480
- Karen: -1.3200, 36.7050
- Thika Road: -1.2200, 36.8900

If you cannot infer coordinates, use null. Do not hallucinate coordinates.`

// HTTPExtractor calls a chat-completions style extraction service.
type HTTPExtractor struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewHTTPExtractor creates an extractor for the configured endpoint.
func NewHTTPExtractor(cfg Config, log logger.Logger) *HTTPExtractor {
	cfg.SetDefaults()
	return &HTTPExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    log,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// analysisPayload mirrors the JSON object the service is instructed to
// return.
type analysisPayload struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Summary  string   `json:"summary"`
}

// Extract implements pipeline.Extractor.
func (e *HTTPExtractor) Extract(ctx context.Context, raw model.RawReport) pipeline.Extraction {
	payload, err := e.call(ctx, raw.RawText)
	if err != nil {
		e.log.Warnf("extraction failed for report %s: %v", raw.ID, err)
		return pipeline.Failed()
	}
	sev, ok := model.ParseSeverity(payload.Severity)
	if !ok {
		sev = model.SeverityMedium
	}
	return pipeline.Resolved(model.StructuredReport{
		Type:     payload.Type,
		Severity: sev,
		Location: payload.Location,
		Lat:      payload.Lat,
		Lng:      payload.Lng,
		Summary:  payload.Summary,
	})
}

func (e *HTTPExtractor) call(ctx context.Context, text string) (analysisPayload, error) {
	var out analysisPayload
	req := chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	}
	req.ResponseFormat.Type = "json_object"
	body, err := json.Marshal(req)
	if err != nil {
		return out, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("extraction service returned %s", resp.Status)
	}
	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return out, err
	}
	if len(chat.Choices) == 0 {
		return out, fmt.Errorf("extraction service returned no choices")
	}
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &out); err != nil {
		return out, fmt.Errorf("unparsable analysis: %w", err)
	}
	return out, nil
}
