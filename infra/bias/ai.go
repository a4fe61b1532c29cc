package bias

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/communityshield/dispatch/core/logger"
	"github.com/communityshield/dispatch/core/model"
)

// Config defines the AI bias annotation service connection. An empty APIURL
// disables the AI path entirely; the keyword annotator is used instead.
type Config struct {
	APIURL         string `json:"api_url"`
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
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

const biasPrompt = `You are an ethics reviewer for a police dispatch system.
Given a structured incident report, assess the risk that the reported
severity reflects subjective or location-based bias rather than objective
threat indicators. Return ONLY a valid JSON object:
- score: bias risk between 0.0 (low) and 1.0 (high)
- status: "Flagged" if score is above 0.4, otherwise "Clear"
- warnings: list of short warning strings, empty if none
- reasoning: one sentence explaining the score`

// AIAnnotator asks an AI reviewer to score the report and falls back to the
// keyword annotator on any failure, preserving the annotation shape.
type AIAnnotator struct {
	cfg      Config
	client   *http.Client
	fallback KeywordAnnotator
	log      logger.Logger
}

// NewAIAnnotator creates the AI-backed annotator.
func NewAIAnnotator(cfg Config, log logger.Logger) *AIAnnotator {
	cfg.SetDefaults()
	return &AIAnnotator{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    log,
	}
}

// Annotate implements pipeline.Annotator.
func (a *AIAnnotator) Annotate(ctx context.Context, report model.StructuredReport) model.BiasAnnotation {
	ann, err := a.call(ctx, report)
	if err != nil {
		a.log.Warnf("ai bias check unavailable, using keyword fallback: %v", err)
		return a.fallback.Annotate(ctx, report)
	}
	return ann
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

type verdictPayload struct {
	Score     float64  `json:"score"`
	Status    string   `json:"status"`
	Warnings  []string `json:"warnings"`
	Reasoning string   `json:"reasoning"`
}

func (a *AIAnnotator) call(ctx context.Context, report model.StructuredReport) (model.BiasAnnotation, error) {
	var zero model.BiasAnnotation
	input, err := json.Marshal(report)
	if err != nil {
		return zero, err
	}
	req := chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: biasPrompt},
			{Role: "user", Content: string(input)},
		},
	}
	req.ResponseFormat.Type = "json_object"
	body, err := json.Marshal(req)
	if err != nil {
		return zero, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("bias service returned %s", resp.Status)
	}
	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return zero, err
	}
	if len(chat.Choices) == 0 {
		return zero, fmt.Errorf("bias service returned no choices")
	}
	var verdict verdictPayload
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &verdict); err != nil {
		return zero, fmt.Errorf("unparsable verdict: %w", err)
	}
	if verdict.Score < 0 || verdict.Score > 1 {
		return zero, fmt.Errorf("score %v out of range", verdict.Score)
	}

	status := model.BiasClear
	if verdict.Score > flagThreshold {
		status = model.BiasFlagged
	}
	warnings := verdict.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return model.BiasAnnotation{
		Score:     verdict.Score,
		Status:    status,
		Warnings:  warnings,
		Reasoning: verdict.Reasoning,
		Method:    "ai",
	}, nil
}
