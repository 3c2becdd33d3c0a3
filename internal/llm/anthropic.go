// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
)

// anthropicAPIBase is the Anthropic API root. Package-level var for test substitution.
var anthropicAPIBase = "https://api.anthropic.com"

const anthropicVersion = "2023-06-01"

// Anthropic calls the Claude Messages API. System messages are sent in the
// request's system field; structured completions force a tool call and
// return its input.
type Anthropic struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	UserAgent   string
	Client      *http.Client
	Log         *zap.Logger
}

// Name returns the backend identifier.
func (a *Anthropic) Name() string { return "anthropic:" + a.Model }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
	ToolChoice  *anthropicChoice   `json:"tool_choice,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	InputSchema *Schema `json:"input_schema"`
}

type anthropicChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// anthropicContent is a content block: text, or tool_use with its input.
type anthropicContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Complete returns the concatenated text blocks of the response.
func (a *Anthropic) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := a.call(ctx, a.request(messages))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		sb.WriteString(block.Text)
		found = true
	}
	if !found {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return sb.String(), nil
}

// CompleteStructured forces the model to call a tool named after target
// and returns the tool input.
func (a *Anthropic) CompleteStructured(ctx context.Context, messages []Message, target Target) (json.RawMessage, error) {
	req := a.request(messages)
	req.Tools = []anthropicTool{{
		Name:        target.Name,
		Description: target.Description,
		InputSchema: target.Schema,
	}}
	req.ToolChoice = &anthropicChoice{Type: "tool", Name: target.Name}

	resp, err := a.call(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == target.Name && len(block.Input) > 0 {
			return block.Input, nil
		}
	}
	return nil, fmt.Errorf("no %s tool_use in Claude API response", target.Name)
}

func (a *Anthropic) request(messages []Message) anthropicRequest {
	system, turns := splitSystem(messages)
	msgs := make([]anthropicMessage, 0, len(turns))
	for _, m := range turns {
		msgs = append(msgs, anthropicMessage{Role: string(m.Role), Content: m.Content})
	}
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return anthropicRequest{
		Model:       a.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: a.Temperature,
		Messages:    msgs,
	}
}

func (a *Anthropic) call(ctx context.Context, req anthropicRequest) (anthropicResponse, error) {
	log := modelLog(a.Log, a.Name())
	log.Debug("calling model", zap.Int("messages", len(req.Messages)), zap.Bool("structured", len(req.Tools) > 0))
	resp, err := a.post(ctx, req)
	if err != nil {
		log.Error("model call failed", zap.Error(err))
	}
	return resp, err
}

func (a *Anthropic) post(ctx context.Context, req anthropicRequest) (anthropicResponse, error) {
	if a.APIKey == "" {
		return anthropicResponse{}, errMissingKey("Claude")
	}
	var resp anthropicResponse
	err := httputil.PostJSON(ctx, a.Client, "Claude",
		endpoint(a.BaseURL, anthropicAPIBase, "/v1/messages"),
		headers(a.UserAgent, map[string]string{
			"x-api-key":         a.APIKey,
			"anthropic-version": anthropicVersion,
		}),
		req, &resp)
	if err != nil {
		return anthropicResponse{}, err
	}
	if len(resp.Content) == 0 {
		return anthropicResponse{}, fmt.Errorf("Claude API returned empty content")
	}
	return resp, nil
}
