// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
)

// openaiAPIBase is the OpenAI API root. Package-level var for test substitution.
var openaiAPIBase = "https://api.openai.com"

// OpenAI calls the Chat Completions API. Structured completions force a
// single function call whose arguments are the result.
type OpenAI struct {
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
func (o *OpenAI) Name() string { return "openai:" + o.Model }

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Tools       []openaiTool    `json:"tools,omitempty"`
	ToolChoice  any             `json:"tool_choice,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiTool struct {
	Type     string         `json:"type"`
	Function openaiFunction `json:"function"`
}

type openaiFunction struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

type openaiToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content   *string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete returns the first choice's message content.
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := o.call(ctx, o.request(messages))
	if err != nil {
		return "", err
	}
	msg := resp.Choices[0].Message
	if msg.Content == nil {
		return "", fmt.Errorf("OpenAI API returned no message content")
	}
	return *msg.Content, nil
}

// CompleteStructured forces a call to a function named after target and
// returns its arguments.
func (o *OpenAI) CompleteStructured(ctx context.Context, messages []Message, target Target) (json.RawMessage, error) {
	req := o.request(messages)
	req.Tools = []openaiTool{{
		Type: "function",
		Function: openaiFunction{
			Name:        target.Name,
			Description: target.Description,
			Parameters:  target.Schema,
		},
	}}
	choice := openaiToolChoice{Type: "function"}
	choice.Function.Name = target.Name
	req.ToolChoice = choice

	resp, err := o.call(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		if tc.Function.Name != target.Name {
			continue
		}
		args := json.RawMessage(tc.Function.Arguments)
		if !json.Valid(args) {
			return nil, fmt.Errorf("OpenAI function arguments are not valid JSON")
		}
		return args, nil
	}
	return nil, fmt.Errorf("OpenAI API returned no %s function call", target.Name)
}

func (o *OpenAI) request(messages []Message) openaiRequest {
	msgs := make([]openaiMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openaiMessage{Role: string(m.Role), Content: m.Content})
	}
	return openaiRequest{
		Model:       o.Model,
		Messages:    msgs,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
	}
}

func (o *OpenAI) call(ctx context.Context, req openaiRequest) (openaiResponse, error) {
	log := modelLog(o.Log, o.Name())
	log.Debug("calling model", zap.Int("messages", len(req.Messages)), zap.Bool("structured", len(req.Tools) > 0))
	resp, err := o.post(ctx, req)
	if err != nil {
		log.Error("model call failed", zap.Error(err))
	}
	return resp, err
}

func (o *OpenAI) post(ctx context.Context, req openaiRequest) (openaiResponse, error) {
	if o.APIKey == "" {
		return openaiResponse{}, errMissingKey("OpenAI")
	}
	var resp openaiResponse
	err := httputil.PostJSON(ctx, o.Client, "OpenAI",
		endpoint(o.BaseURL, openaiAPIBase, "/v1/chat/completions"),
		headers(o.UserAgent, map[string]string{"Authorization": "Bearer " + o.APIKey}),
		req, &resp)
	if err != nil {
		return openaiResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return openaiResponse{}, fmt.Errorf("OpenAI API returned no choices")
	}
	return resp, nil
}
