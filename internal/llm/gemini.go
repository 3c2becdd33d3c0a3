// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiOptions configures NewGemini.
type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
	Log         *zap.Logger
}

// Gemini calls the Gemini API through the genai client. Structured
// completions request application/json constrained by a response schema.
type Gemini struct {
	cli         *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	log         *zap.Logger
}

// NewGemini builds a genai client for the Gemini API backend.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errMissingKey("Gemini")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.Client,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{
		cli:         cli,
		model:       orDefault(opts.Model, DefaultGeminiModel),
		temperature: float32(opts.Temperature),
		maxTokens:   int32(opts.MaxTokens),
		log:         opts.Log,
	}, nil
}

// Name returns the backend identifier.
func (g *Gemini) Name() string { return "gemini:" + g.model }

// Complete returns the response text.
func (g *Gemini) Complete(ctx context.Context, messages []Message) (string, error) {
	contents, cfg := g.request(messages)
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini API returned no text")
	}
	return text, nil
}

// CompleteStructured asks for JSON matching target.Schema.
func (g *Gemini) CompleteStructured(ctx context.Context, messages []Message, target Target) (json.RawMessage, error) {
	contents, cfg := g.request(messages)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = toGenaiSchema(target.Schema)

	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(strings.TrimSpace(resp.Text()))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("Gemini response for %s is not valid JSON", target.Name)
	}
	return raw, nil
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	log := modelLog(g.log, g.Name())
	log.Debug("calling model", zap.Int("messages", len(contents)), zap.Bool("structured", cfg.ResponseSchema != nil))
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		log.Error("model call failed", zap.Error(err))
		return nil, fmt.Errorf("calling Gemini API: %w", err)
	}
	return resp, nil
}

func (g *Gemini) request(messages []Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, turns := splitSystem(messages)

	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: g.maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	return contents, cfg
}

// toGenaiSchema converts a Schema to the genai representation.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
