// Package summarizer generates text with the configured LLM.
package summarizer

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Summarizer turns a prompt into generated text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Config for the Gemini summarizer.
type Config struct {
	APIKey    string `json:"api_key"`
	ModelName string `json:"model_name"`
	MaxTokens int    `json:"max_tokens"`
}

// Gemini is a Summarizer backed by Google AI through langchain.
type Gemini struct {
	llm       llms.Model
	modelName string
	maxTokens int
}

// New initializes the Gemini summarizer.
func New(ctx context.Context, config Config) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	modelName := config.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192 // Default max output tokens for Gemini
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(modelName),
		googleai.WithDefaultMaxTokens(maxTokens),
	}

	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Gemini{llm: llm, modelName: modelName, maxTokens: maxTokens}, nil
}

// ModelName returns the model this summarizer generates with.
func (g *Gemini) ModelName() string {
	return g.modelName
}

// Summarize sends one prompt and returns the raw model text.
func (g *Gemini) Summarize(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}
