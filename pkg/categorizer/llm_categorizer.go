package categorizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"tubesort/internal/config"
	"tubesort/internal/costtracker"
)

// ChatCompletionCreator is the part of the go-openai client the classifier uses.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMClassifier classifies videos through an OpenAI-compatible chat completion
// API (OpenAI itself, Groq, or any other compatible endpoint).
type LLMClassifier struct {
	client       ChatCompletionCreator
	model        string
	systemPrompt string

	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewOpenAIClient builds a go-openai client. An empty baseURL keeps the
// library's default (api.openai.com).
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// NewLLMClassifier creates a classifier. An empty systemPrompt selects
// DefaultSystemPrompt. costTracker and pricing may be nil.
func NewLLMClassifier(client ChatCompletionCreator, model, systemPrompt string, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *LLMClassifier {
	return &LLMClassifier{
		client:       client,
		model:        model,
		systemPrompt: systemPromptOrDefault(systemPrompt),
		costTracker:  costTracker,
		pricing:      pricing,
	}
}

// Classify asks the model for a category and tags. Transport failures, non-2xx
// responses, undecodable payloads and responses without choices are returned
// as errors; a response that merely deviates from the template is not an
// error and is handled by ParseResponse.
func (c *LLMClassifier) Classify(ctx context.Context, req Request) (Result, error) {
	if c.client == nil {
		return Result{}, errors.New("LLM classifier is not initialized with an OpenAI client")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("no choices returned from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	log.Debugf("Classifier response for %q: %q", req.Title, content)

	c.recordCost(ctx, resp.Usage)

	return ParseResponse(content), nil
}

func (c *LLMClassifier) recordCost(ctx context.Context, usage openai.Usage) {
	if c.costTracker == nil || usage.TotalTokens == 0 {
		return
	}
	priceInfo, ok := c.pricing[c.model]
	if !ok {
		log.Debugf("Pricing info not found for model '%s'. Cannot record cost for classification.", c.model)
		return
	}
	event := costtracker.CostEvent{
		Operation:    "classification",
		Provider:     "openai",
		Model:        c.model,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
		AmountUSD: float64(usage.PromptTokens)*priceInfo.InputPerToken +
			float64(usage.CompletionTokens)*priceInfo.OutputPerToken,
	}
	if err := c.costTracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage log for classification: %v", err)
	}
}

var _ Classifier = (*LLMClassifier)(nil)
