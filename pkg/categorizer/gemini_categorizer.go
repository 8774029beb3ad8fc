package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"tubesort/internal/config"
	"tubesort/internal/costtracker"
)

// contentGenerator is satisfied by *genai.GenerativeModel.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier classifies videos with a Google Gemini model.
type GeminiClassifier struct {
	client    *genai.Client
	generator contentGenerator
	model     string

	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewGeminiClassifier creates a Gemini-backed classifier. Close releases the
// underlying client.
func NewGeminiClassifier(ctx context.Context, apiKey, model, systemPrompt string, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key not provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	gm := client.GenerativeModel(model)
	gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPromptOrDefault(systemPrompt))}}

	log.Infof("Gemini classifier initialized with model %s", model)
	return &GeminiClassifier{
		client:      client,
		generator:   gm,
		model:       model,
		costTracker: costTracker,
		pricing:     pricing,
	}, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, req Request) (Result, error) {
	if g.generator == nil {
		return Result{}, errors.New("Gemini classifier is not initialized")
	}

	resp, err := g.generator.GenerateContent(ctx, genai.Text(userPrompt(req)))
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Result{}, errors.New("no candidates returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	g.recordCost(ctx, resp.UsageMetadata)

	return ParseResponse(sb.String()), nil
}

func (g *GeminiClassifier) recordCost(ctx context.Context, usage *genai.UsageMetadata) {
	if g.costTracker == nil || usage == nil || usage.TotalTokenCount == 0 {
		return
	}
	priceInfo, ok := g.pricing[g.model]
	if !ok {
		return
	}
	in, out := int(usage.PromptTokenCount), int(usage.CandidatesTokenCount)
	event := costtracker.CostEvent{
		Operation:    "classification",
		Provider:     "gemini",
		Model:        g.model,
		InputTokens:  in,
		OutputTokens: out,
		AmountUSD:    float64(in)*priceInfo.InputPerToken + float64(out)*priceInfo.OutputPerToken,
	}
	if err := g.costTracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage log for classification: %v", err)
	}
}

// Close cleans up the Gemini client resources.
func (g *GeminiClassifier) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

var _ Classifier = (*GeminiClassifier)(nil)
