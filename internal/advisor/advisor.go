// Package advisor produces short operator-facing explanations of suggestion
// runs. It is advisory prose only: nothing it generates feeds back into the
// suggested quantities.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"cantina/internal/config"
	"cantina/internal/suggestion"
)

// Advisor wraps an LLM for run explanations.
type Advisor struct {
	model llms.LLM
}

// New creates an advisor over an existing model
func New(model llms.LLM) *Advisor {
	return &Advisor{model: model}
}

// NewFromConfig builds an advisor from configuration. Returns nil when the
// advisor is disabled.
func NewFromConfig(cfg config.AdvisorConfig) (*Advisor, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("advisor enabled but no API key configured")
	}

	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.OpenAIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize advisor model: %w", err)
	}
	return &Advisor{model: llm}, nil
}

// ExplainRun asks the model for a short explanation of a pipeline run.
func (a *Advisor) ExplainRun(ctx context.Context, result suggestion.Result) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, a.model, buildPrompt(result),
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(300),
	)
	if err != nil {
		return "", fmt.Errorf("explain run: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// buildPrompt renders the run metadata and per-item suggestions into a
// compact instruction.
func buildPrompt(result suggestion.Result) string {
	var b strings.Builder
	b.WriteString("Voce e um assistente de compras de um restaurante. ")
	b.WriteString("Explique em 2-3 frases, em portugues simples, as sugestoes de quantidade abaixo para o operador.\n\n")

	meta := result.Metadata
	fmt.Fprintf(&b, "Pedidos historicos analisados: %d\n", meta.HistoricalOrders)
	fmt.Fprintf(&b, "Receitas analisadas: %d\n", meta.RecipesAnalyzed)
	fmt.Fprintf(&b, "Sugestoes aplicadas: %d (alta confianca: %d)\n\n", meta.SuggestionsApplied, meta.HighConfidenceSuggestions)

	for _, item := range result.Items {
		if item.Suggestion == nil {
			continue
		}
		s := item.Suggestion
		if !s.HasSuggestion {
			fmt.Fprintf(&b, "- %s: sem sugestao (%s)\n", item.RecipeName, s.Reason)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.2f %s (confianca %.0f%%, %d amostras, origem %s)\n",
			item.RecipeName, s.SuggestedBaseQuantity, item.UnitType,
			s.Confidence*100, s.BasedOnSamples, s.Source)
	}
	return b.String()
}
