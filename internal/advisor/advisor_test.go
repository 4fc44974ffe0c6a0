package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"cantina/internal/config"
	"cantina/internal/models"
	"cantina/internal/suggestion"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func sampleResult() suggestion.Result {
	return suggestion.Result{
		Success: true,
		Items: []models.OrderItem{
			{
				RecipeName: "Arroz Branco",
				UnitType:   "cuba-G",
				Suggestion: &models.Suggestion{
					HasSuggestion:         true,
					Confidence:            1.0,
					BasedOnSamples:        4,
					SuggestedBaseQuantity: 2.25,
					Source:                models.SourceMedianDirect,
				},
			},
			{
				RecipeName: "Salada Nova",
				UnitType:   "cuba-P",
				Suggestion: &models.Suggestion{
					HasSuggestion: false,
					Reason:        models.ReasonNoHistory,
				},
			},
		},
		Metadata: suggestion.Metadata{
			HistoricalOrders:          4,
			RecipesAnalyzed:           2,
			SuggestionsApplied:        1,
			HighConfidenceSuggestions: 1,
		},
	}
}

func TestExplainRun(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: "  Sugerimos 2.25 cubas de arroz com base nas ultimas 4 semanas.  "},
		},
	}, nil)

	adv := New(mockLLM)
	explanation, err := adv.ExplainRun(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "Sugerimos 2.25 cubas de arroz com base nas ultimas 4 semanas.", explanation)
	mockLLM.AssertExpectations(t)
}

func TestExplainRunModelError(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	adv := New(mockLLM)
	_, err := adv.ExplainRun(context.Background(), sampleResult())
	assert.ErrorContains(t, err, "rate limited")
}

func TestBuildPromptMentionsEveryItem(t *testing.T) {
	prompt := buildPrompt(sampleResult())
	assert.Contains(t, prompt, "Arroz Branco")
	assert.Contains(t, prompt, "2.25 cuba-G")
	assert.Contains(t, prompt, "median_quantity_direct")
	assert.Contains(t, prompt, "Salada Nova")
	assert.Contains(t, prompt, models.ReasonNoHistory)
	assert.Contains(t, prompt, "Pedidos historicos analisados: 4")
}

func TestNewFromConfig(t *testing.T) {
	adv, err := NewFromConfig(config.AdvisorConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, adv)

	_, err = NewFromConfig(config.AdvisorConfig{Enabled: true})
	assert.Error(t, err)

	adv, err = NewFromConfig(config.AdvisorConfig{Enabled: true, OpenAIKey: "sk-test", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.NotNil(t, adv)
}
