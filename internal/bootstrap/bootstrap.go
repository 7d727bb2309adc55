// Package bootstrap builds the extraction components shared by the server and
// the command line tools from a loaded Config.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/zatekoja/grocerylist/backend/internal/adapters/fetch"
	"github.com/zatekoja/grocerylist/backend/internal/application/services"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/llmproxy"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// Completion provider names accepted in LLM_PROVIDER.
const (
	ProviderProxy  = "proxy"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// NewNormalizer returns the built-in vocabulary, layered with the file at
// cfg.VocabularyPath when one is set.
func NewNormalizer(cfg config.PipelineConfig) (*utils.IngredientNormalizer, error) {
	if cfg.VocabularyPath == "" {
		return utils.NewIngredientNormalizer(nil), nil
	}
	normalizer, err := utils.NewIngredientNormalizerFromFile(cfg.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("load ingredient vocabulary %s: %w", cfg.VocabularyPath, err)
	}
	return normalizer, nil
}

// NewCompletionProvider selects the pipeline's completion backend. The
// returned close function is never nil. A nil provider means the language
// model fallback is off.
func NewCompletionProvider(cfg *config.Config) (providers.CompletionProvider, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(cfg.LLMProxy.Provider)) {
	case ProviderNone, "":
		return nil, noop, nil
	case ProviderProxy:
		client, err := llmproxy.NewClient(&cfg.LLMProxy)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	case ProviderOpenAI:
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown completion provider %q", cfg.LLMProxy.Provider)
	}
}

// Pipeline bundles a configured pipeline with what it was built from.
type Pipeline struct {
	Service    *services.RecipePipelineService
	Normalizer *utils.IngredientNormalizer
	Completion providers.CompletionProvider
	close      func()
}

// Close releases the completion provider.
func (p *Pipeline) Close() {
	if p.close != nil {
		p.close()
	}
}

// NewPipeline wires the fetcher, normalizer and completion provider into a
// RecipePipelineService.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	normalizer, err := NewNormalizer(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	completion, closeFn, err := NewCompletionProvider(cfg)
	if err != nil {
		return nil, err
	}

	service := services.NewRecipePipelineService(
		fetch.NewHTTPFetcher(cfg.Fetch),
		completion,
		normalizer,
		services.PipelineOptionsFromConfig(cfg.Pipeline),
	)

	return &Pipeline{
		Service:    service,
		Normalizer: normalizer,
		Completion: completion,
		close:      closeFn,
	}, nil
}
