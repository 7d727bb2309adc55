package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/extraction"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/internal/validation"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	apperrors "github.com/zatekoja/grocerylist/backend/pkg/errors"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// RecipeExtractor runs the extraction pipeline for one recipe.
type RecipeExtractor interface {
	Extract(ctx context.Context, rawURL string) entities.ParseResult
	ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult
}

// PipelineOptions tunes the extraction pipeline.
type PipelineOptions struct {
	Policy              validation.Policy
	Locator             extraction.LocatorOptions
	MinRegexIngredients int
	LLMFallback         bool
}

// DefaultPipelineOptions returns the stock tuning.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Policy:              validation.DefaultPolicy(),
		Locator:             extraction.DefaultLocatorOptions(),
		MinRegexIngredients: 3,
		LLMFallback:         true,
	}
}

// PipelineOptionsFromConfig maps the pipeline config block onto options,
// keeping defaults for unset values.
func PipelineOptionsFromConfig(cfg config.PipelineConfig) PipelineOptions {
	opts := DefaultPipelineOptions()
	opts.Policy = validation.PolicyFromConfig(cfg)
	if cfg.MinStrategyLines > 0 {
		opts.Locator.MinLines = cfg.MinStrategyLines
	}
	if cfg.MaxSectionGap > 0 {
		opts.Locator.MaxGap = cfg.MaxSectionGap
	}
	if cfg.MaxCorpusChars > 0 {
		opts.Locator.MaxChars = cfg.MaxCorpusChars
	}
	if cfg.MinRegexIngredients > 0 {
		opts.MinRegexIngredients = cfg.MinRegexIngredients
	}
	opts.LLMFallback = cfg.LLMFallbackEnabled
	return opts
}

// RecipePipelineService turns a recipe page into a normalized ingredient
// list: structured data first, then located text through the regex parser,
// then the language model.
type RecipePipelineService struct {
	fetcher    providers.PageFetcher
	llm        providers.CompletionProvider
	normalizer *utils.IngredientNormalizer
	locator    *extraction.Locator
	parser     *extraction.Parser
	validator  *validation.Validator
	verifier   *validation.Verifier
	policy     validation.Policy
	metrics    *observability.Metrics
}

// NewRecipePipelineService creates the pipeline. llm may be nil, and is
// ignored unless opts.LLMFallback is set. A nil normalizer uses the built-in
// vocabulary.
func NewRecipePipelineService(
	fetcher providers.PageFetcher,
	llm providers.CompletionProvider,
	normalizer *utils.IngredientNormalizer,
	opts PipelineOptions,
) *RecipePipelineService {
	if normalizer == nil {
		normalizer = utils.NewIngredientNormalizer(nil)
	}
	if !opts.LLMFallback {
		llm = nil
	}
	return &RecipePipelineService{
		fetcher:    fetcher,
		llm:        llm,
		normalizer: normalizer,
		locator:    extraction.NewLocator(opts.Locator),
		parser:     extraction.NewParser(opts.MinRegexIngredients),
		validator:  validation.NewValidator(),
		verifier:   validation.NewVerifier(normalizer),
		policy:     opts.Policy,
	}
}

// SetMetrics enables extraction metrics.
func (s *RecipePipelineService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

var _ RecipeExtractor = (*RecipePipelineService)(nil)

// Extract validates rawURL, fetches the page and runs the pipeline on it.
// Every failure is reported in the result, never as a panic or error.
func (s *RecipePipelineService) Extract(ctx context.Context, rawURL string) entities.ParseResult {
	ctx, span := observability.StartSpan(ctx, "pipeline.extract")
	defer span.End()
	span.SetAttributes(attribute.String("recipe.url", rawURL))

	start := time.Now()
	if _, err := utils.ParseRecipeURL(rawURL); err != nil {
		return s.finish(ctx, rawURL, start, nil, apperrors.NewInvalidURLError(fmt.Sprintf("%q is not an absolute http(s) URL", rawURL), err))
	}

	html, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if apperrors.TypeOf(err) == "" {
			err = apperrors.NewFetchFailedError("failed to fetch recipe page", err)
		}
		observability.RecordError(span, err)
		return s.finish(ctx, rawURL, start, nil, err)
	}

	result, err := s.run(ctx, rawURL, html)
	observability.RecordError(span, err)
	return s.finish(ctx, rawURL, start, result, err)
}

// ExtractHTML runs the pipeline on an already fetched page. sourceURL is
// recorded as-is and is not validated.
func (s *RecipePipelineService) ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult {
	ctx, span := observability.StartSpan(ctx, "pipeline.extract_html")
	defer span.End()

	start := time.Now()
	result, err := s.run(ctx, sourceURL, html)
	observability.RecordError(span, err)
	return s.finish(ctx, sourceURL, start, result, err)
}

func (s *RecipePipelineService) finish(ctx context.Context, sourceURL string, start time.Time, result *entities.ParseResult, err error) entities.ParseResult {
	logger := observability.LoggerFromContext(ctx)
	elapsed := time.Since(start)

	if err != nil {
		errType := string(apperrors.TypeOf(err))
		if errType == "" {
			errType = string(apperrors.ErrorTypeInternal)
		}
		logger.Info().Str("url", sourceURL).Str("error_type", errType).Err(err).Dur("elapsed", elapsed).Msg("recipe extraction failed")
		observability.RecordExtraction(ctx, s.metrics, "none", errType, 0, elapsed)
		return entities.FailedResult(sourceURL, errType, err.Error())
	}

	logger.Info().
		Str("url", sourceURL).
		Str("method", string(result.Method)).
		Int("ingredients", len(result.Recipe.Ingredients)).
		Int("confidence", result.Confidence).
		Int("verification", result.VerificationScore).
		Dur("elapsed", elapsed).
		Msg("recipe extracted")
	observability.RecordExtraction(ctx, s.metrics, string(result.Method), "", len(result.Recipe.Ingredients), elapsed)
	return *result
}

func (s *RecipePipelineService) run(ctx context.Context, sourceURL string, html []byte) (*entities.ParseResult, error) {
	logger := observability.LoggerFromContext(ctx).With().Str("url", sourceURL).Logger()

	page, err := extraction.NewPage(html)
	if err != nil {
		return nil, apperrors.NewParseFailedError("failed to parse page markup", err)
	}
	titleHint := page.Title

	if structured, ok := extraction.FindStructuredRecipe(page.JSONLD); ok {
		if structured.Name != "" {
			titleHint = structured.Name
		}
		if result := s.fromStructured(sourceURL, structured, page.Text()); result != nil {
			logger.Debug().Int("ingredients", len(result.Recipe.Ingredients)).Msg("structured data accepted")
			return result, nil
		}
		logger.Debug().Msg("structured data had no usable ingredients")
	}

	corpus, ok := s.locator.Locate(page)
	if !ok {
		return nil, apperrors.NewNoContentFoundError("no ingredient content found on the page")
	}
	logger.Debug().Str("strategy", string(corpus.Method)).Int("lines", len(corpus.Lines)).Bool("truncated", corpus.Truncated).Msg("content located")

	source := page.Text()
	regexErr := errors.New("too few ingredient lines recognized")
	if parsed, ok := s.parser.Parse(corpus.Text()); ok {
		result, err := s.accept(sourceURL, titleHint, corpus.Method, s.normalizer.NormalizeAll(parsed), nil, source)
		if err == nil {
			return result, nil
		}
		// Low verification on text lifted from the page itself is final.
		if apperrors.Is(err, apperrors.ErrorTypeLowVerification) {
			return nil, err
		}
		regexErr = err
		logger.Debug().Err(err).Msg("regex result rejected")
	} else {
		logger.Debug().Msg("regex parser recognized too few lines")
	}

	if s.llm == nil {
		if apperrors.TypeOf(regexErr) != "" {
			return nil, regexErr
		}
		return nil, apperrors.NewParseFailedError("could not parse ingredients", regexErr)
	}
	return s.fromLLM(ctx, logger, sourceURL, titleHint, corpus, source)
}

// fromStructured trusts the page's own recipe markup: confidence and
// verification are reported but never gate the result.
func (s *RecipePipelineService) fromStructured(sourceURL string, structured *extraction.StructuredRecipe, source string) *entities.ParseResult {
	ings := make([]entities.Ingredient, 0, len(structured.Ingredients))
	for _, line := range structured.Ingredients {
		ing, ok := s.parser.ParseLine(line)
		if !ok {
			ing = entities.Ingredient{Name: line, Amount: 1}
		}
		ings = append(ings, ing)
	}

	ings = s.normalizer.Merge(s.normalizer.NormalizeAll(ings))
	assessment := s.validator.Assess(ings)
	if len(assessment.Valid) == 0 {
		return nil
	}
	verification := s.verifier.Verify(assessment.Valid, source)

	return &entities.ParseResult{
		Recipe: entities.Recipe{
			SourceURL:   sourceURL,
			Name:        structured.Name,
			Ingredients: assessment.Valid,
			Parsed:      true,
		},
		Success:           true,
		Method:            entities.MethodStructuredData,
		Confidence:        assessment.Confidence,
		VerificationScore: verification.VerificationScore,
		Warnings:          rejectionWarnings(assessment.Rejected),
	}
}

func (s *RecipePipelineService) fromLLM(ctx context.Context, logger zerolog.Logger, sourceURL, titleHint string, corpus extraction.Corpus, source string) (*entities.ParseResult, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.llm_fallback")
	defer span.End()

	content, err := s.llm.Complete(ctx, extraction.BuildPrompt(corpus.Text(), titleHint))
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewParseFailedError("language model fallback failed", err)
	}

	decoded, err := extraction.DecodeResponse(content)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewParseFailedError("language model reply could not be decoded", err)
	}
	logger.Debug().Int("ingredients", len(decoded.Ingredients)).Int("notes", len(decoded.Notes)).Msg("language model reply decoded")

	name := decoded.Name
	if name == "" {
		name = titleHint
	}
	return s.accept(sourceURL, name, entities.MethodLLM, s.normalizer.NormalizeAll(decoded.Ingredients), decoded.Notes, source)
}

// accept merges, validates, scores and verifies normalized ingredients and
// applies the acceptance policy.
func (s *RecipePipelineService) accept(sourceURL, name string, method entities.ExtractionMethod, ings []entities.Ingredient, notes []string, source string) (*entities.ParseResult, error) {
	ings = s.normalizer.Merge(ings)
	assessment := s.validator.Assess(ings)
	if err := s.policy.CheckConfidence(assessment.Confidence); err != nil {
		return nil, err
	}

	verification := s.verifier.Verify(assessment.Valid, source)
	warning, err := s.policy.CheckVerification(verification.VerificationScore)
	if err != nil {
		return nil, err
	}

	warnings := append([]string(nil), notes...)
	warnings = append(warnings, rejectionWarnings(assessment.Rejected)...)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	return &entities.ParseResult{
		Recipe: entities.Recipe{
			SourceURL:   sourceURL,
			Name:        name,
			Ingredients: assessment.Valid,
			Parsed:      true,
		},
		Success:           true,
		Method:            method,
		Confidence:        assessment.Confidence,
		VerificationScore: verification.VerificationScore,
		Warnings:          warnings,
	}, nil
}

func rejectionWarnings(rejected []validation.Rejection) []string {
	if len(rejected) == 0 {
		return nil
	}
	out := make([]string, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, fmt.Sprintf("dropped %q: %s", r.Ingredient.Name, r.Reason))
	}
	return out
}
