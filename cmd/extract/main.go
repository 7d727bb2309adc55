package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zatekoja/grocerylist/backend/internal/application/services"
	"github.com/zatekoja/grocerylist/backend/internal/bootstrap"
	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

type options struct {
	file        string
	jsonOutput  bool
	concurrency int
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "extract [URL...]",
		Short: "Extract a shopping list from recipe pages",
		Long: `Fetch one or more recipe pages and print their ingredients.
Several URLs are processed concurrently and merged into one list.
Example: extract https://example.com/recipes/pancakes https://example.com/recipes/cake`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Parse a saved HTML file instead of fetching; the optional URL argument names its source")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 0, "Maximum pages fetched at once (0 uses PIPELINE_MAX_CONCURRENCY)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	if opts.file == "" && len(args) == 0 {
		return errors.New("at least one recipe URL or --file is required")
	}
	if opts.file != "" && len(args) > 1 {
		return errors.New("--file takes at most one source URL")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	observability.InitLoggerTo(cmd.ErrOrStderr(), "recipe-extract", "development", level)

	if opts.concurrency > 0 {
		cfg.Pipeline.MaxConcurrency = opts.concurrency
	}

	pipeline, err := bootstrap.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.file != "" {
		html, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		source := "file://" + opts.file
		if abs, err := filepath.Abs(opts.file); err == nil {
			source = "file://" + abs
		}
		if len(args) == 1 {
			source = args[0]
		}
		return report(out, pipeline.Normalizer, pipeline.Service.ExtractHTML(ctx, source, html), opts.jsonOutput)
	}

	if len(args) == 1 {
		return report(out, pipeline.Normalizer, pipeline.Service.Extract(ctx, args[0]), opts.jsonOutput)
	}

	batch := services.NewBatchServiceFromConfig(pipeline.Service, pipeline.Normalizer, cfg.Pipeline)
	return reportBatch(out, pipeline.Normalizer, batch.Process(ctx, args), opts.jsonOutput)
}

func report(out io.Writer, normalizer *utils.IngredientNormalizer, result entities.ParseResult, asJSON bool) error {
	if asJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		printResult(out, normalizer, result)
	}
	if !result.Success {
		return fmt.Errorf("extraction failed: %s: %s", result.ErrorType, result.Error)
	}
	return nil
}

func reportBatch(out io.Writer, normalizer *utils.IngredientNormalizer, result entities.BatchResult, asJSON bool) error {
	if asJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		for _, item := range result.Items {
			printResult(out, normalizer, item.Result)
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Shopping list (%d of %d recipes):\n", result.Succeeded, result.Total())
		printIngredients(out, normalizer, result.Ingredients)
	}
	if !result.Acceptable {
		return fmt.Errorf("only %d of %d recipes could be parsed", result.Succeeded, result.Total())
	}
	return nil
}

func printResult(out io.Writer, normalizer *utils.IngredientNormalizer, result entities.ParseResult) {
	if !result.Success {
		fmt.Fprintf(out, "%s: %s (%s)\n", result.Recipe.SourceURL, result.Error, result.ErrorType)
		return
	}
	name := result.Recipe.Name
	if name == "" {
		name = result.Recipe.SourceURL
	}
	fmt.Fprintf(out, "%s [%s, confidence %d%%, verified %d%%]\n", name, result.Method, result.Confidence, result.VerificationScore)
	printIngredients(out, normalizer, result.Recipe.Ingredients)
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "  ! %s\n", warning)
	}
}

func printIngredients(out io.Writer, normalizer *utils.IngredientNormalizer, ings []entities.Ingredient) {
	for _, ing := range ings {
		fmt.Fprintf(out, "  - %s (%s)\n", normalizer.Format(ing), ing.Category)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
