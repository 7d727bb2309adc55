package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/grocerylist/backend/internal/bootstrap"
	"github.com/zatekoja/grocerylist/backend/internal/evaluation"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
)

const defaultGoldenPath = "config/golden_recipes.json"

type options struct {
	golden     string
	jsonOutput bool
	guardrails evaluation.GuardrailConfig
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the extraction pipeline against golden recipe pages",
		Long: `Run every saved page in the golden set through the pipeline and report
ingredient recall and precision. Exits non-zero when a --min threshold is missed.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.golden, "golden", "g", defaultGoldenPath, "Golden recipe set (JSON)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the full summary as JSON")
	cmd.Flags().Float64Var(&opts.guardrails.MinAccuracy, "min-accuracy", 0, "Fail below this share of correct recipes")
	cmd.Flags().Float64Var(&opts.guardrails.MinRecall, "min-recall", 0, "Fail below this average recall")
	cmd.Flags().Float64Var(&opts.guardrails.MinPrecision, "min-precision", 0, "Fail below this average precision")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLoggerTo(cmd.ErrOrStderr(), "recipe-evaluate", "development", "warn")

	goldenPath := opts.golden
	// Allow running from the repository root as well as from backend/.
	if goldenPath == defaultGoldenPath {
		if _, err := os.Stat("backend/" + goldenPath); err == nil {
			goldenPath = "backend/" + goldenPath
		}
	}

	recipes, err := evaluation.LoadGoldenRecipes(goldenPath)
	if err != nil {
		return err
	}
	if err := evaluation.ValidateGoldenRecipes(recipes); err != nil {
		return err
	}

	pipeline, err := bootstrap.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	runner := evaluation.NewRunner(pipeline.Service, pipeline.Normalizer.CleanName)
	summary, err := runner.Run(cmd.Context(), recipes)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		printSummary(out, summary)
	}

	if violations := evaluation.NewGuardrails(opts.guardrails).Violations(summary); len(violations) > 0 {
		return errors.New("guardrails failed: " + strings.Join(violations, "; "))
	}
	return nil
}

func printSummary(out io.Writer, s *evaluation.EvalSummary) {
	for _, r := range s.Results {
		status := "ok  "
		if !r.Correct {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s %-24s %-18s recall %.2f precision %.2f", status, r.RecipeID, r.Method, r.Recall, r.Precision)
		if r.ErrorType != "" {
			fmt.Fprintf(out, " error %s", r.ErrorType)
		}
		if !r.MethodMatch {
			fmt.Fprint(out, " (unexpected method)")
		}
		fmt.Fprintln(out)
		if len(r.Missing) > 0 {
			fmt.Fprintf(out, "     missing: %s\n", strings.Join(r.Missing, ", "))
		}
	}

	fmt.Fprintf(out, "\n%d/%d correct, avg recall %.2f, avg precision %.2f, avg latency %s\n",
		s.Correct, s.TotalRecipes, s.AvgRecall, s.AvgPrecision, s.AvgLatency)

	difficulties := make([]string, 0, len(s.ByDifficulty))
	for d := range s.ByDifficulty {
		difficulties = append(difficulties, string(d))
	}
	sort.Strings(difficulties)
	for _, d := range difficulties {
		ds := s.ByDifficulty[evaluation.Difficulty(d)]
		fmt.Fprintf(out, "  %-6s %d/%d correct, recall %.2f\n", d, ds.Correct, ds.Count, ds.AvgRecall)
	}
}
