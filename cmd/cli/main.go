package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/classifier"
	"talentscope/cs-evaluator/internal/config"
	"talentscope/cs-evaluator/internal/logger"
	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/scoring"
	"talentscope/cs-evaluator/internal/services"
)

const app = "csfit"

// Actual version can be specified in build command.
var version = "unknown"

var errEvaluationFailed = errors.New("evaluation failed")

type scoreOptions struct {
	resume     string
	experience float64
	crm        int
	english    int
	degree     string
	model      string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           app,
		Short:         "csfit scores candidates for the Customer Success internship from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newScoreCmd(), newAnalyzeCmd(), newKeywordsCmd(), newVersionCmd())
	return root
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Evaluate one candidate, optionally with a résumé PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.resume, "resume", "r", "", "path to the résumé PDF")
	flags.Float64Var(&opts.experience, "experience", 0, "experience in months")
	flags.IntVar(&opts.crm, "crm", 1, "CRM knowledge (1-5)")
	flags.IntVar(&opts.english, "english", 1, "English proficiency (1-5)")
	flags.StringVar(&opts.degree, "degree", "Completo", "degree status (Cursando or Completo)")
	flags.StringVar(&opts.model, "model", "", "classifier model file (defaults to MODEL_PATH)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")

	return cmd
}

func runScore(ctx context.Context, out io.Writer, opts *scoreOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _ := config.Load()

	level := "warn"
	if opts.debug {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var document []byte
	if opts.resume != "" {
		document, err = os.ReadFile(opts.resume)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
	}

	modelPath := opts.model
	if modelPath == "" {
		modelPath = cfg.Classifier.ModelPath
	}

	scorer := scoring.NewScorer(scoring.DefaultCatalog(), scoring.Calibration{
		Divisor: cfg.Scoring.Divisor,
		Cap:     cfg.Scoring.Cap,
	})
	evaluator := services.NewEvaluatorService(
		scorer,
		classifier.LoadOrPlaceholder(modelPath, log),
		services.NewPDFParserService(log),
		services.EvaluatorConfig{
			Thresholds: services.Thresholds{
				Aderente:  cfg.Scoring.ThresholdAderente,
				Potencial: cfg.Scoring.ThresholdPotencial,
			},
			BonusMultiplier: cfg.Scoring.BonusMultiplier,
		},
		log,
	)

	outcome := evaluator.Evaluate(ctx, models.CandidateAttributes{
		ExperienceMonths: opts.experience,
		CRMKnowledge:     opts.crm,
		English:          opts.english,
		Degree:           opts.degree,
	}, document)

	if err := writeJSON(out, models.NewEvaluateResponse(outcome)); err != nil {
		return err
	}

	if !outcome.OK() {
		log.Debug("evaluation failure detail", zap.Error(outcome.Failure))
		return errEvaluationFailed
	}
	return nil
}

type analyzeOutput struct {
	File     string                 `json:"file"`
	Pages    int                    `json:"pages"`
	Analysis scoring.ResumeAnalysis `json:"analysis"`
}

func newAnalyzeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "analyze <resume.pdf>",
		Short: "Show the keyword analysis of a résumé PDF without scoring a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), args[0], debug)
		},
	}
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")

	return cmd
}

// runAnalyze fails loudly on an unreadable PDF, unlike score, which
// degrades to an empty résumé.
func runAnalyze(out io.Writer, path string, debug bool) error {
	cfg, _ := config.Load()

	level := "warn"
	if debug {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	content, err := services.NewPDFParserService(log).ExtractTextFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}
	log.Debug("resume extracted",
		zap.String("file", content.FilePath),
		zap.Int("pages", content.PageCount),
		zap.String("preview", logger.TruncateForLog(content.Text, 200)),
	)

	scorer := scoring.NewScorer(scoring.DefaultCatalog(), scoring.Calibration{
		Divisor: cfg.Scoring.Divisor,
		Cap:     cfg.Scoring.Cap,
	})

	return writeJSON(out, analyzeOutput{
		File:     content.FilePath,
		Pages:    content.PageCount,
		Analysis: scorer.ExtractTerms(content.Text),
	})
}

func newKeywordsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Print the keyword categories used to score résumés",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := scoring.DefaultCatalog()
			if category == "" {
				return writeJSON(cmd.OutOrStdout(), models.NewKeywordsResponse(catalog))
			}

			found, ok := catalog.Lookup(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "print a single category by name")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
