package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/classifier"
	"talentscope/cs-evaluator/internal/metrics"
	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/scoring"
)

// Thresholds are the minimum final probabilities for each positive status.
type Thresholds struct {
	Aderente  float64
	Potencial float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Aderente: 75, Potencial: 50}
}

type EvaluatorConfig struct {
	Thresholds      Thresholds
	BonusMultiplier float64
}

func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Thresholds:      DefaultThresholds(),
		BonusMultiplier: 3,
	}
}

type EvaluatorService interface {
	// Evaluate never returns an error or panics; failures come back as an
	// outcome whose Status is Erro.
	Evaluate(ctx context.Context, attrs models.CandidateAttributes, document []byte) models.EvaluationOutcome
}

type evaluatorService struct {
	scorer     *scoring.Scorer
	classifier classifier.Classifier
	pdfParser  PDFParserService
	cfg        EvaluatorConfig
	logger     *zap.Logger
}

func NewEvaluatorService(
	scorer *scoring.Scorer,
	clf classifier.Classifier,
	pdfParser PDFParserService,
	cfg EvaluatorConfig,
	logger *zap.Logger,
) EvaluatorService {
	if cfg.BonusMultiplier <= 0 {
		cfg.BonusMultiplier = DefaultEvaluatorConfig().BonusMultiplier
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}

	return &evaluatorService{
		scorer:     scorer,
		classifier: clf,
		pdfParser:  pdfParser,
		cfg:        cfg,
		logger:     logger,
	}
}

func (e *evaluatorService) Evaluate(ctx context.Context, attrs models.CandidateAttributes, document []byte) (outcome models.EvaluationOutcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			outcome = models.Failed(models.FailureInternal, fmt.Errorf("panic: %v", r))
		}

		metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
		metrics.EvaluationsTotal.WithLabelValues(string(outcome.Status())).Inc()
		if outcome.Failure != nil {
			metrics.EvaluationFailures.WithLabelValues(string(outcome.Failure.Kind)).Inc()
			e.logger.Error("evaluation failed",
				zap.String("kind", string(outcome.Failure.Kind)),
				zap.Error(outcome.Failure.Err),
			)
		}
	}()

	if err := ValidateAttributes(attrs); err != nil {
		return models.Failed(models.FailureInvalidAttributes, err)
	}

	var text string
	if len(document) > 0 {
		text = e.pdfParser.ExtractText(document)
	}

	analysis := e.scorer.ExtractTerms(text)
	metrics.ResumeScore.Observe(analysis.Score)

	proba, err := e.classifier.Predict(ctx, attrs.Features())
	if err != nil {
		return models.Failed(models.FailureClassifier, err)
	}
	if math.IsNaN(proba) || proba < 0 || proba > 1 {
		return models.Failed(models.FailureClassifier, fmt.Errorf("probability %v outside [0,1]", proba))
	}

	base := proba * 100
	rawBonus := analysis.Score * e.cfg.BonusMultiplier
	blended := math.Min(100, base+rawBonus)

	matched := make([]models.KeywordLabel, 0, len(analysis.Matches))
	for _, m := range analysis.Matches {
		matched = append(matched, models.KeywordLabel{
			Label:    fmt.Sprintf("%s (x%d)", m.Term, m.Count),
			Category: m.Category,
		})
	}

	result := &models.EvaluationResult{
		Status:           e.statusFor(blended),
		FinalProbability: scoring.Round1(blended),
		BaseProbability:  scoring.Round1(base),
		Bonus:            scoring.Round1(rawBonus),
		MatchedKeywords:  matched,
		MissingTerms:     analysis.MissingCategories,
	}

	e.logger.Info("candidate evaluated",
		zap.String("status", string(result.Status)),
		zap.Float64("final_probability", result.FinalProbability),
		zap.Float64("base_probability", result.BaseProbability),
		zap.Float64("bonus", result.Bonus),
		zap.Int("matches", len(matched)),
		zap.String("classifier", e.classifier.Name()),
	)

	return models.Succeeded(result)
}

// statusFor checks thresholds from the highest down; the first hit wins.
// It takes the unrounded probability, so 74.96 stays below 75.
func (e *evaluatorService) statusFor(final float64) models.FitStatus {
	switch {
	case final >= e.cfg.Thresholds.Aderente:
		return models.StatusAderente
	case final >= e.cfg.Thresholds.Potencial:
		return models.StatusPotencial
	default:
		return models.StatusNaoAderente
	}
}

var errNotFinite = errors.New("must be a finite number")

func ValidateAttributes(attrs models.CandidateAttributes) error {
	return validation.ValidateStruct(&attrs,
		validation.Field(&attrs.ExperienceMonths,
			validation.By(func(value interface{}) error {
				v, _ := value.(float64)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return errNotFinite
				}
				return nil
			}),
			validation.Min(0.0),
		),
		validation.Field(&attrs.CRMKnowledge, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&attrs.English, validation.Required, validation.Min(1), validation.Max(5)),
	)
}
