package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/logger"
)

// ErrDescriptionTooShort rejects descriptions below MinDescriptionLength.
// Short descriptions must never reach the scorer.
var ErrDescriptionTooShort = errors.New("description below minimum length")

// SentimentClient fetches the optional sentiment signal from the
// external analysis service.
type SentimentClient interface {
	Sentiment(ctx context.Context, text string) (float64, error)
}

// AnalysisInput carries a complaint description plus the caller-supplied
// history context. CreatedAt is the scoring reference time; passing the
// stored creation instant makes recomputation idempotent.
type AnalysisInput struct {
	Text      string
	CreatedAt time.Time
	History   History
}

// AnalysisResult is the engine's verdict for one complaint.
type AnalysisResult struct {
	Category      domain.Category        `json:"category"`
	Priority      PriorityBand           `json:"priority"`
	PriorityScore float64                `json:"priority_score"`
	Pillars       domain.PillarBreakdown `json:"pillars"`
	Explanation   string                 `json:"explanation"`
	AffectedCount int                    `json:"affected_count"`
	Sentiment     *float64               `json:"sentiment,omitempty"`
}

// Engine orchestrates signal extraction, category classification and
// priority scoring. All computations are synchronous and pure; an Engine
// is safe for concurrent use.
type Engine struct {
	classifier *CategoryClassifier
	extractor  *SignalExtractor
	scorer     *PriorityScorer
	sentiment  SentimentClient
	logger     logger.Logger
}

// Config holds construction options for the engine.
type Config struct {
	Policy WeightPolicy
	// Sentiment is optional; nil disables the sentiment signal.
	Sentiment SentimentClient
}

/// New creates an engine. The weight policy is validated here: a policy
// that does not sum to 1.0 is a deployment error, not a runtime state.
func New(log logger.Logger, cfg Config) (*Engine, error) {
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight policy: %w", err)
	}
	return &Engine{
		classifier: NewCategoryClassifier(),
		extractor:  NewSignalExtractor(),
		scorer:     NewPriorityScorer(cfg.Policy),
		sentiment:  cfg.Sentiment,
		logger:     log,
	}, nil
}

// Categorize returns the category for a description without scoring it.
// Callers use this to build the history context before a full Analyze.
func (e *Engine) Categorize(text string) domain.Category {
	return e.classifier.Classify(text)
}

// Analyze runs the full pipeline: gate, classify, extract, score.
// Identical input always yields an identical result; only the optional
// sentiment field depends on the external service, and its failure is
// logged and omitted rather than failing the analysis.
func (e *Engine) Analyze(ctx context.Context, in AnalysisInput) (*AnalysisResult, error) {
	if len(in.Text) < MinDescriptionLength {
		return nil, fmt.Errorf("%w: %d chars, need %d", ErrDescriptionTooShort, len(in.Text), MinDescriptionLength)
	}

	category := e.classifier.Classify(in.Text)
	pillars := e.extractor.Extract(in.Text, in.CreatedAt, in.History)
	score := e.scorer.Score(pillars)
	explanation := e.scorer.Explain(pillars)

	result := &AnalysisResult{
		Category:      category,
		Priority:      Band(score),
		PriorityScore: score,
		Pillars:       pillars,
		Explanation:   explanation,
		AffectedCount: AffectedCount(in.Text),
	}

	if e.sentiment != nil {
		sentiment, err := e.sentiment.Sentiment(ctx, in.Text)
		if err != nil {
			e.logger.Warn("sentiment fetch failed",
				logger.Error(err))
		} else {
			result.Sentiment = &sentiment
		}
	}

	e.logger.Debug("complaint analyzed",
		logger.String("category", string(category)),
		logger.Float64("score", score),
		logger.String("priority", string(result.Priority)),
	)

	return result, nil
}
