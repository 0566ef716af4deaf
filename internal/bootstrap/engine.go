package bootstrap

import (
	"context"
	"fmt"

	"github.com/hostelsmart/portal/internal/config"
	"github.com/hostelsmart/portal/internal/engine"
	"github.com/hostelsmart/portal/internal/logger"
	"github.com/hostelsmart/portal/internal/sentiment"
	"github.com/hostelsmart/portal/internal/telemetry"
)

// instrumentedSentiment counts sidecar calls and failures around the
// raw client.
type instrumentedSentiment struct {
	client  *sentiment.Client
	metrics *telemetry.Metrics
}

func (s *instrumentedSentiment) Sentiment(ctx context.Context, text string) (float64, error) {
	s.metrics.SentimentRequests.Inc()
	score, err := s.client.Sentiment(ctx, text)
	if err != nil {
		s.metrics.SentimentFailures.Inc()
	}
	return score, err
}

// SetupEngine builds the scoring engine, attaching the sentiment
// sidecar when enabled. The returned client is nil when disabled.
func SetupEngine(cfg *config.Config, metrics *telemetry.Metrics, log logger.Logger) (*engine.Engine, *sentiment.Client, error) {
	engineCfg := engine.Config{Policy: engine.DefaultWeightPolicy}

	var client *sentiment.Client
	if cfg.Sentiment.Enabled {
		client = sentiment.NewClient(cfg.Sentiment.URL, cfg.Sentiment.Timeout)
		engineCfg.Sentiment = &instrumentedSentiment{client: client, metrics: metrics}
		log.Info("Sentiment sidecar enabled",
			logger.String("url", cfg.Sentiment.URL),
		)
	}

	eng, err := engine.New(log, engineCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}
	return eng, client, nil
}
