package engine

import (
	"context"
	"fmt"
	"sync"
)

// Analyze runs the full pipeline over a parsed conversation: the size cap and
// minimum threshold are checked before any computation, then the statistics,
// sentiment and flow groups run in parallel over the immutable conversation,
// and the composite calculator joins the three. The result is never mutated
// after construction.
func Analyze(ctx context.Context, conv Conversation, cfg Config) (*AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Analyze: %w", err)
	}
	if len(conv.Messages) > cfg.MaxMessages {
		return nil, &TooLargeError{Count: len(conv.Messages), Limit: cfg.MaxMessages}
	}
	if len(conv.Messages) < cfg.MinMessages {
		return nil, &InsufficientDataError{Got: len(conv.Messages), Min: cfg.MinMessages}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Analyze: %w", err)
	}

	var (
		stats     StatsBundle
		sentiment SentimentBundle
		flow      FlowBundle
		wg        sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		stats = ComputeStats(conv, cfg)
	}()
	go func() {
		defer wg.Done()
		sentiment = ComputeSentiment(conv, cfg)
	}()
	go func() {
		defer wg.Done()
		flow = AnalyzeFlow(conv, cfg)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Analyze: %w", err)
	}

	return &AnalysisResult{
		Participants: conv.Participants,
		Diagnostics:  conv.Diagnostics,
		Stats:        stats,
		Sentiment:    sentiment,
		Flow:         flow,
		Composites:   ComputeComposites(stats, sentiment, flow, cfg),
	}, nil
}
