package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"charterdesk/internal/metrics"
)

const defaultProbeTimeout = time.Second

// Selector routes each turn to the primary backend when its probe passes
// and to the fallback otherwise, or when the primary call fails. It never
// returns an error.
type Selector struct {
	primary      Backend
	fallback     Generator
	probeTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewSelector(primary Backend, fallback Generator, probeTimeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Selector {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		primary:      primary,
		fallback:     fallback,
		probeTimeout: probeTimeout,
		metrics:      m,
		logger:       logger,
	}
}

func (s *Selector) Generate(ctx context.Context, req Request) (*Response, error) {
	if s.primary != nil {
		if resp, ok := s.tryPrimary(ctx, req); ok {
			return resp, nil
		}
	}
	resp, err := s.fallback.Generate(ctx, req)
	if err != nil || resp == nil {
		// Fallback implementations do not fail; keep the guarantee regardless.
		s.logger.Error("fallback generation failed", zap.Error(err))
		s.metrics.Generation(fallbackModel, "error")
		return &Response{Text: DefaultNextAction, Intent: req.Route.Intent, ModelUsed: fallbackModel, Confidence: req.Route.Confidence}, nil
	}
	s.metrics.Generation(fallbackModel, "ok")
	return resp, nil
}

func (s *Selector) tryPrimary(ctx context.Context, req Request) (*Response, bool) {
	name := s.primary.Name()
	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	err := s.primary.Healthy(probeCtx)
	cancel()
	if err != nil {
		s.logger.Warn("primary backend unhealthy", zap.String("backend", name), zap.Error(err))
		s.metrics.Generation(name, "unhealthy")
		return nil, false
	}
	resp, err := s.primary.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("primary generation failed", zap.String("backend", name), zap.Error(err))
		s.metrics.Generation(name, "error")
		return nil, false
	}
	s.metrics.Generation(name, "ok")
	return resp, true
}
