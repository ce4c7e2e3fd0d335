// Package compare computes the similarity of two texts under a named model.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/registry"
	"github.com/0x5457/textsim/internal/similarity"
	"github.com/0x5457/textsim/internal/tracing"
	"github.com/0x5457/textsim/internal/worker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service validates a request, embeds both texts on the inference pool and
// scores them.
type Service struct {
	registry *registry.Registry
	pool     *worker.Pool
	logger   *logger.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewService(
	reg *registry.Registry,
	pool *worker.Pool,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry: reg,
		pool:     pool,
		logger:   log,
		metrics:  m,
		tracer:   otel.Tracer("github.com/0x5457/textsim/internal/compare"),
	}
}

// Models lists the accepted model names.
func (s *Service) Models() []string { return s.registry.Names() }

// Compute returns the cosine similarity of req.Text1 and req.Text2.
// Unknown models and empty texts are rejected before any inference runs.
func (s *Service) Compute(ctx context.Context, req models.EmbeddingRequest) (models.SimilarityResult, error) {
	ctx, span := s.tracer.Start(ctx, "compare.Compute",
		trace.WithAttributes(attribute.String("model", req.Model)))
	defer span.End()

	emb, err := s.registry.Get(req.Model)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrUnsupportedModel, req.Model)
		tracing.RecordError(span, err)
		return models.SimilarityResult{}, err
	}
	if req.Text1 == "" || req.Text2 == "" {
		tracing.RecordError(span, ErrEmptyText)
		return models.SimilarityResult{}, ErrEmptyText
	}

	start := time.Now()
	var score float64
	err = s.pool.Do(ctx, func(ctx context.Context) error {
		ctx, inferSpan := s.tracer.Start(ctx, "compare.Inference",
			trace.WithAttributes(attribute.String("embedder", emb.ModelName())))
		defer inferSpan.End()

		vecs, err := emb.EmbedTexts(ctx, []string{req.Text1, req.Text2})
		if err != nil {
			tracing.RecordError(inferSpan, err)
			return err
		}
		if len(vecs) != 2 {
			return fmt.Errorf("expected 2 embeddings, got %d", len(vecs))
		}
		score, err = similarity.Cosine(vecs[0], vecs[1])
		return err
	})
	if err != nil {
		s.metrics.ObserveInference(req.Model, "error", start)
		tracing.RecordError(span, err)
		s.logger.Error("embedding computation failed", err, map[string]interface{}{
			"model": req.Model,
		})
		return models.SimilarityResult{}, &ComputationError{Model: req.Model, Err: err}
	}

	s.metrics.ObserveInference(req.Model, "ok", start)
	span.SetAttributes(attribute.Float64("similarity", score))
	s.logger.Debug("similarity computed", nil, map[string]interface{}{
		"model":       req.Model,
		"similarity":  score,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return models.SimilarityResult{Similarity: score}, nil
}
