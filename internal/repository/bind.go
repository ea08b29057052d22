package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "repoapi/internal/repository"

// Boundary describes where a backend is bound: which entity kind it serves,
// the backend name used in logs and metrics, and the sinks for failures.
type Boundary struct {
	Kind    string
	Backend string
	Logger  *zap.Logger
	Metrics *Metrics
}

type bound[E any] struct {
	backend Backend[E]
	kind    string
	name    string
	logger  *zap.Logger
	metrics *Metrics
}

// Bind turns a Backend into a Repository.
//
// Every error other than ErrNotFound is collapsed to absence, so callers only ever
// see found or absent. Failures are still logged at warn level, recorded on the
// lookup span and counted with result="error".
func Bind[E any](b Backend[E], bd Boundary) Repository[E] {
	logger := bd.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bound[E]{
		backend: b,
		kind:    bd.Kind,
		name:    bd.Backend,
		logger:  logger.With(zap.String("component", "repository")),
		metrics: bd.Metrics,
	}
}

func (r *bound[E]) Find(ctx context.Context, id ID) (E, bool) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repository.Find",
		trace.WithAttributes(
			attribute.String("repository.kind", r.kind),
			attribute.String("repository.backend", r.name),
			attribute.Int64("repository.id", int64(id)),
		),
	)
	defer span.End()

	var zero E
	e, err := r.backend.Get(ctx, id)
	switch {
	case err == nil:
		r.metrics.observe(r.kind, r.name, ResultFound)
		return e, true
	case errors.Is(err, ErrNotFound):
		r.metrics.observe(r.kind, r.name, ResultAbsent)
		return zero, false
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		r.logger.Warn("repository lookup failed",
			zap.String("kind", r.kind),
			zap.String("backend", r.name),
			zap.Uint32("id", id),
			zap.Error(err),
		)
		r.metrics.observe(r.kind, r.name, ResultError)
		return zero, false
	}
}
