package forms

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/clock"
	pfirestore "github.com/chhitz007/nexora-page/internal/firestore"
	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/internal/requestctx"
)

const metricNamespace = "github.com/chhitz007/nexora-page/internal/forms"

var (
	// ErrSubmission marks a failed store write.
	ErrSubmission = errors.New("forms: submission failed")
	// ErrStoreUnavailable additionally marks writes that failed because the store was down.
	ErrStoreUnavailable = errors.New("forms: store unavailable")
)

// Result is a successful submission.
type Result struct {
	DocumentID string
	Collection string
}

// Submitter validates and stores submissions.
type Submitter struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	clock    clock.Clock
	counter  metric.Int64Counter
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

func WithNotifier(n Notifier) SubmitterOption {
	return func(s *Submitter) { s.notifier = n }
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger *zap.Logger) SubmitterOption {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(c clock.Clock) SubmitterOption {
	return func(s *Submitter) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMeter overrides the global meter provider.
func WithMeter(m metric.Meter) SubmitterOption {
	return func(s *Submitter) {
		if m == nil {
			return
		}
		if counter, err := newCounter(m); err == nil {
			s.counter = counter
		}
	}
}

func NewSubmitter(store Store, opts ...SubmitterOption) (*Submitter, error) {
	if store == nil {
		return nil, errors.New("forms: store is required")
	}
	s := &Submitter{store: store, logger: zap.NewNop(), clock: clock.Real()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.counter == nil {
		counter, err := newCounter(otel.GetMeterProvider().Meter(metricNamespace))
		if err != nil {
			s.logger.Warn("forms: unable to register submission metric", zap.Error(err))
		}
		s.counter = counter
	}
	return s, nil
}

func newCounter(m metric.Meter) (metric.Int64Counter, error) {
	return m.Int64Counter(
		"forms.submissions",
		metric.WithDescription("Form submissions by collection and outcome"),
	)
}

// Submit validates values against def and inserts the record. Validation failures are
// returned as *ValidationError before the store is touched; store failures wrap
// ErrSubmission.
func (s *Submitter) Submit(ctx context.Context, def Definition, values Values) (Result, error) {
	if err := def.Validate(values); err != nil {
		s.record(ctx, def.Collection, "invalid")
		return Result{}, err
	}

	logger := s.loggerFor(ctx).With(zap.String("collection", def.Collection), zap.String("form", string(def.Kind)))
	id, err := s.store.Insert(ctx, def.Collection, def.Record(values))
	if err != nil {
		if pfirestore.IsUnavailable(err) {
			s.record(ctx, def.Collection, "unavailable")
			logger.Warn("submission store unavailable", zap.Error(err))
			return Result{}, fmt.Errorf("%w: %w: %s: %w", ErrSubmission, ErrStoreUnavailable, def.Collection, err)
		}
		s.record(ctx, def.Collection, "error")
		logger.Error("submission failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %s: %w", ErrSubmission, def.Collection, err)
	}
	s.record(ctx, def.Collection, "stored")
	logger.Info("submission stored", zap.String("document_id", id))

	if s.notifier != nil {
		sub := Submission{Kind: def.Kind, Collection: def.Collection, DocumentID: id, SubmittedAt: s.clock.Now().UTC()}
		if err := s.notifier.Notify(ctx, sub); err != nil {
			logger.Warn("notification failed", zap.String("document_id", id), zap.Error(err))
		} else {
			logger.Debug("notification queued", zap.String("document_id", id))
		}
	}
	return Result{DocumentID: id, Collection: def.Collection}, nil
}

func (s *Submitter) loggerFor(ctx context.Context) *zap.Logger {
	if logger := observability.FromContext(ctx); logger != requestctx.NoopLogger() {
		return logger
	}
	return s.logger
}

func (s *Submitter) record(ctx context.Context, collection, outcome string) {
	if s.counter == nil {
		return
	}
	s.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("outcome", outcome),
	))
}
