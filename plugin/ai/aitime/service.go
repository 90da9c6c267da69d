package aitime

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrygo/pengingat/server/timezone"
)

// Service implements TemporalService with rule-based resolution.
type Service struct {
	location      *time.Location
	activityLabel string
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the civil timezone results are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the diagnostic logger. Logging never affects results.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow overrides the clock used when no reference instant is given.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithActivityLabel sets the label used when a message has no activity text.
func WithActivityLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.activityLabel = label
		}
	}
}

// NewService creates a new temporal service. Without options it resolves in
// Asia/Jakarta, uses the wall clock and discards diagnostics.
func NewService(opts ...Option) *Service {
	s := &Service{
		location:      timezone.LocationAsiaJakarta,
		activityLabel: DefaultActivityLabel,
		now:           time.Now,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the civil timezone of resolved results.
func (s *Service) Location() *time.Location {
	return s.location
}

// ExtractIntent extracts temporal signals using the service's activity label.
func (s *Service) ExtractIntent(message string) ParsedIntent {
	return extractIntent(message, s.activityLabel)
}

// Resolve resolves an intent against the reference's civil date in the
// service timezone.
func (s *Service) Resolve(intent ParsedIntent, reference time.Time) ResolutionResult {
	return Resolve(intent, reference.In(s.location))
}

// ParseTemporalExpression extracts and resolves a message.
func (s *Service) ParseTemporalExpression(ctx context.Context, message string, reference *time.Time) ResolutionResult {
	ref := s.now()
	if reference != nil {
		ref = *reference
	}

	intent := s.ExtractIntent(message)
	s.logger.DebugContext(ctx, "aitime: extracted temporal intent",
		slog.String("raw_input", intent.RawInput),
		slog.String("activity", intent.ActivityText),
		slog.String("date_descriptor", intent.Date.String()),
		slog.String("time_descriptor", intent.TimeOfDay.String()),
		slog.Bool("explicit_time", intent.ExplicitTime != nil),
	)

	result := s.Resolve(intent, ref)
	s.logger.DebugContext(ctx, "aitime: resolved temporal expression",
		slog.String("status", string(result.Status)),
		slog.String("iso_date", result.IsoDate),
		slog.String("iso_time", result.IsoTime),
		slog.Time("reference", ref),
	)
	return result
}

// Ensure Service implements TemporalService
var _ TemporalService = (*Service)(nil)
