// Package aitime resolves free-form Indonesian/English temporal expressions
// ("besok jam 6 sore", "lusa pagi", "jam 6") into a civil date and time.
// This interface is consumed by the reminder service and the HTTP API.
package aitime

import (
	"context"
	"time"
)

// TemporalService defines the temporal expression resolver interface.
// Consumers: plugin/ai/reminder, server/router/api/v1, cmd/pengingat
type TemporalService interface {
	// ParseTemporalExpression resolves a message against a reference instant.
	// A nil reference means "now". The call never fails: input that cannot be
	// resolved yields a NeedsClarification result.
	ParseTemporalExpression(ctx context.Context, message string, reference *time.Time) ResolutionResult

	// Location returns the civil timezone resolved dates and times belong to.
	Location() *time.Location
}
