package store

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
)

// ErrInvalidFilter is returned, wrapped, for a filter that does not compile
// or does not evaluate to a bool.
var ErrInvalidFilter = errors.New("invalid filter")

// ReminderFilterVariables are the identifiers a reminder filter may use.
var ReminderFilterVariables = []cel.EnvOption{
	cel.Variable("uid", cel.StringType),
	cel.Variable("creator_id", cel.IntType),
	cel.Variable("title", cel.StringType),
	cel.Variable("status", cel.StringType),
	cel.Variable("trigger_ts", cel.IntType),
	cel.Variable("timezone", cel.StringType),
	cel.Variable("iso_date", cel.StringType),
	cel.Variable("iso_time", cel.StringType),
	cel.Variable("created_ts", cel.IntType),
}

var reminderFilterEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(ReminderFilterVariables...)
})

// ReminderFilter is a compiled CEL predicate over reminders, for example
// `status == "pending" && iso_date >= "2025-10-20"`.
type ReminderFilter struct {
	source  string
	program cel.Program
}

// NewReminderFilter compiles expr.
func NewReminderFilter(expr string) (*ReminderFilter, error) {
	env, err := reminderFilterEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s: %v", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s: expression must evaluate to bool, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s: %v", expr, err)
	}
	return &ReminderFilter{source: expr, program: program}, nil
}

// String returns the filter source.
func (f *ReminderFilter) String() string {
	return f.source
}

// Match evaluates the filter against a reminder.
func (f *ReminderFilter) Match(r *Reminder) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"uid":        r.UID,
		"creator_id": int64(r.CreatorID),
		"title":      r.Title,
		"status":     string(r.Status),
		"trigger_ts": r.TriggerTs,
		"timezone":   r.Timezone,
		"iso_date":   r.IsoDate,
		"iso_time":   r.IsoTime,
		"created_ts": r.CreatedTs,
	})
	if err != nil {
		return false, errors.Wrapf(ErrInvalidFilter, "%s: %v", f.source, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.Wrapf(ErrInvalidFilter, "%s: non-bool result %v", f.source, out)
	}
	return matched, nil
}
