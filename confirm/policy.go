package confirm

import (
	"time"
)

const (
	DefaultMaxAttempts     = 200
	DefaultTimeoutCost     = 10
	DefaultAttemptTimeout  = 60 * time.Second
	DefaultPriorityBackoff = 50 * time.Millisecond
)

// RetryPolicy bounds the submit-and-watch cycle of one request.
type RetryPolicy struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// Budget consumed by an attempt that timed out.
	TimeoutCost     int           `yaml:"timeout_cost" mapstructure:"timeout_cost"`
	AttemptTimeout  time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	PriorityBackoff time.Duration `yaml:"priority_backoff" mapstructure:"priority_backoff"`
	// Wall-clock ceiling across all attempts; zero disables it.
	MaxElapsed time.Duration `yaml:"max_elapsed" mapstructure:"max_elapsed"`
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     DefaultMaxAttempts,
		TimeoutCost:     DefaultTimeoutCost,
		AttemptTimeout:  DefaultAttemptTimeout,
		PriorityBackoff: DefaultPriorityBackoff,
	}
}

// WithDefaults fills unset fields.
func (p RetryPolicy) WithDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.TimeoutCost <= 0 {
		p.TimeoutCost = def.TimeoutCost
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	if p.PriorityBackoff < 0 {
		p.PriorityBackoff = def.PriorityBackoff
	}
	if p.MaxElapsed < 0 {
		p.MaxElapsed = 0
	}
	return p
}

// RetryBudget tracks what one request has spent. Used never decreases.
type RetryBudget struct {
	policy   RetryPolicy
	used     int
	attempts int
	started  time.Time
	now      func() time.Time
}

func NewRetryBudget(policy RetryPolicy) *RetryBudget {
	return newRetryBudget(policy, time.Now)
}

func newRetryBudget(policy RetryPolicy, now func() time.Time) *RetryBudget {
	return &RetryBudget{policy: policy, started: now(), now: now}
}

// Begin records a new attempt and returns its 1-based number.
func (b *RetryBudget) Begin() int {
	b.attempts++
	return b.attempts
}

// Consume charges the budget for a failed attempt.
func (b *RetryBudget) Consume(kind ErrorKind) {
	if kind == KindTimeout {
		b.used += b.policy.TimeoutCost
		return
	}
	b.used++
}

func (b *RetryBudget) Used() int {
	return b.used
}

func (b *RetryBudget) Attempts() int {
	return b.attempts
}

func (b *RetryBudget) Elapsed() time.Duration {
	return b.now().Sub(b.started)
}

func (b *RetryBudget) Exhausted() bool {
	return b.used >= b.policy.MaxAttempts
}

func (b *RetryBudget) PastDeadline() bool {
	return b.policy.MaxElapsed > 0 && b.Elapsed() >= b.policy.MaxElapsed
}
