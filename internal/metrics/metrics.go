// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Signup outcomes.
const (
	SignupCreated  = "created"
	SignupConflict = "conflict"
	SignupInvalid  = "invalid"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncSignup(outcome string)
	IncLogin(outcome string)
	IncSessionCacheHit()
	IncSessionCacheMiss()

	// Recipe metrics
	IncRecipeCreated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
