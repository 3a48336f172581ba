package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignupsCreated   uint64
	SignupsConflict  uint64
	SignupsInvalid   uint64
	LoginsSuccess    uint64
	LoginsFailure    uint64
	SessionCacheHits uint64
	SessionCacheMiss uint64
	RecipesCreated   uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signupsCreated   uint64
	signupsConflict  uint64
	signupsInvalid   uint64
	loginsSuccess    uint64
	loginsFailure    uint64
	sessionCacheHits uint64
	sessionCacheMiss uint64
	recipesCreated   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SignupsCreated:   atomic.LoadUint64(&m.signupsCreated),
		SignupsConflict:  atomic.LoadUint64(&m.signupsConflict),
		SignupsInvalid:   atomic.LoadUint64(&m.signupsInvalid),
		LoginsSuccess:    atomic.LoadUint64(&m.loginsSuccess),
		LoginsFailure:    atomic.LoadUint64(&m.loginsFailure),
		SessionCacheHits: atomic.LoadUint64(&m.sessionCacheHits),
		SessionCacheMiss: atomic.LoadUint64(&m.sessionCacheMiss),
		RecipesCreated:   atomic.LoadUint64(&m.recipesCreated),
	}
}

// IncSignup increments the counter for a signup outcome.
func (m *InMemoryRecorder) IncSignup(outcome string) {
	switch outcome {
	case SignupCreated:
		atomic.AddUint64(&m.signupsCreated, 1)
	case SignupConflict:
		atomic.AddUint64(&m.signupsConflict, 1)
	case SignupInvalid:
		atomic.AddUint64(&m.signupsInvalid, 1)
	}
}

// IncLogin increments the counter for a login outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	switch outcome {
	case LoginSuccess:
		atomic.AddUint64(&m.loginsSuccess, 1)
	case LoginFailure:
		atomic.AddUint64(&m.loginsFailure, 1)
	}
}

// IncSessionCacheHit increments the session cache hit counter.
func (m *InMemoryRecorder) IncSessionCacheHit() {
	atomic.AddUint64(&m.sessionCacheHits, 1)
}

// IncSessionCacheMiss increments the session cache miss counter.
func (m *InMemoryRecorder) IncSessionCacheMiss() {
	atomic.AddUint64(&m.sessionCacheMiss, 1)
}

// IncRecipeCreated increments the recipes created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}
