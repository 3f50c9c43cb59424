package config

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ACATN/pkg/logger"
)

// State is the registry lifecycle position.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Observer receives registry lifecycle events, typically a metrics recorder.
type Observer interface {
	ObserveInit(result string, d time.Duration)
	ObserveSnapshot(s *Snapshot)
}

// RegistryOption configures Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

// WithObserver attaches a lifecycle observer.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		r.obs = o
	}
}

// Registry builds the configuration snapshot once and serves it to readers.
// Ready and Failed are terminal.
type Registry struct {
	mu    sync.Mutex
	state atomic.Int32
	snap  atomic.Pointer[Snapshot]
	err   error

	log *logger.Logger
	obs Observer
}

// NewRegistry creates an uninitialized registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	return State(r.state.Load())
}

// Initialize builds the snapshot from src on the first call. Later and
// concurrent calls block until that build finishes, then return its outcome
// without reading src again. A *ParseError leaves the registry Failed.
func (r *Registry) Initialize(src Source) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.State() {
	case StateReady:
		return r.snap.Load(), nil
	case StateFailed:
		return nil, r.err
	}

	r.state.Store(int32(StateInitializing))
	start := time.Now()

	snap, err := build(src)
	if err != nil {
		r.err = fmt.Errorf("initialize config: %w", err)
		r.state.Store(int32(StateFailed))
		r.observeInit("failed", time.Since(start))
		r.log.Error("configuration initialization failed", logger.Error(err))
		return nil, r.err
	}

	if v := snap.CredentialValidation(); !v.OK() {
		r.log.Warn("credential validation failed - proceeding without credentials",
			logger.Strings("fields", v.Fields()),
			logger.String("problems", v.String()),
		)
	}

	r.snap.Store(snap)
	r.state.Store(int32(StateReady))
	r.observeInit("ready", time.Since(start))
	if r.obs != nil {
		r.obs.ObserveSnapshot(snap)
	}

	limits := snap.Limits()
	symbols := make(map[string]int, len(AssetClasses))
	for _, class := range AssetClasses {
		symbols[string(class)] = len(limits.Symbols(class))
	}
	r.log.Info("configuration initialized",
		logger.Bool("credentials_valid", snap.CredentialsValid()),
		logger.Float64("max_position_size", limits.MaxPositionSize),
		logger.Float64("max_daily_loss", limits.MaxDailyLoss),
		logger.Int("historical_days", limits.HistoricalDays),
		logger.Any("symbols", symbols),
	)
	return snap, nil
}

// Snapshot returns the published snapshot. Before a successful Initialize it
// returns ErrUninitialized, or the construction error once Failed.
func (r *Registry) Snapshot() (*Snapshot, error) {
	switch r.State() {
	case StateReady:
		return r.snap.Load(), nil
	case StateFailed:
		return nil, r.err
	default:
		return nil, ErrUninitialized
	}
}

// MustSnapshot is Snapshot for callers wired after a successful Initialize.
func (r *Registry) MustSnapshot() *Snapshot {
	s, err := r.Snapshot()
	if err != nil {
		panic(err)
	}
	return s
}

func (r *Registry) observeInit(result string, d time.Duration) {
	if r.obs != nil {
		r.obs.ObserveInit(result, d)
	}
}

func build(src Source) (*Snapshot, error) {
	cred := ParseCredential(src)

	limits, err := ParseTradingLimits(src)
	if err != nil {
		return nil, fmt.Errorf("trading limits: %w", err)
	}

	learning, err := ParseLearning(src)
	if err != nil {
		return nil, fmt.Errorf("learning: %w", err)
	}

	return NewSnapshot(cred, limits, learning), nil
}
