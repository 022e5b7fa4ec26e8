package synchronizer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/domain/grinder"
	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/metrics"
)

// API is the subset of the remote client the synchronizer reads from.
type API interface {
	FetchState(ctx context.Context) (*grinder.State, error)
	FetchAlarms(ctx context.Context) ([]*grinder.Alarm, error)
	FetchAlarmCount(ctx context.Context) (int, error)
}

// Slice names one independently owned piece of remote state.
type Slice string

// Slices held by the synchronizer.
const (
	SliceState  Slice = "state"
	SliceCount  Slice = "count"
	SliceAlarms Slice = "alarms"
)

// Listener is told which slice was just replaced. It runs on the goroutine
// that stored the value and must not block for long.
type Listener func(ctx context.Context, slice Slice)

// Snapshot is a consistent read of every slice at one instant.
type Snapshot struct {
	// State is nil until the first successful poll.
	State        *grinder.State
	AlarmCount   int
	Alarms       []*grinder.Alarm
	PanelVisible bool
}

// Synchronizer owns the local copies of the remote slices.
type Synchronizer struct {
	// api performs the remote reads.
	api API
	// stateInterval is the grinder state polling period.
	stateInterval time.Duration
	// countInterval is the alarm count polling period.
	countInterval time.Duration
	// listener is notified after each replacement.
	listener Listener

	// running guards against a second concurrent Run.
	running atomic.Bool

	// mu protects the slices below. Each slice is only written by its own
	// fetch handler, the lock only makes every replacement atomic for readers.
	mu           sync.RWMutex
	state        *grinder.State
	alarmCount   int
	alarms       []*grinder.Alarm
	panelVisible bool
}

// Option configures the synchronizer.
type Option func(*Synchronizer)

// WithStateInterval overrides the grinder state polling period.
func WithStateInterval(interval time.Duration) Option {
	return func(s *Synchronizer) {
		if interval > 0 {
			s.stateInterval = interval
		}
	}
}

// WithCountInterval overrides the alarm count polling period.
func WithCountInterval(interval time.Duration) Option {
	return func(s *Synchronizer) {
		if interval > 0 {
			s.countInterval = interval
		}
	}
}

// WithListener registers a change listener.
func WithListener(listener Listener) Option {
	return func(s *Synchronizer) {
		s.listener = listener
	}
}

// ErrAlreadyRunning is returned when Run is called while another Run is active.
var ErrAlreadyRunning = errors.New("synchronizer is already running")

// New creates a synchronizer reading from api.
func New(api API, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		api:           api,
		stateInterval: config.DefaultStateInterval,
		countInterval: config.DefaultCountInterval,
		alarms:        []*grinder.Alarm{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run polls the grinder state and the alarm count until ctx is done. Each
// loop fetches once immediately and then on its own ticker. A tick never
// waits for or cancels the previous request of the same slice; whichever
// response lands last is kept. Run returns only after both tickers are
// stopped and every in-flight poll has finished.
func (s *Synchronizer) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	ctx = logger.WithName(ctx, "synchronizer")

	logger.InfoKV(
		ctx,
		"Starting synchronization",
		"state_interval", s.stateInterval.String(),
		"count_interval", s.countInterval.String(),
	)

	var loops sync.WaitGroup

	loops.Go(func() {
		s.poll(ctx, s.stateInterval, s.pollState)
	})

	loops.Go(func() {
		s.poll(ctx, s.countInterval, s.pollCount)
	})

	loops.Wait()

	logger.Info(ctx, "Synchronization stopped")

	return nil
}

// poll runs fetch now and on every tick, each call on its own goroutine.
func (s *Synchronizer) poll(ctx context.Context, interval time.Duration, fetch func(ctx context.Context)) {
	var inFlight sync.WaitGroup
	defer inFlight.Wait()

	inFlight.Go(func() {
		fetch(ctx)
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			inFlight.Go(func() {
				fetch(ctx)
			})
		}
	}
}

// pollState replaces the whole snapshot on success and keeps the previous
// one on failure. The next tick is the only retry.
func (s *Synchronizer) pollState(ctx context.Context) {
	state, err := s.api.FetchState(ctx)
	if ctx.Err() != nil {
		return
	}

	metrics.IncPoll(string(SliceState), metrics.Result(err))

	if err != nil {
		logger.WarnKV(ctx, "Grinder state poll failed, keeping previous snapshot", "error", err)
		return
	}

	s.mu.Lock()
	s.state = state.Clone()
	s.mu.Unlock()

	s.notify(ctx, SliceState)
}

// pollCount is the scheduled count fetch.
func (s *Synchronizer) pollCount(ctx context.Context) {
	s.RefreshCount(ctx)
}

// RefreshCount fetches the alarm count now. On failure the previous value is kept.
func (s *Synchronizer) RefreshCount(ctx context.Context) {
	count, err := s.api.FetchAlarmCount(ctx)
	if ctx.Err() != nil {
		return
	}

	metrics.IncPoll(string(SliceCount), metrics.Result(err))

	if err != nil {
		logger.DebugKV(ctx, "Alarm count fetch failed, keeping previous value", "error", err)
		return
	}

	s.SetAlarmCount(ctx, count)
}

// RefreshAlarms fetches the alarm list now. Any failure empties the list.
func (s *Synchronizer) RefreshAlarms(ctx context.Context) {
	alarms, err := s.api.FetchAlarms(ctx)
	if ctx.Err() != nil {
		return
	}

	metrics.IncPoll(string(SliceAlarms), metrics.Result(err))

	if err != nil {
		logger.WarnKV(ctx, "Alarm list fetch failed, showing no alarms", "error", err)

		alarms = nil
	}

	s.mu.Lock()
	s.alarms = grinder.CloneAlarms(alarms)
	s.mu.Unlock()

	s.notify(ctx, SliceAlarms)
}

// SetAlarmCount stores a count without asking the server.
func (s *Synchronizer) SetAlarmCount(ctx context.Context, count int) {
	s.mu.Lock()
	s.alarmCount = count
	s.mu.Unlock()

	metrics.SetAlarmCount(count)

	s.notify(ctx, SliceCount)
}

// SetPanelVisible records whether the alarm panel is shown. Opening a closed
// panel fetches the list once; nothing is cached across a close.
func (s *Synchronizer) SetPanelVisible(ctx context.Context, visible bool) {
	s.mu.Lock()
	opened := visible && !s.panelVisible
	s.panelVisible = visible
	s.mu.Unlock()

	if opened {
		s.RefreshAlarms(ctx)
	}
}

// TogglePanel flips the panel visibility and returns the new value.
func (s *Synchronizer) TogglePanel(ctx context.Context) bool {
	visible := !s.PanelVisible()
	s.SetPanelVisible(ctx, visible)

	return visible
}

// State returns a copy of the last snapshot, or nil before the first poll.
func (s *Synchronizer) State() *grinder.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// AlarmCount returns the last known unacknowledged count.
func (s *Synchronizer) AlarmCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.alarmCount
}

// Alarms returns a copy of the last fetched alarm list.
func (s *Synchronizer) Alarms() []*grinder.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return grinder.CloneAlarms(s.alarms)
}

// PanelVisible reports whether the alarm panel is shown.
func (s *Synchronizer) PanelVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.panelVisible
}

// Snapshot reads every slice under one lock.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		State:        s.state.Clone(),
		AlarmCount:   s.alarmCount,
		Alarms:       grinder.CloneAlarms(s.alarms),
		PanelVisible: s.panelVisible,
	}
}

func (s *Synchronizer) notify(ctx context.Context, slice Slice) {
	if s.listener != nil {
		s.listener(ctx, slice)
	}
}
