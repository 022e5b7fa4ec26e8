package reset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/metrics"
)

// API is the subset of the remote client used by the reset command.
type API interface {
	Reset(ctx context.Context) (bool, error)
}

// Phase is the state of the reset command.
type Phase int

// Phases of the reset command.
const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseResolved
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in-flight"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Messages shown once a reset resolves.
const (
	MessageSuccess = "Reset sent successfully"
	MessageFailure = "Reset failed"
)

// ErrInFlight is returned when a reset is triggered while another is pending.
var ErrInFlight = errors.New("reset already in flight")

// Status is what the operator sees.
type Status struct {
	Phase   Phase
	Message string
	Success bool
}

// Command is the reset state machine.
type Command struct {
	// api sends the command.
	api API
	// display is how long a resolved message stays before returning to idle.
	display time.Duration

	// mu protects the fields below.
	mu     sync.Mutex
	status Status
	// clear returns the machine to idle once the display window ends.
	clear *time.Timer
	// generation invalidates clear timers of earlier resolutions.
	generation uint64
}

// New creates the reset state machine. A non-positive display duration
// falls back to the default.
func New(api API, display time.Duration) *Command {
	if display <= 0 {
		display = config.DefaultResetMessageDuration
	}

	return &Command{
		api:     api,
		display: display,
	}
}

// Trigger sends a reset unless one is already in flight, in which case it
// returns ErrInFlight and nothing is queued. Reset failures are not errors:
// they resolve with MessageFailure.
func (c *Command) Trigger(ctx context.Context) (Status, error) {
	ctx = logger.WithName(ctx, "reset")

	c.mu.Lock()
	if c.status.Phase == PhaseInFlight {
		status := c.status
		c.mu.Unlock()

		return status, ErrInFlight
	}

	c.stopClearLocked()
	c.status = Status{Phase: PhaseInFlight}
	c.mu.Unlock()

	accepted, err := c.api.Reset(ctx)

	status := Status{
		Phase:   PhaseResolved,
		Message: MessageFailure,
	}

	switch {
	case err != nil:
		logger.ErrorKV(ctx, "Reset failed", "error", err)
	case !accepted:
		logger.WarnKV(ctx, "Reset refused by controller")
	default:
		status.Message = MessageSuccess
		status.Success = true

		logger.Info(ctx, "Reset sent")
	}

	result := metrics.ResultSuccess
	if !status.Success {
		result = metrics.ResultError
	}

	metrics.IncReset(result)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
	c.generation++

	generation := c.generation
	c.clear = time.AfterFunc(c.display, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.generation == generation {
			c.status = Status{Phase: PhaseIdle}
		}
	})

	return status, nil
}

// Status returns the current phase and message.
func (c *Command) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Close stops a pending message clear.
func (c *Command) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopClearLocked()
}

func (c *Command) stopClearLocked() {
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
}
