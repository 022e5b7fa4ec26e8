package lifecycle

import (
	"context"

	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/metrics"
)

// API is the subset of the remote client that mutates alarms.
type API interface {
	Acknowledge(ctx context.Context, id string) error
	AcknowledgeAll(ctx context.Context) error
	DeleteAlarm(ctx context.Context, id string) error
}

// Resync is what the controller needs from the synchronizer.
type Resync interface {
	RefreshAlarms(ctx context.Context)
	RefreshCount(ctx context.Context)
	SetAlarmCount(ctx context.Context, count int)
}

// Action names, used for metrics and logs.
const (
	ActionAcknowledge    = "acknowledge"
	ActionAcknowledgeAll = "acknowledge_all"
	ActionDelete         = "delete"
)

// Controller issues alarm mutations and resynchronizes afterwards.
type Controller struct {
	// api performs the mutations.
	api API
	// resync refreshes the local slices.
	resync Resync
}

// New wires a controller.
func New(api API, resync Resync) *Controller {
	return &Controller{
		api:    api,
		resync: resync,
	}
}

// Acknowledge acknowledges one alarm, then refetches the list and the count
// as two separate requests whatever the outcome of the acknowledgement.
// The returned error is the mutation error, already logged; the refetches
// have run by the time it is returned.
func (c *Controller) Acknowledge(ctx context.Context, id string) error {
	ctx = logger.WithKV(logger.WithName(ctx, "lifecycle"), "alarm_id", id)

	err := c.api.Acknowledge(ctx, id)
	c.record(ctx, ActionAcknowledge, err)

	c.resync.RefreshAlarms(ctx)
	c.resync.RefreshCount(ctx)

	return err
}

// AcknowledgeAll acknowledges every alarm, refetches the list and sets the
// local count to zero without asking the server for it.
func (c *Controller) AcknowledgeAll(ctx context.Context) error {
	ctx = logger.WithName(ctx, "lifecycle")

	err := c.api.AcknowledgeAll(ctx)
	c.record(ctx, ActionAcknowledgeAll, err)

	c.resync.RefreshAlarms(ctx)
	c.resync.SetAlarmCount(ctx, 0)

	return err
}

// Delete removes one alarm, then refetches the list and the count.
func (c *Controller) Delete(ctx context.Context, id string) error {
	ctx = logger.WithKV(logger.WithName(ctx, "lifecycle"), "alarm_id", id)

	err := c.api.DeleteAlarm(ctx, id)
	c.record(ctx, ActionDelete, err)

	c.resync.RefreshAlarms(ctx)
	c.resync.RefreshCount(ctx)

	return err
}

// record logs and counts a mutation. Failures are not retried or rolled
// back; the refetch that follows shows the real server state.
func (c *Controller) record(ctx context.Context, action string, err error) {
	metrics.IncAlarmAction(action, metrics.Result(err))

	if err != nil {
		logger.ErrorKV(ctx, "Alarm action failed", "action", action, "error", err)
		return
	}

	logger.DebugKV(ctx, "Alarm action accepted", "action", action)
}
