package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/service/common"
	"github.com/oshokin/grinder-console/internal/service/lifecycle"
	"github.com/oshokin/grinder-console/internal/service/reset"
	"github.com/oshokin/grinder-console/internal/service/synchronizer"
)

// Options configures the console commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Out receives the operator-facing output.
	Out io.Writer
	// In feeds operator commands to Watch; nil disables them.
	In io.Reader
	// ShowAlarms opens the alarm panel when Watch starts.
	ShowAlarms bool
}

// errResetFailed makes the reset command exit non-zero.
var errResetFailed = errors.New(reset.MessageFailure)

// oneShot is the wiring shared by the single-action commands.
type oneShot struct {
	console *common.Console
	syncer  *synchronizer.Synchronizer
	alarms  *lifecycle.Controller
	out     *printer
}

func openOneShot(ctx context.Context, opts *Options) (*oneShot, error) {
	console, err := common.Open(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	syncer := synchronizer.New(console.API)

	return &oneShot{
		console: console,
		syncer:  syncer,
		alarms:  lifecycle.New(console.API, syncer),
		out:     newPrinter(common.Output(opts.Out)),
	}, nil
}

func (o *oneShot) printAlarms() {
	snapshot := o.syncer.Snapshot()
	o.out.alarms(snapshot.Alarms, snapshot.AlarmCount)
}

// ListAlarms opens the alarm panel once and prints it with the current count.
func ListAlarms(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarms")

	o, err := openOneShot(ctx, opts)
	if err != nil {
		return err
	}

	o.syncer.SetPanelVisible(ctx, true)
	o.syncer.RefreshCount(ctx)
	o.printAlarms()

	return nil
}

// AlarmCount prints the unacknowledged alarm count.
func AlarmCount(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarms")

	o, err := openOneShot(ctx, opts)
	if err != nil {
		return err
	}

	count, err := o.console.API.FetchAlarmCount(ctx)
	if err != nil {
		return err
	}

	o.out.printf("%d\n", count)

	return nil
}

// Acknowledge acknowledges one alarm and prints the refreshed panel.
func Acknowledge(ctx context.Context, opts *Options, id string) error {
	ctx = logger.WithName(ctx, "alarms")

	o, err := openOneShot(ctx, opts)
	if err != nil {
		return err
	}

	err = o.alarms.Acknowledge(ctx, id)
	o.printAlarms()

	return err
}

// AcknowledgeAll acknowledges every alarm and prints the refreshed panel.
func AcknowledgeAll(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarms")

	o, err := openOneShot(ctx, opts)
	if err != nil {
		return err
	}

	err = o.alarms.AcknowledgeAll(ctx)
	o.printAlarms()

	return err
}

// Delete removes one alarm and prints the refreshed panel.
func Delete(ctx context.Context, opts *Options, id string) error {
	ctx = logger.WithName(ctx, "alarms")

	o, err := openOneShot(ctx, opts)
	if err != nil {
		return err
	}

	err = o.alarms.Delete(ctx, id)
	o.printAlarms()

	return err
}

// Reset sends the reset command and prints its outcome.
func Reset(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "reset")

	console, err := common.Open(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	command := reset.New(console.API, console.Config.ResetMessageDuration)
	defer command.Close()

	status, err := command.Trigger(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(common.Output(opts.Out), status.Message)

	if !status.Success {
		return errResetFailed
	}

	return nil
}
