package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/grinder-console/internal/domain/grinder"
	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/metrics"
	"github.com/oshokin/grinder-console/internal/service/common"
	"github.com/oshokin/grinder-console/internal/service/lifecycle"
	"github.com/oshokin/grinder-console/internal/service/reset"
	"github.com/oshokin/grinder-console/internal/service/synchronizer"
)

const (
	// metricsShutdownTimeout bounds the graceful stop of the metrics endpoint.
	metricsShutdownTimeout = 5 * time.Second
	// metricsReadHeaderTimeout protects the metrics endpoint from slow clients.
	metricsReadHeaderTimeout = 5 * time.Second
)

const helpText = `commands:
  alarms          open or close the alarm panel
  ack <id>        acknowledge one alarm
  ack-all         acknowledge every alarm
  delete <id>     delete one alarm
  reset           send the reset command
  state           print the indicator lamps
  quit            stop watching
`

// view is the watch screen: it prints slice changes and runs operator commands.
type view struct {
	out    *printer
	syncer *synchronizer.Synchronizer
	alarms *lifecycle.Controller
	reset  *reset.Command

	// mu protects the last printed values.
	mu        sync.Mutex
	lastState *grinder.State
	lastCount int
	// pending tracks reset commands still running.
	pending sync.WaitGroup
}

// Watch keeps the grinder state and the alarm count fresh until ctx is done
// or the operator quits, printing every change. Commands are read line by
// line from opts.In when it is set.
func Watch(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "watch")

	console, err := common.Open(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	cfg := console.Config
	v := &view{
		out:       newPrinter(common.Output(opts.Out)),
		lastCount: -1,
	}

	v.syncer = synchronizer.New(
		console.API,
		synchronizer.WithStateInterval(cfg.StateInterval),
		synchronizer.WithCountInterval(cfg.CountInterval),
		synchronizer.WithListener(v.onChange),
	)
	v.alarms = lifecycle.New(console.API, v.syncer)
	v.reset = reset.New(console.API, cfg.ResetMessageDuration)

	defer v.reset.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tasks sync.WaitGroup

	if cfg.MetricsAddress != "" {
		tasks.Go(func() {
			serveMetrics(ctx, cfg.MetricsAddress)
		})
	}

	tasks.Go(func() {
		if err := v.syncer.Run(ctx); err != nil {
			logger.ErrorKV(ctx, "Synchronizer stopped", "error", err)
		}
	})

	if opts.ShowAlarms {
		v.syncer.SetPanelVisible(ctx, true)
	}

	if opts.In != nil {
		v.readCommands(ctx, opts.In)
	} else {
		<-ctx.Done()
	}

	cancel()
	tasks.Wait()
	v.pending.Wait()

	return nil
}

// readCommands runs operator commands until quit, end of input is ignored so
// a detached watch keeps running until it is signalled.
func (v *view) readCommands(ctx context.Context, in io.Reader) {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}

			if quit := v.handle(ctx, line); quit {
				return
			}
		}
	}
}

// handle runs one operator command and reports whether to stop.
func (v *view) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true
	case "alarms", "a":
		if !v.syncer.TogglePanel(ctx) {
			v.out.printf("alarm panel closed\n")
		}
	case "ack":
		if len(fields) < 2 {
			v.out.printf("usage: ack <id>\n")
			break
		}

		_ = v.alarms.Acknowledge(ctx, fields[1])
	case "ack-all":
		_ = v.alarms.AcknowledgeAll(ctx)
	case "delete", "del":
		if len(fields) < 2 {
			v.out.printf("usage: delete <id>\n")
			break
		}

		_ = v.alarms.Delete(ctx, fields[1])
	case "reset":
		v.triggerReset(ctx)
	case "state":
		v.out.state(v.syncer.State())
	default:
		v.out.printf("%s", helpText)
	}

	return false
}

// triggerReset sends the reset without blocking the command loop. A second
// reset while one is pending is refused by the state machine.
func (v *view) triggerReset(ctx context.Context) {
	v.pending.Go(func() {
		status, err := v.reset.Trigger(ctx)
		if errors.Is(err, reset.ErrInFlight) {
			v.out.printf("reset already in progress\n")
			return
		}

		v.out.printf("%s\n", status.Message)
	})
}

// onChange prints what the synchronizer just replaced.
func (v *view) onChange(_ context.Context, slice synchronizer.Slice) {
	switch slice {
	case synchronizer.SliceState:
		state := v.syncer.State()
		if state == nil {
			return
		}

		v.mu.Lock()
		changed := v.lastState == nil || *v.lastState != *state
		v.lastState = state
		v.mu.Unlock()

		if changed {
			v.out.state(state)
		}
	case synchronizer.SliceCount:
		count := v.syncer.AlarmCount()

		v.mu.Lock()
		changed := v.lastCount != count
		v.lastCount = count
		v.mu.Unlock()

		if changed {
			v.out.printf("unacknowledged alarms: %d\n", count)
		}
	case synchronizer.SliceAlarms:
		// One read so the list and the count in the header match.
		snapshot := v.syncer.Snapshot()
		if snapshot.PanelVisible {
			v.out.alarms(snapshot.Alarms, snapshot.AlarmCount)
		}
	}
}

// serveMetrics exposes the Prometheus endpoint until ctx is done.
func serveMetrics(ctx context.Context, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	// Done channel is closed after Shutdown finishes.
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	logger.InfoKV(ctx, "Serving metrics", "address", address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorKV(ctx, "Metrics endpoint failed", "error", err)
	}

	<-done
}
