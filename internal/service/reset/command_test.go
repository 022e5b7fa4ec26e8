package reset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

var errTestNetwork = errors.New("test network error")

// fakeAPI answers Reset with a fixed outcome, optionally waiting for release first.
type fakeAPI struct {
	accepted bool
	err      error
	release  chan struct{}
	calls    atomic.Int32
}

// Reset implements API.
func (f *fakeAPI) Reset(context.Context) (bool, error) {
	f.calls.Add(1)

	if f.release != nil {
		<-f.release
	}

	return f.accepted, f.err
}

// TestTrigger_OutcomesAndAutoClear checks the message per outcome and that it clears after the display duration.
func TestTrigger_OutcomesAndAutoClear(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		api     *fakeAPI
		message string
		success bool
	}{
		"accepted": {api: &fakeAPI{accepted: true}, message: MessageSuccess, success: true},
		"refused":  {api: &fakeAPI{accepted: false}, message: MessageFailure},
		"network":  {api: &fakeAPI{err: errTestNetwork}, message: MessageFailure},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			synctest.Test(t, func(t *testing.T) {
				c := New(tc.api, 3*time.Second)
				defer c.Close()

				require.Equal(t, PhaseIdle, c.Status().Phase)

				status, err := c.Trigger(context.Background())
				require.NoError(t, err)
				require.Equal(t, PhaseResolved, status.Phase)
				require.Equal(t, tc.message, status.Message)
				require.Equal(t, tc.success, status.Success)

				time.Sleep(2900 * time.Millisecond)
				synctest.Wait()
				require.Equal(t, tc.message, c.Status().Message)

				time.Sleep(200 * time.Millisecond)
				synctest.Wait()
				require.Equal(t, Status{Phase: PhaseIdle}, c.Status())
			})
		})
	}
}

// TestTrigger_RejectsWhileInFlight ensures a concurrent trigger is rejected, not queued.
func TestTrigger_RejectsWhileInFlight(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		api := &fakeAPI{accepted: true, release: make(chan struct{})}
		c := New(api, time.Second)
		defer c.Close()

		done := make(chan Status, 1)

		go func() {
			status, _ := c.Trigger(context.Background())
			done <- status
		}()

		synctest.Wait()
		require.Equal(t, PhaseInFlight, c.Status().Phase)

		_, err := c.Trigger(context.Background())
		require.ErrorIs(t, err, ErrInFlight)

		close(api.release)

		status := <-done
		require.Equal(t, MessageSuccess, status.Message)

		synctest.Wait()
		require.Equal(t, int32(1), api.calls.Load())
	})
}

// TestTrigger_AgainRestartsDisplayWindow ensures an earlier clear timer cannot wipe a newer outcome.
func TestTrigger_AgainRestartsDisplayWindow(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		api := &fakeAPI{accepted: true}
		c := New(api, 3*time.Second)
		defer c.Close()

		_, err := c.Trigger(context.Background())
		require.NoError(t, err)

		time.Sleep(2 * time.Second)

		api.accepted = false

		_, err = c.Trigger(context.Background())
		require.NoError(t, err)

		// The first window would have ended at 3s.
		time.Sleep(1500 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, MessageFailure, c.Status().Message)

		time.Sleep(2 * time.Second)
		synctest.Wait()
		require.Equal(t, PhaseIdle, c.Status().Phase)
	})
}

// TestPhaseString covers the phase names used in console output.
func TestPhaseString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "idle", PhaseIdle.String())
	require.Equal(t, "in-flight", PhaseInFlight.String())
	require.Equal(t, "resolved", PhaseResolved.String())
	require.Equal(t, "unknown", Phase(42).String())
}
