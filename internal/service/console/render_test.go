package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/grinder-console/internal/domain/grinder"
	"github.com/oshokin/grinder-console/internal/service/synchronizer"
)

// listAPI serves a fixed alarm list and count.
type listAPI struct {
	alarms []*grinder.Alarm
	count  int
}

func (a *listAPI) FetchState(context.Context) (*grinder.State, error) {
	return &grinder.State{}, nil
}

func (a *listAPI) FetchAlarms(context.Context) ([]*grinder.Alarm, error) {
	return grinder.CloneAlarms(a.alarms), nil
}

func (a *listAPI) FetchAlarmCount(context.Context) (int, error) {
	return a.count, nil
}

// TestFormatState renders lamps in panel order and the waiting placeholder.
func TestFormatState(t *testing.T) {
	t.Parallel()

	require.Equal(t, "state: waiting for first update", formatState(nil))

	line := formatState(&grinder.State{Forward: true, GatewayConnected: true})
	require.True(t, strings.HasPrefix(line, "state: Forward: ON | Reverse: off"))
	require.True(t, strings.HasSuffix(line, "Gateway: ON"))
}

// TestWriteAlarms renders the empty panel and acknowledged markers.
func TestWriteAlarms(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	writeAlarms(&buf, nil, 0, now)
	require.Equal(t, "Alarms & notifications (0 unacknowledged)\n  No alarms to display\n", buf.String())

	buf.Reset()
	writeAlarms(&buf, []*grinder.Alarm{
		{ID: "1", Type: "JAM", Severity: "critical", Message: "Jam detected", Timestamp: now.Add(-5 * time.Minute)},
		{ID: "2", Type: "LEVEL", Severity: "warning", Message: "Low level", Timestamp: now, Acknowledged: true},
	}, 1, now)

	out := buf.String()
	require.Contains(t, out, "(1 unacknowledged)")
	require.Contains(t, out, "CRITICAL")
	require.Contains(t, out, "5 mins ago - Jam detected\n")
	require.Contains(t, out, "Just now - Low level [acknowledged]\n")
}

// TestView_HandleUsage checks argument validation and the help fallback without touching the network.
func TestView_HandleUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := &view{out: newPrinter(&buf)}

	require.False(t, v.handle(t.Context(), ""))
	require.False(t, v.handle(t.Context(), "ack"))
	require.False(t, v.handle(t.Context(), "delete"))
	require.False(t, v.handle(t.Context(), "bogus"))
	require.True(t, v.handle(t.Context(), "quit"))
	require.True(t, v.handle(t.Context(), "Q"))

	out := buf.String()
	require.Contains(t, out, "usage: ack <id>")
	require.Contains(t, out, "usage: delete <id>")
	require.Contains(t, out, "commands:")
}

// TestView_OnChangePrintsPanel prints the count change and, once the panel is open, the list with its header.
func TestView_OnChangePrintsPanel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	v := &view{out: newPrinter(&buf), lastCount: -1}
	v.syncer = synchronizer.New(
		&listAPI{
			alarms: []*grinder.Alarm{{ID: "7", Type: "JAM", Severity: "critical", Message: "Jam detected"}},
			count:  1,
		},
		synchronizer.WithListener(v.onChange),
	)

	ctx := t.Context()

	v.syncer.RefreshCount(ctx)
	v.syncer.RefreshCount(ctx)
	require.Equal(t, "unacknowledged alarms: 1\n", buf.String())

	// Closed panel: a list refresh prints nothing.
	buf.Reset()
	v.syncer.RefreshAlarms(ctx)
	require.Empty(t, buf.String())

	v.syncer.SetPanelVisible(ctx, false)
	v.syncer.SetPanelVisible(ctx, true)

	out := buf.String()
	require.Contains(t, out, "Alarms & notifications (1 unacknowledged)\n")
	require.Contains(t, out, "Unknown time - Jam detected\n")
}
