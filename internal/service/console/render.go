package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/grinder-console/internal/domain/grinder"
)

// printer serializes writes coming from poll handlers and command handlers.
type printer struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out: out,
		now: time.Now,
	}
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *printer) state(state *grinder.State) {
	p.printf("%s\n", formatState(state))
}

func (p *printer) alarms(alarms []*grinder.Alarm, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	writeAlarms(p.out, alarms, count, p.now())
}

// formatState renders the indicators as one line of lamps.
func formatState(state *grinder.State) string {
	if state == nil {
		return "state: waiting for first update"
	}

	lamps := make([]string, 0, len(state.Indicators()))
	for _, indicator := range state.Indicators() {
		lamp := "off"
		if indicator.Active {
			lamp = "ON"
		}

		lamps = append(lamps, indicator.Name+": "+lamp)
	}

	return "state: " + strings.Join(lamps, " | ")
}

// writeAlarms renders the alarm panel.
func writeAlarms(w io.Writer, alarms []*grinder.Alarm, count int, now time.Time) {
	_, _ = fmt.Fprintf(w, "Alarms & notifications (%d unacknowledged)\n", count)

	if len(alarms) == 0 {
		_, _ = fmt.Fprintln(w, "  No alarms to display")
		return
	}

	for _, a := range alarms {
		ack := ""
		if a.Acknowledged {
			ack = " [acknowledged]"
		}

		_, _ = fmt.Fprintf(
			w,
			"  %s  %-8s %-10s %s - %s%s\n",
			a.ID,
			strings.ToUpper(a.Severity),
			a.Type,
			grinder.FormatAge(a.Timestamp, now),
			a.Message,
			ack,
		)
	}
}
