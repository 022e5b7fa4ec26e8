package grinder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localLayouts are the zone-less timestamp shapes read as local time.
var localLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Alarm is a fault record raised by the controller.
// The client only changes alarms through the server and refetches afterwards.
type Alarm struct {
	// ID is the opaque server-assigned identity.
	ID string
	// Type is the category label.
	Type string
	// Message is free text.
	Message string
	// Severity is defined by the server (info, warning, critical, ...).
	Severity string
	// Timestamp is when the alarm was raised; zero when the server sent
	// nothing readable.
	Timestamp time.Time
	// Acknowledged flips to true once an operator acknowledges the alarm.
	Acknowledged bool
}

// wireAlarm mirrors the server payload. The server names the identity _id;
// some deployments expose it as id, and numeric ids are seen as well.
type wireAlarm struct {
	MongoID      json.RawMessage `json:"_id,omitempty"`
	ID           json.RawMessage `json:"id,omitempty"`
	Type         string          `json:"type"`
	Message      string          `json:"message"`
	Severity     string          `json:"severity"`
	Timestamp    json.RawMessage `json:"timestamp,omitempty"`
	Acknowledged bool            `json:"acknowledged"`
}

// UnmarshalJSON accepts both _id and id, as strings or numbers. An unreadable
// timestamp never fails the alarm, it decodes as the zero time.
func (a *Alarm) UnmarshalJSON(data []byte) error {
	var w wireAlarm
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	raw := w.MongoID
	if len(raw) == 0 {
		raw = w.ID
	}

	id, err := decodeID(raw)
	if err != nil {
		return err
	}

	*a = Alarm{
		ID:           id,
		Type:         w.Type,
		Message:      w.Message,
		Severity:     w.Severity,
		Timestamp:    decodeTimestamp(w.Timestamp),
		Acknowledged: w.Acknowledged,
	}

	return nil
}

// MarshalJSON writes the server representation.
func (a *Alarm) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(a.ID)
	if err != nil {
		return nil, err
	}

	w := wireAlarm{
		MongoID:      id,
		Type:         a.Type,
		Message:      a.Message,
		Severity:     a.Severity,
		Acknowledged: a.Acknowledged,
	}

	if !a.Timestamp.IsZero() {
		if w.Timestamp, err = json.Marshal(a.Timestamp); err != nil {
			return nil, err
		}
	}

	return json.Marshal(w)
}

// Clone returns a copy of the alarm; nil stays nil.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// CloneAlarms copies a list so callers cannot alter the original records.
func CloneAlarms(alarms []*Alarm) []*Alarm {
	result := make([]*Alarm, 0, len(alarms))
	for _, a := range alarms {
		result = append(result, a.Clone())
	}

	return result
}

// CountUnacknowledged returns how many alarms still wait for an operator.
func CountUnacknowledged(alarms []*Alarm) int {
	var n int

	for _, a := range alarms {
		if a != nil && !a.Acknowledged {
			n++
		}
	}

	return n
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("alarm id %s: %w", raw, err)
	}

	return n.String(), nil
}

// decodeTimestamp reads an RFC 3339 string, a zone-less date and time in
// local time, or epoch milliseconds. Anything else is the zero time.
func decodeTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}

	if raw[0] != '"' {
		millis, err := json.Number(raw).Float64()
		if err != nil {
			return time.Time{}
		}

		return time.UnixMilli(int64(millis))
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return time.Time{}
	}

	if ts, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return ts
	}

	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return ts
		}
	}

	return time.Time{}
}
