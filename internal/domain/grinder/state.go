package grinder

// State is a snapshot of the discrete indicator flags of the grinder.
// Every successful poll replaces it as a whole.
type State struct {
	// Forward is set while the motor runs forward.
	Forward bool `json:"forward"`
	// Reverse is set while the motor runs in reverse.
	Reverse bool `json:"reverse"`
	// Jam drives the jam lamp and buzzer.
	Jam bool `json:"jam"`
	// LowLevel signals a low material level.
	LowLevel bool `json:"LOWLEVEL"`
	// AutoMode and ManualMode are meant to be exclusive but the controller
	// does not enforce it, so both are kept as reported.
	AutoMode   bool `json:"autoMode"`
	ManualMode bool `json:"manualMode"`
	// GatewayConnected reports the controller gateway link.
	GatewayConnected bool `json:"gatewayConnected"`
}

// Clone returns a copy of the state; nil stays nil.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Indicator is a named flag of a state snapshot, in panel order.
type Indicator struct {
	Name   string
	Active bool
}

// Indicators lists the flags the way the operator panel lays them out.
func (s *State) Indicators() []Indicator {
	if s == nil {
		return nil
	}

	return []Indicator{
		{Name: "Forward", Active: s.Forward},
		{Name: "Reverse", Active: s.Reverse},
		{Name: "Jam / Buzzer", Active: s.Jam},
		{Name: "Low level", Active: s.LowLevel},
		{Name: "Auto", Active: s.AutoMode},
		{Name: "Manual", Active: s.ManualMode},
		{Name: "Gateway", Active: s.GatewayConnected},
	}
}
