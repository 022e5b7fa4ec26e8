// Package reset drives the controller reset command through an explicit
// idle, in-flight and resolved state machine. A trigger while a reset is in
// flight is rejected, and a resolved outcome clears itself after a fixed
// display duration.
package reset
