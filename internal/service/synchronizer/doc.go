// Package synchronizer keeps the console's local copy of the grinder state,
// the unacknowledged alarm count and the alarm list fresh.
//
// State and count are polled on their own tickers; the alarm list is only
// fetched on demand, when the alarm panel opens or after a mutation. The
// count and the list are owned independently and converge on their own, so
// they may briefly disagree.
package synchronizer
