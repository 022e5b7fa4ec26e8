// Package lifecycle changes alarms on the server on operator command and
// resynchronizes the alarm slices afterwards.
//
// The server is the only source of truth: nothing is flipped locally, with
// one exception. Acknowledge-all zeroes the local count instead of
// refetching it, unlike single acknowledge and delete.
package lifecycle
