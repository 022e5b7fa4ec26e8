// Package metrics registers the console Prometheus collectors and exposes
// small helpers so callers never touch the collectors directly.
package metrics
