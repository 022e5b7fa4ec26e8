// Package grinder contains the core domain types of the grinder console.
//
// State is a snapshot of the controller indicator flags and Alarm is a fault
// record raised by the controller. Both come with Clone helpers so the
// synchronizer never leaks its internal references to readers.
package grinder
