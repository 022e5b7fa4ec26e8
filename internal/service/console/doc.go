// Package console implements the operator commands: the long-running watch
// view and the one-shot alarm and reset commands. Output meant for the
// operator goes to the provided writer; diagnostics go through the logger.
package console
