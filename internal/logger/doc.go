// Package logger wraps zap to provide:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing so the configured log_level can be applied at startup,
//   - leveled convenience functions (Infof, WarnKV, ErrorKV, ...).
//
// Services take a context and pull the logger out of it, so every poll loop
// and command logs under its own name.
package logger
