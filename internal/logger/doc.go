// Package logger wraps zap with:
//   - a global sugared logger writing a console format to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and per-logger level overrides,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and pull the logger out of it, so every message
// carries the name and fields of the operation that produced it.
package logger
