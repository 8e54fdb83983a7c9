// Package version exposes build metadata injected via Go ldflags.
package version
