// Package recovery wraps background goroutines with panic handlers so that a
// failure in any single poll cycle or server loop never takes down the whole
// companion process. Panics are logged with their stack and counted in
// metrics; workers are restarted unless the process is shutting down.
package recovery
