package recovery

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Metrics is the subset of the metrics collector the recovery handlers need.
type Metrics interface {
	ObserveGoroutineFailure()
}

// Wrap returns the given callback guarded by a panic handler that logs the
// panic with its stack and counts the failure.
func Wrap(name string, log logrus.FieldLogger, metrics Metrics, callback func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				metrics.ObserveGoroutineFailure()
				log.WithFields(logrus.Fields{
					"name":  name,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("Recovering from panic")
			}
		}()

		callback()
	}
}

// Go invokes the given callback in a goroutine guarded by Wrap.
func Go(name string, log logrus.FieldLogger, metrics Metrics, callback func()) {
	go Wrap(name, log, metrics, callback)()
}

// GoWorker invokes the given callback in a goroutine, automatically
// restarting it in a fresh goroutine on any unrecovered panic or unexpected
// termination, unless the process is quitting.
func GoWorker(name string, log logrus.FieldLogger, metrics Metrics, isQuitting func() bool, callback func()) {
	var doRecoverableStart func()

	doRecover := func() {
		if isQuitting() {
			return
		}

		metrics.ObserveGoroutineFailure()
		entry := log.WithField("name", name)
		if r := recover(); r != nil {
			entry.WithFields(logrus.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovering from panic, restarting worker")
		} else {
			entry.Error("Recovering from unexpected exit, restarting worker")
		}

		go doRecoverableStart()
	}

	doRecoverableStart = func() {
		defer doRecover()
		callback()
	}

	go doRecoverableStart()
}
