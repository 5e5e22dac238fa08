// Package monitoring carries the diagnostic log channel shared by the
// normalizers. Messages reported here are observational only: callers
// must never branch on log content, and warnings do not change the
// shape of any normalizer result beyond its documented fallbacks.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Infof reports an informational message, such as region or metric counts.
func Infof(format string, v ...interface{}) {
	Logf(format, v...)
}

// Warnf reports a non-fatal condition, such as a land-class mismatch or a
// substituted optional column.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}
