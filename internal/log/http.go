package log

import "go.uber.org/zap"

// HttpLogger routes retryablehttp and elastic trace output to the debug level.
type HttpLogger struct{}

func (HttpLogger) Printf(format string, v ...interface{}) {
	zap.S().Debugf(format, v...)
}
