package log

// nullLogger discards everything. Used by tests and by hosts that want a
// silent core.
type nullLogger struct{}

// NewNull returns a Logger that discards all output.
func NewNull() Logger { return nullLogger{} }

func (nullLogger) Debugf(format string, args ...interface{}) {}
func (nullLogger) Infof(format string, args ...interface{})  {}
func (nullLogger) Warnf(format string, args ...interface{})  {}
func (nullLogger) Errorf(format string, args ...interface{}) {}
