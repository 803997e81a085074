package port

// Logger is the printf-style subset of *zap.SugaredLogger used by the core.
type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}
