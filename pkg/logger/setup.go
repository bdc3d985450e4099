package logger

// SetupLogger initializes the default logger from CLI-level settings.
func SetupLogger(level LogLevel, logJSON, logSource bool) Logger {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.JSON = logJSON
	cfg.AddSource = logSource
	return Init(cfg)
}
