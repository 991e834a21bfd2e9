package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Logger returns the process-wide zap logger. When LOG_FILE is set the
// logger tees JSON output to that file and stdout; otherwise it is a plain
// production logger.
func Logger() *zap.Logger {
	once.Do(func() {
		logFile := os.Getenv("LOG_FILE")
		if logFile == "" {
			l, _ := zap.NewProduction()
			logger = l
			return
		}
		_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			l, _ := zap.NewProduction()
			logger = l
			return
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.InfoLevel)
		consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
		logger = zap.New(zapcore.NewTee(fileCore, consoleCore))
	})
	return logger
}
