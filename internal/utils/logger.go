// internal/utils/logger.go
package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds the process logger: console output always, plus a
// JSON file sink when logFile is non-empty.
func InitLogger(debug bool, logFile string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
	}

	consoleEncoder := zapcore.NewConsoleEncoder(config.EncoderConfig)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), config.Level),
	}

	if logFile != "" {
		logFileHandle, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		fileEncoder := zapcore.NewJSONEncoder(config.EncoderConfig)
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(logFileHandle), config.Level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
