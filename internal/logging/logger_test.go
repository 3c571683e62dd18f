package logging

import (
	"testing"

	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		level     logrus.Level
		formatter logrus.Formatter
	}{
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, logrus.DebugLevel, &logrus.JSONFormatter{}},
		{"text warn", config.LoggingConfig{Level: "warn", Format: "text"}, logrus.WarnLevel, &logrus.TextFormatter{FullTimestamp: true}},
		{"invalid level falls back to info", config.LoggingConfig{Level: "verbose", Format: "json"}, logrus.InfoLevel, &logrus.JSONFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)

			assert.Equal(t, tt.level, logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.Formatter)
		})
	}
}
