package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zerolog.Level
	}{
		{"development", "", zerolog.DebugLevel},
		{"production", "", zerolog.InfoLevel},
		{"production", "debug", zerolog.DebugLevel},
		{"development", "WARN", zerolog.WarnLevel},
		{"development", "error", zerolog.ErrorLevel},
		{"production", "bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.env, tt.level), "env=%s level=%s", tt.env, tt.level)
	}
}
