package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestTokenRole(t *testing.T) {
	tests := []struct {
		name  string
		token *FirebaseToken
		want  string
	}{
		{"nil token", nil, ""},
		{"no claims", &FirebaseToken{UID: "u1"}, ""},
		{"string role", &FirebaseToken{Claims: map[string]interface{}{"role": "pilot"}}, "pilot"},
		{"non-string role", &FirebaseToken{Claims: map[string]interface{}{"role": 7}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Role(); got != tt.want {
				t.Errorf("Role() = %q, want %q", got, tt.want)
			}
		})
	}
}
