package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Config{LogLevel: "info", Emitters: 4, Producers: 4, Events: 1000}, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EMITTER_LOG_LEVEL", "debug")
	t.Setenv("EMITTER_DEMO_EMITTERS", "2")
	t.Setenv("EMITTER_DEMO_PRODUCERS", "8")
	t.Setenv("EMITTER_DEMO_EVENTS", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Config{LogLevel: "debug", Emitters: 2, Producers: 8, Events: 10}, cfg)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"not a number", "EMITTER_DEMO_EVENTS", "many"},
		{"zero emitters", "EMITTER_DEMO_EMITTERS", "0"},
		{"negative producers", "EMITTER_DEMO_PRODUCERS", "-1"},
		{"zero events", "EMITTER_DEMO_EVENTS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
