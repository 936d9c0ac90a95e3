// internal/logging/logging_test.go
package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := parseLevel("")
	assert.False(t, ok)
	_, ok = parseLevel("loud")
	assert.False(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)

	assert.Equal(t, Config{Level: zerolog.ErrorLevel, Timestamp: false, NoColor: true}, cfg)
}

func TestEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")
	t.Setenv(EnvLogTimestamp, "maybe")

	cfg := defaultConfig(ProfileTest)
	applyEnvOverrides(&cfg)

	assert.Equal(t, defaultConfig(ProfileTest), cfg)
}

func TestConfigureTests_RunsOnce(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	ConfigureTests()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	// later profiles are ignored
	ConfigureRuntime()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
