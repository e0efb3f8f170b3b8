package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           Config
		expectedError string
	}{
		{name: "defaults", cfg: Config{}},
		{name: "json debug", cfg: Config{LogFormat: "json", LogLevel: "debug"}},
		{name: "bad level", cfg: Config{LogLevel: "trace"}, expectedError: `invalid log level "trace"`},
		{name: "bad format", cfg: Config{LogFormat: "xml"}, expectedError: `invalid log format "xml"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestConfig_ValidateBuild(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           Config
		expectedError string
	}{
		{name: "recipe", cfg: Config{Recipe: "a b", OutputPath: "p.nf"}},
		{name: "file", cfg: Config{PipelinePath: "p.hcl", OutputPath: "out/p.nf"}},
		{name: "both sources", cfg: Config{Recipe: "a", PipelinePath: "p.hcl", OutputPath: "p.nf"}, expectedError: "cannot be used together"},
		{name: "no output", cfg: Config{Recipe: "a"}, expectedError: "an output file is required"},
		{name: "wrong extension", cfg: Config{Recipe: "a", OutputPath: "p.groovy"}, expectedError: `"p.groovy" must have the .nf extension`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateBuild()
			if tc.expectedError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedError)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	level, err = parseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
