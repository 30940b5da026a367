package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "classmut", configBaseName)
	assert.Equal(t, "classmut.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "classpath", classpathFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "analyze.parallel", parallelConfigKey)
	assert.Equal(t, "analyze.operators", operatorsConfigKey)
	assert.Equal(t, "paths.classpath", classpathConfigKey)
	assert.Equal(t, ".classmut/report.yaml", defaultReportPath)
	assert.Equal(t, 4, defaultParallel)
	assert.Equal(t, "CLASSMUT", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"mixed case warning", " Warning ", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestFilterConfig_Defaults(t *testing.T) {
	cfg := filterConfig()

	assert.Equal(t, 4, cfg.GuardWindow)
	assert.Equal(t, 6, cfg.HeadWindow)
	assert.NoError(t, cfg.Validate())
}
