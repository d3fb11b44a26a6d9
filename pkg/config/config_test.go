package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "explicit missing file should fail")

	cfg, err = config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "widgetTree", cfg.Convert.DefaultTarget)
	assert.Equal(t, "local", cfg.Convert.StatePattern)
	assert.Equal(t, 2, cfg.Convert.IndentWidth)
	assert.False(t, cfg.Convert.Verify)
	assert.Empty(t, cfg.Mappings.ExtraTables)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1<<20, cfg.Server.MaxInputBytes)
	assert.True(t, cfg.Server.Metrics)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uimorph.yaml")
	content := `convert:
  default_target: componentModel
  indent_width: 4
mappings:
  extra_tables:
    - ./mappings/team.yaml
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "componentModel", cfg.Convert.DefaultTarget)
	assert.Equal(t, 4, cfg.Convert.IndentWidth)
	assert.Equal(t, []string{"./mappings/team.yaml"}, cfg.Mappings.ExtraTables)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, "local", cfg.Convert.StatePattern)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("UIMORPH_LOGGING_LEVEL", "warn")
	t.Setenv("UIMORPH_CONVERT_STATE_PATTERN", "reducer")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "reducer", cfg.Convert.StatePattern)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "bad state pattern",
			content: "convert:\n  state_pattern: global\n",
			wantErr: config.ErrInvalidStatePattern,
		},
		{
			name:    "bad indent",
			content: "convert:\n  indent_width: 0\n",
			wantErr: config.ErrInvalidIndent,
		},
		{
			name:    "bad framework",
			content: "convert:\n  default_target: flutter\n",
			wantErr: config.ErrInvalidFramework,
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			wantErr: config.ErrInvalidLogLevel,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "uimorph.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := config.LoadConfig(path)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
