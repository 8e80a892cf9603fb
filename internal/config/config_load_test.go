package config

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"INFRATRACK_MODE",
	"INFRATRACK_DIR",
	"INFRATRACK_FORMAT",
	"INFRATRACK_OUTPUT",
	"INFRATRACK_WORKERS",
	"INFRATRACK_MAXFILESIZE",
	"INFRATRACK_LOGLEVEL",
	"INFRATRACK_LOGFORMAT",
}

// withArgs runs LoadFromFlags against a fresh flag set and the given args.
func withArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		pflag.CommandLine = pflag.NewFlagSet(originalArgs[0], pflag.ExitOnError)
		viper.Reset()
	})

	os.Args = append([]string{"infratrack"}, args...)
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()

	return LoadFromFlags()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := withArgs(t)
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.Inputs)
	assert.NotEmpty(t, cfg.Directory)
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := withArgs(t,
		"--mode=extract",
		"--dir="+dir,
		"--format=CSV",
		"-o", "out.csv",
		"--workers=8",
		"--maxfilesize=2048",
		"--loglevel=debug",
		"--logformat=console",
		"metro.pdf", "highway.json",
	)
	require.NoError(t, err)

	assert.True(t, cfg.IsExtractMode())
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "out.csv", cfg.Output)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, []string{"metro.pdf", "highway.json"}, cfg.Inputs)
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Setenv("INFRATRACK_MODE", "extract")
	t.Setenv("INFRATRACK_DIR", dir)
	t.Setenv("INFRATRACK_FORMAT", "xlsx")
	t.Setenv("INFRATRACK_WORKERS", "2")
	t.Setenv("INFRATRACK_LOGLEVEL", "warn")
	t.Setenv("INFRATRACK_MAXFILESIZE", "200000000")

	cfg, err := withArgs(t)
	require.NoError(t, err)

	assert.Equal(t, ModeExtract, cfg.Mode)
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, "xlsx", cfg.Format)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, int64(200000000), cfg.MaxFileSize)
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INFRATRACK_MODE", "extract")
	t.Setenv("INFRATRACK_WORKERS", "2")

	cfg, err := withArgs(t, "--mode=stdio", "--dir="+t.TempDir(), "--workers=16")
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, 16, cfg.Workers)
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "mode", args: []string{"--mode=server"}, want: "mode must be"},
		{name: "format", args: []string{"--format=yaml"}, want: "invalid format"},
		{name: "workers", args: []string{"--workers=0"}, want: "workers must be between"},
		{name: "too many workers", args: []string{"--workers=65"}, want: "workers must be between"},
		{name: "log level", args: []string{"--loglevel=verbose"}, want: "invalid log level"},
		{name: "log format", args: []string{"--logformat=xml"}, want: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			_, err := withArgs(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	clearEnv(t)

	_, err := withArgs(t, "--version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionRequested))
}
