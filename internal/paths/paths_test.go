package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHomeDir swaps the platform home lookup for the duration of a test.
func withHomeDir(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := platformDir.homeDir
	platformDir.homeDir = fn
	t.Cleanup(func() { platformDir.homeDir = orig })
}

func TestDefaultHomeDir(t *testing.T) {
	t.Run("joins the user home", func(t *testing.T) {
		withHomeDir(t, func() (string, error) { return "/home/ada", nil })
		got, err := DefaultHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/ada", ".woolly"), got)
	})

	t.Run("propagates lookup failure", func(t *testing.T) {
		boom := errors.New("no home")
		withHomeDir(t, func() (string, error) { return "", boom })
		_, err := DefaultHomeDir()
		assert.ErrorIs(t, err, boom)
	})
}

func TestResolveHomeDir(t *testing.T) {
	withHomeDir(t, func() (string, error) { return "/home/ada", nil })

	tests := []struct {
		name   string
		flag   string
		envVal string
		want   string
	}{
		{
			name:   "flag wins over env",
			flag:   "/explicit/home",
			envVal: "/env/home",
			want:   "/explicit/home",
		},
		{
			name:   "env wins when flag empty",
			envVal: "/env/home",
			want:   "/env/home",
		},
		{
			name: "default when both empty",
			want: "/home/ada/.woolly",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvHomeDir, tt.envVal)
			got, err := ResolveHomeDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	tests := []struct {
		name          string
		configYAMLVal string
		envVal        string
		want          string
	}{
		{
			name:          "config.yaml wins over env",
			configYAMLVal: "/config/data",
			envVal:        "/env/data",
			want:          "/config/data",
		},
		{
			name:   "env wins when config empty",
			envVal: "/env/data",
			want:   "/env/data",
		},
		{
			name: "home when all empty",
			want: "/home/ada/.woolly",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			got, err := ResolveDataDir("/home/ada/.woolly", tt.configYAMLVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AbsolutePath(t *testing.T) {
	t.Run("relative flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvHomeDir, "")
		got, err := ResolveHomeDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative env becomes absolute", func(t *testing.T) {
		t.Setenv(EnvHomeDir, "relative/env")
		got, err := ResolveHomeDir("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative config value becomes absolute", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		got, err := ResolveDataDir("/home", "relative/config")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/h", "config.yaml"), ConfigFile("/h"))
}
