package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		desc   string
		yaml   string
		env    map[string]string
		expect Config
		err    bool
	}{
		{
			desc: "defaults",
			yaml: "database:\n  path: test.db\n",
			expect: Config{
				Env: "local",
				Database: Database{
					Path:        "test.db",
					Mode:        ModeReadWriteCreate,
					BusyTimeout: 60 * time.Second,
				},
			},
		},
		{
			desc: "explicit",
			yaml: "env: prod\ndatabase:\n  path: /var/lib/app.db\n  mode: ro\n  busy_timeout: 5s\n  verbose: true\n",
			expect: Config{
				Env: "prod",
				Database: Database{
					Path:        "/var/lib/app.db",
					Mode:        ModeReadOnly,
					BusyTimeout: 5 * time.Second,
					Verbose:     true,
				},
			},
		},
		{
			desc: "env overrides file",
			yaml: "env: dev\ndatabase:\n  path: file.db\n",
			env:  map[string]string{"DATABASE_PATH": "env.db", "DATABASE_BUSY_TIMEOUT": "1s"},
			expect: Config{
				Env: "dev",
				Database: Database{
					Path:        "env.db",
					Mode:        ModeReadWriteCreate,
					BusyTimeout: time.Second,
				},
			},
		},
		{
			desc: "unknown mode",
			yaml: "database:\n  path: test.db\n  mode: rx\n",
			err:  true,
		},
		{
			desc: "missing path",
			yaml: "env: local\n",
			err:  true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := writeFile(t, t.TempDir(), "config.yaml", tt.yaml)

			cfg, err := Load(path)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, *cfg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "env: local\n")
	writeFile(t, dir, ".env", "DATABASE_PATH=dotenv.db\n")

	t.Setenv("DATABASE_PATH", "")
	os.Unsetenv("DATABASE_PATH")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv.db", cfg.Path)
}

func TestMustLoadPathPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
