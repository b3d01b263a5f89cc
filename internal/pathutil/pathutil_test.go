package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	testCases := []struct {
		env    string
		config string
		db     string
		state  string
		log    string
	}{
		{
			env:    "",
			config: "config.yml",
			db:     "focus.db",
			state:  "state",
			log:    "focus.log",
		},
		{
			env:    " dev ",
			config: "config_dev.yml",
			db:     "focus_dev.db",
			state:  "state_dev",
			log:    "focus_dev.log",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			p, err := Resolve(tc.env)
			require.NoError(t, err)

			assert.Equal(t, tc.config, filepath.Base(p.ConfigFile))
			assert.Equal(t, appDir, filepath.Base(filepath.Dir(p.ConfigFile)))
			assert.Equal(t, tc.db, filepath.Base(p.DBFile))
			assert.Equal(t, tc.state, filepath.Base(p.StateDir))
			assert.Equal(t, tc.log, filepath.Base(p.LogFile))
			assert.Equal(t, "log", filepath.Base(filepath.Dir(p.LogFile)))
			assert.Equal(t, filepath.Dir(p.DBFile), filepath.Dir(p.StateDir))
		})
	}
}
