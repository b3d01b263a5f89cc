// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const (
	envFocusEnv = "FOCUS_ENV"
	appDir      = "focus"
)

// Paths holds the absolute locations of every file focus reads or writes.
type Paths struct {
	ConfigFile string
	DBFile     string
	// StateDir is shared by every focus process for the timer state,
	// remote actions and the widget visibility flag.
	StateDir string
	LogFile  string
}

var (
	paths *Paths
	once  sync.Once
)

// suffix keeps files of separate environments (FOCUS_ENV=dev) apart.
func suffix(env string) string {
	if env == "" {
		return ""
	}

	return "_" + env
}

// Resolve computes the paths for env under the XDG base directories. An
// empty env yields the default file names.
func Resolve(env string) (*Paths, error) {
	s := suffix(strings.TrimSpace(env))

	configFile, err := xdg.ConfigFile(
		filepath.Join(appDir, fmt.Sprintf("config%s.yml", s)),
	)
	if err != nil {
		return nil, err
	}

	dataDir, err := xdg.DataFile(appDir)
	if err != nil {
		return nil, err
	}

	return &Paths{
		ConfigFile: configFile,
		DBFile:     filepath.Join(dataDir, fmt.Sprintf("focus%s.db", s)),
		StateDir:   filepath.Join(dataDir, "state"+s),
		LogFile:    filepath.Join(dataDir, "log", fmt.Sprintf("focus%s.log", s)),
	}, nil
}

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths, initErr = Resolve(os.Getenv(envFocusEnv))
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

// Dir is the name of the focus directory inside each XDG base directory.
func Dir() string {
	return appDir
}

func ConfigFilePath() string {
	return Must().ConfigFile
}

func DBFilePath() string {
	return Must().DBFile
}

func StateDir() string {
	return Must().StateDir
}

func LogFilePath() string {
	return Must().LogFile
}
